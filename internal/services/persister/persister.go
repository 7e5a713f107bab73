package persister

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"jokefetch/internal/domain/models"
)

type Persister struct {
	log  *slog.Logger
	path string
}

func New(log *slog.Logger, path string) (*Persister, error) {
	const op = "persister.New"

	if path == "" {
		return nil, fmt.Errorf("%s: empty output path", op)
	}

	return &Persister{log: log, path: path}, nil
}

// Save writes the jokes as a pretty-printed JSON array, overwriting any
// previous file. Payloads pass through byte for byte, so non-ASCII text
// stays readable in the output.
func (p *Persister) Save(ctx context.Context, jokes []models.Joke) error {
	const op = "persister.Save"

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	file, err := os.Create(p.path)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	payloads := make([]json.RawMessage, 0, len(jokes))
	for _, joke := range jokes {
		payloads = append(payloads, joke.Raw)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(payloads); err != nil {
		_ = file.Close()
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.log.Info("jokes saved", "path", p.path, "count", len(jokes))

	return nil
}
