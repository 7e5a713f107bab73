package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"jokefetch/internal/domain/models"
)

type Loader struct {
	log  *slog.Logger
	path string
}

func NewLoader(log *slog.Logger, path string) *Loader {
	return &Loader{
		log:  log,
		path: path,
	}
}

// LoadJokes reads a previously saved jokes file and returns its payloads,
// in file order. Entries without an identifier are kept; callers that need
// one decide what to do with them.
func (l *Loader) LoadJokes(ctx context.Context) ([]models.Joke, error) {
	const op = "loader.LoadJokes"

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var payloads []json.RawMessage
	if err := json.Unmarshal(data, &payloads); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	jokes := make([]models.Joke, 0, len(payloads))
	for _, payload := range payloads {
		jokes = append(jokes, models.NewJoke(payload))
	}

	l.log.Info("jokes loaded", "path", l.path, "count", len(jokes))

	return jokes, nil
}
