package dedup

import (
	"log/slog"

	"jokefetch/internal/domain/models"
)

type Deduper struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Deduper {
	return &Deduper{log: log}
}

// Unique keeps the first occurrence of every joke identifier, preserving
// the order in which jokes arrived. Jokes without an identifier cannot be
// told apart reliably and are dropped.
func (d *Deduper) Unique(jokes []models.Joke) []models.Joke {
	seen := make(map[int64]struct{}, len(jokes))
	unique := make([]models.Joke, 0, len(jokes))

	missingID := 0
	for _, joke := range jokes {
		if joke.ID == nil {
			missingID++
			continue
		}
		if _, ok := seen[*joke.ID]; ok {
			continue
		}
		seen[*joke.ID] = struct{}{}
		unique = append(unique, joke)
	}

	d.log.Info("deduplication done",
		"total", len(jokes),
		"unique", len(unique),
		"removed", len(jokes)-len(unique),
		"missing_id", missingID,
	)

	return unique
}
