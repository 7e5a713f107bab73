package leveldb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"jokefetch/internal/domain/models"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	jokeKeyPrefix = "joke:"
	wordKeyPrefix = "word:"
)

var ErrNotFound = errors.New("not found")

type Storage struct {
	log *slog.Logger
	db  *leveldb.DB
}

func NewStorage(log *slog.Logger, path string) (*Storage, error) {
	const op = "storage.leveldb.NewStorage"

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Debug("archive opened", "path", path)

	return &Storage{log: log, db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func jokeKey(id int64) []byte {
	return []byte(jokeKeyPrefix + strconv.FormatInt(id, 10))
}

func wordKey(word string) []byte {
	return []byte(wordKeyPrefix + word)
}

// SaveJokeWithIndexing stores the raw payload under the joke identifier and
// appends an "id:count" entry to the postings list of every indexed word.
// A joke already present keeps its postings and only refreshes the payload,
// so re-archiving the same run is idempotent.
func (s *Storage) SaveJokeWithIndexing(ctx context.Context, joke models.Joke, words []string) error {
	const op = "storage.leveldb.SaveJokeWithIndexing"

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if joke.ID == nil {
		return fmt.Errorf("%s: joke has no id", op)
	}
	id := *joke.ID

	key := jokeKey(id)
	exists, err := s.db.Has(key, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	batch := new(leveldb.Batch)
	batch.Put(key, joke.Raw)

	if !exists {
		counts := make(map[string]int)
		for _, word := range words {
			counts[word]++
		}

		for word, count := range counts {
			entry := fmt.Sprintf("%d:%d", id, count)

			existing, err := s.db.Get(wordKey(word), nil)
			if err == nil && len(existing) > 0 {
				entry = string(existing) + "," + entry
			} else if err != nil && !errors.Is(err, leveldb.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, err)
			}

			batch.Put(wordKey(word), []byte(entry))
		}
	}

	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetJoke(ctx context.Context, id int64) (models.Joke, error) {
	const op = "storage.leveldb.GetJoke"

	select {
	case <-ctx.Done():
		return models.Joke{}, ctx.Err()
	default:
	}

	data, err := s.db.Get(jokeKey(id), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return models.Joke{}, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return models.Joke{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.NewJoke(data), nil
}

// GetWord returns the stored postings lists for word. A word that was never
// indexed yields no postings and no error.
func (s *Storage) GetWord(ctx context.Context, word string) ([]string, error) {
	const op = "storage.leveldb.GetWord"

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := s.db.Get(wordKey(word), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return []string{string(data)}, nil
}

type Stats struct {
	Jokes int
	Words int
}

func (s *Storage) Stats(ctx context.Context) (Stats, error) {
	const op = "storage.leveldb.Stats"

	select {
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	default:
	}

	var stats Stats

	for _, prefix := range []string{jokeKeyPrefix, wordKeyPrefix} {
		iter := s.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
		count := 0
		for iter.Next() {
			count++
		}
		iter.Release()
		if err := iter.Error(); err != nil {
			return Stats{}, fmt.Errorf("%s: %w", op, err)
		}

		if prefix == jokeKeyPrefix {
			stats.Jokes = count
		} else {
			stats.Words = count
		}
	}

	return stats, nil
}
