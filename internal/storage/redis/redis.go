package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"jokefetch/internal/domain/models"
	"jokefetch/internal/lib/logger/sl"

	"github.com/go-redis/redis"
)

type commands interface {
	Set(key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

type Storage struct {
	log    *slog.Logger
	client commands
}

// New connects to Redis and verifies the connection with a ping.
func New(log *slog.Logger, address, password string, db int) (*Storage, error) {
	const op = "storage.redis.New"

	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	if _, err := client.Ping().Result(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{log: log, client: client}, nil
}

func (s *Storage) Close() error {
	return s.client.Close()
}

// AddJokes mirrors each joke body under its identifier so other tools can
// serve jokes by id straight from Redis. Keys never expire.
func (s *Storage) AddJokes(ctx context.Context, jokes []models.Joke) (int, error) {
	const op = "storage.redis.AddJokes"

	stored := 0
	for _, joke := range jokes {
		select {
		case <-ctx.Done():
			return stored, ctx.Err()
		default:
		}

		details, err := joke.Details()
		if err != nil {
			s.log.Warn("skipping joke with undecodable payload", sl.Err(err))
			continue
		}

		key := strconv.FormatInt(details.ID, 10)
		if err := s.client.Set(key, details.Text(), 0).Err(); err != nil {
			return stored, fmt.Errorf("%s: %w", op, err)
		}
		stored++
	}

	return stored, nil
}
