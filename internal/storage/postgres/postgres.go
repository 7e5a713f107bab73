package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"jokefetch/internal/domain/models"
	"jokefetch/internal/lib/logger/sl"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS jokes (
	id       BIGINT PRIMARY KEY,
	category TEXT NOT NULL DEFAULT '',
	kind     TEXT NOT NULL DEFAULT '',
	body     TEXT NOT NULL,
	lang     TEXT NOT NULL DEFAULT '',
	safe     BOOLEAN NOT NULL DEFAULT FALSE,
	raw      JSONB NOT NULL
)`

type DB struct {
	log  *slog.Logger
	conn *sqlx.DB
}

// New connects to Postgres and provisions the jokes table when missing.
func New(ctx context.Context, log *slog.Logger, dsn string) (*DB, error) {
	const op = "storage.postgres.New"

	conn, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &DB{log: log, conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// AddJokes inserts the jokes that are not in the table yet and reports how
// many rows were actually written. Jokes whose payload cannot be decoded are
// skipped.
func (db *DB) AddJokes(ctx context.Context, jokes []models.Joke) (int, error) {
	const op = "storage.postgres.AddJokes"

	inserted := 0
	for _, joke := range jokes {
		details, err := joke.Details()
		if err != nil {
			db.log.Warn("skipping joke with undecodable payload", sl.Err(err))
			continue
		}

		res, err := db.conn.ExecContext(ctx,
			`INSERT INTO jokes (id, category, kind, body, lang, safe, raw)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (id) DO NOTHING`,
			details.ID, details.Category, details.Type, details.Text(), details.Lang, details.Safe, string(joke.Raw),
		)
		if err != nil {
			return inserted, fmt.Errorf("%s: %w", op, err)
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("%s: %w", op, err)
		}
		inserted += int(rows)
	}

	return inserted, nil
}

func (db *DB) Stats(ctx context.Context) (int, error) {
	const op = "storage.postgres.Stats"

	var count int
	if err := db.conn.GetContext(ctx, &count, `SELECT COUNT(*) FROM jokes`); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}
