package dedup

import (
	"io"
	"log/slog"
	"strconv"
	"testing"

	"jokefetch/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeduper() *Deduper {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func jokeWithID(id int64) models.Joke {
	return models.NewJoke([]byte(`{"id":` + strconv.FormatInt(id, 10) + `,"type":"single","joke":"j"}`))
}

func ids(jokes []models.Joke) []int64 {
	out := make([]int64, 0, len(jokes))
	for _, j := range jokes {
		out = append(out, *j.ID)
	}
	return out
}

func TestUniqueKeepsFirstOccurrenceOrder(t *testing.T) {
	d := newTestDeduper()

	unique := d.Unique([]models.Joke{jokeWithID(1), jokeWithID(2), jokeWithID(1)})

	assert.Equal(t, []int64{1, 2}, ids(unique))
}

func TestUniquePreservesArrivalOrder(t *testing.T) {
	d := newTestDeduper()

	unique := d.Unique([]models.Joke{
		jokeWithID(5), jokeWithID(3), jokeWithID(9), jokeWithID(3), jokeWithID(5), jokeWithID(1),
	})

	assert.Equal(t, []int64{5, 3, 9, 1}, ids(unique))
}

func TestUniqueIsIdempotent(t *testing.T) {
	d := newTestDeduper()

	first := d.Unique([]models.Joke{jokeWithID(1), jokeWithID(1), jokeWithID(2)})
	second := d.Unique(first)

	assert.Equal(t, ids(first), ids(second))
}

func TestUniqueDropsJokesWithoutID(t *testing.T) {
	d := newTestDeduper()

	unique := d.Unique([]models.Joke{
		jokeWithID(1),
		models.NewJoke([]byte(`{"type":"single","joke":"no id"}`)),
		models.NewJoke([]byte(`{"id":null,"type":"single","joke":"null id"}`)),
		jokeWithID(2),
	})

	assert.Equal(t, []int64{1, 2}, ids(unique))
}

func TestUniqueKeepsZeroID(t *testing.T) {
	d := newTestDeduper()

	unique := d.Unique([]models.Joke{jokeWithID(0), jokeWithID(0), jokeWithID(4)})

	require.Len(t, unique, 2)
	assert.Equal(t, []int64{0, 4}, ids(unique))
}

func TestUniqueEmptyInput(t *testing.T) {
	d := newTestDeduper()

	assert.Empty(t, d.Unique(nil))
}
