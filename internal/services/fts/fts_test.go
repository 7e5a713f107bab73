package fts

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"jokefetch/internal/domain/models"
	"jokefetch/internal/storage/leveldb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFTS(t *testing.T) *FTS {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	storage, err := leveldb.NewStorage(log, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, storage.Close())
	})

	return New(log, storage, storage)
}

func TestIndexAndSearchJokes(t *testing.T) {
	service := newTestFTS(t)
	ctx := context.Background()

	jokes := []models.Joke{
		models.NewJoke([]byte(`{"id":1,"category":"Programming","type":"single","joke":"A programmer walks into a bar and orders a beer."}`)),
		models.NewJoke([]byte(`{"id":2,"category":"Programming","type":"twopart","setup":"Why do coders hate nature?","delivery":"Too many bugs."}`)),
		models.NewJoke([]byte(`{"id":3,"category":"Pun","type":"single","joke":"The bar exam at the bar was a low bar."}`)),
	}
	for _, joke := range jokes {
		require.NoError(t, service.IndexJoke(ctx, joke))
	}

	tests := []struct {
		query       string
		expectedIDs []int64
	}{
		{query: "bar", expectedIDs: []int64{3, 1}},
		{query: "beer bar", expectedIDs: []int64{1, 3}},
		{query: "programming", expectedIDs: []int64{1, 2}},
		{query: "bugs", expectedIDs: []int64{2}},
		{query: "librarian", expectedIDs: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			result, err := service.SearchJokes(ctx, tt.query, 10)
			require.NoError(t, err)

			ids := make([]int64, 0, len(result.ResultData))
			for _, r := range result.ResultData {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.expectedIDs, ids)
			assert.Equal(t, len(tt.expectedIDs), result.TotalResultsCount)
		})
	}
}

func TestSearchRespectsMaxResults(t *testing.T) {
	service := newTestFTS(t)
	ctx := context.Background()

	require.NoError(t, service.IndexJoke(ctx, models.NewJoke([]byte(`{"id":1,"category":"Pun","type":"single","joke":"A pun about cheese."}`))))
	require.NoError(t, service.IndexJoke(ctx, models.NewJoke([]byte(`{"id":2,"category":"Pun","type":"single","joke":"Another pun about cheese."}`))))

	result, err := service.SearchJokes(ctx, "cheese", 1)
	require.NoError(t, err)
	assert.Len(t, result.ResultData, 1)
	assert.Equal(t, 2, result.TotalResultsCount)
	assert.Contains(t, result.Timings, "total")
}

func TestSearchReturnsJokeDetails(t *testing.T) {
	service := newTestFTS(t)
	ctx := context.Background()

	joke := models.NewJoke([]byte(`{"id":7,"category":"Programming","type":"twopart","setup":"Why do coders hate nature?","delivery":"Too many bugs."}`))
	require.NoError(t, service.IndexJoke(ctx, joke))

	result, err := service.SearchJokes(ctx, "nature", 10)
	require.NoError(t, err)
	require.Len(t, result.ResultData, 1)

	got := result.ResultData[0].Joke
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "twopart", got.Type)
	assert.Equal(t, "Why do coders hate nature?", got.Setup)
	assert.Equal(t, "Too many bugs.", got.Delivery)
}

func TestTokenizeSplitsOnMultibyteRunes(t *testing.T) {
	var tokens []string
	for token := range Tokenize("don\u2019t panic\u2014bugs ahead") {
		tokens = append(tokens, token)
	}

	assert.Equal(t, []string{"don", "t", "panic", "bugs", "ahead"}, tokens)
}

func TestSearchFindsWordsAfterUnicodePunctuation(t *testing.T) {
	service := newTestFTS(t)
	ctx := context.Background()

	joke := models.NewJoke([]byte(`{"id":4,"category":"Pun","type":"single","joke":"We will rock’n’roll tonight."}`))
	require.NoError(t, service.IndexJoke(ctx, joke))

	result, err := service.SearchJokes(ctx, "roll", 10)
	require.NoError(t, err)
	require.Len(t, result.ResultData, 1)
	assert.Equal(t, int64(4), result.ResultData[0].ID)
}

func TestSearchIgnoresRepeatedQueryWords(t *testing.T) {
	service := newTestFTS(t)
	ctx := context.Background()

	require.NoError(t, service.IndexJoke(ctx, models.NewJoke([]byte(`{"id":1,"category":"Pun","type":"single","joke":"The bar exam was hard."}`))))

	single, err := service.SearchJokes(ctx, "bar", 10)
	require.NoError(t, err)
	repeated, err := service.SearchJokes(ctx, "bar bar bar", 10)
	require.NoError(t, err)

	require.Len(t, repeated.ResultData, 1)
	assert.Equal(t, 1, repeated.ResultData[0].UniqueMatches)
	assert.Equal(t, single.ResultData[0].UniqueMatches, repeated.ResultData[0].UniqueMatches)
	assert.Equal(t, single.ResultData[0].TotalMatches, repeated.ResultData[0].TotalMatches)
}
