package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJokePeeksID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *int64
	}{
		{name: "present", raw: `{"id":42,"type":"single","joke":"j"}`, want: ptr(42)},
		{name: "zero is a valid id", raw: `{"id":0,"type":"single","joke":"j"}`, want: ptr(0)},
		{name: "absent", raw: `{"type":"single","joke":"j"}`, want: nil},
		{name: "null", raw: `{"id":null,"type":"single","joke":"j"}`, want: nil},
		{name: "non-numeric", raw: `{"id":"broken","type":"single","joke":"j"}`, want: nil},
		{name: "fractional", raw: `{"id":4.5,"type":"single","joke":"j"}`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			joke := NewJoke([]byte(tt.raw))

			if tt.want == nil {
				assert.Nil(t, joke.ID)
			} else {
				require.NotNil(t, joke.ID)
				assert.Equal(t, *tt.want, *joke.ID)
			}
			assert.Equal(t, tt.raw, string(joke.Raw))
		})
	}
}

func ptr(id int64) *int64 {
	return &id
}

func TestDetails(t *testing.T) {
	joke := NewJoke([]byte(`{"id":7,"category":"Programming","type":"twopart","setup":"s?","delivery":"d.","flags":{"nsfw":false},"safe":true,"lang":"en"}`))

	details, err := joke.Details()
	require.NoError(t, err)
	assert.Equal(t, int64(7), details.ID)
	assert.Equal(t, "Programming", details.Category)
	assert.Equal(t, "twopart", details.Type)
	assert.Equal(t, "s?", details.Setup)
	assert.Equal(t, "d.", details.Delivery)
	assert.Equal(t, map[string]bool{"nsfw": false}, details.Flags)
	assert.True(t, details.Safe)
	assert.Equal(t, "en", details.Lang)
}

func TestDetailsRejectsWrongShapes(t *testing.T) {
	joke := NewJoke([]byte(`{"id":1,"flags":"not a map"}`))

	_, err := joke.Details()
	require.Error(t, err)
}

func TestText(t *testing.T) {
	single := JokeDetails{Joke: "one liner"}
	assert.Equal(t, "one liner", single.Text())

	twopart := JokeDetails{Setup: " setup ", Delivery: " delivery "}
	assert.Equal(t, "setup delivery", twopart.Text())

	setupOnly := JokeDetails{Setup: "setup"}
	assert.Equal(t, "setup", setupOnly.Text())
}

func TestDecodeBatch(t *testing.T) {
	t.Run("batch of jokes", func(t *testing.T) {
		body := `{"error":false,"amount":2,"jokes":[{"id":1,"type":"single","joke":"a"},{"id":2,"type":"single","joke":"b"}]}`

		batch, jokes, err := DecodeBatch([]byte(body))
		require.NoError(t, err)
		assert.False(t, batch.Error)
		assert.Equal(t, 2, batch.Amount)
		require.Len(t, jokes, 2)
		assert.Equal(t, int64(1), *jokes[0].ID)
		assert.Equal(t, int64(2), *jokes[1].ID)
	})

	t.Run("error flag set", func(t *testing.T) {
		body := `{"error":true,"internalError":false,"code":106,"message":"No matching joke found"}`

		batch, jokes, err := DecodeBatch([]byte(body))
		require.NoError(t, err)
		assert.True(t, batch.Error)
		assert.Empty(t, jokes)
	})

	t.Run("inline single joke", func(t *testing.T) {
		body := `{"error":false,"category":"Pun","id":9,"type":"single","joke":"one"}`

		batch, jokes, err := DecodeBatch([]byte(body))
		require.NoError(t, err)
		assert.False(t, batch.Error)
		require.Len(t, jokes, 1)
		assert.Equal(t, int64(9), *jokes[0].ID)
	})

	t.Run("no jokes and no id", func(t *testing.T) {
		body := `{"error":false}`

		_, jokes, err := DecodeBatch([]byte(body))
		require.NoError(t, err)
		assert.Empty(t, jokes)
	})

	t.Run("malformed body", func(t *testing.T) {
		_, _, err := DecodeBatch([]byte("not json"))
		require.Error(t, err)
	})

	t.Run("joke without id stays in the batch", func(t *testing.T) {
		body := `{"error":false,"amount":1,"jokes":[{"type":"single","joke":"anonymous"}]}`

		_, jokes, err := DecodeBatch([]byte(body))
		require.NoError(t, err)
		require.Len(t, jokes, 1)
		assert.Nil(t, jokes[0].ID)
	})
}
