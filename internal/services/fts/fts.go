package fts

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"jokefetch/internal/domain/models"
	utils "jokefetch/internal/utils"
	clean "jokefetch/internal/utils/clean"

	snowballeng "github.com/kljensen/snowball/english"
)

type FTS struct {
	log          *slog.Logger
	jokeSaver    JokeSaver
	jokeProvider JokeProvider
}

type JokeSaver interface {
	SaveJokeWithIndexing(ctx context.Context, joke models.Joke, words []string) error
}

type JokeProvider interface {
	GetWord(ctx context.Context, word string) ([]string, error)
	GetJoke(ctx context.Context, id int64) (models.Joke, error)
}

func New(
	log *slog.Logger,
	jokeSaver JokeSaver,
	jokeProvider JokeProvider,
) *FTS {
	return &FTS{
		log:          log,
		jokeSaver:    jokeSaver,
		jokeProvider: jokeProvider,
	}
}

var stopWords = map[string]struct{}{
	"a":       {},
	"an":      {},
	"and":     {},
	"are":     {},
	"as":      {},
	"at":      {},
	"be":      {},
	"but":     {},
	"by":      {},
	"for":     {},
	"if":      {},
	"in":      {},
	"into":    {},
	"is":      {},
	"it":      {},
	"no":      {},
	"not":     {},
	"of":      {},
	"on":      {},
	"or":      {},
	"such":    {},
	"that":    {},
	"the":     {},
	"their":   {},
	"then":    {},
	"there":   {},
	"these":   {},
	"they":    {},
	"this":    {},
	"to":      {},
	"was":     {},
	"were":    {},
	"will":    {},
	"with":    {},
	"i":       {},
	"me":      {},
	"my":      {},
	"mine":    {},
	"we":      {},
	"us":      {},
	"our":     {},
	"ours":    {},
	"you":     {},
	"your":    {},
	"yours":   {},
	"he":      {},
	"him":     {},
	"his":     {},
	"she":     {},
	"her":     {},
	"hers":    {},
	"himself": {},
	"herself": {},
}

func Tokenize(content string) iter.Seq[string] {
	return func(yield func(string) bool) {
		lastSplit := 0

		for i, char := range content {
			if !unicode.IsLetter(char) && !unicode.IsNumber(char) {
				if i-lastSplit != 0 && !yield(content[lastSplit:i]) {
					return
				}
				// Separators can be multibyte runes, so skip the full rune.
				lastSplit = i + utf8.RuneLen(char)
			}
		}

		if len(content)-lastSplit != 0 {
			yield(content[lastSplit:])
		}
	}
}

func ToLower(seq iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for token := range seq {
			if !yield(strings.ToLower(token)) {
				return
			}
		}
	}
}

func FilterStopWords(seq iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for token := range seq {
			if _, ok := stopWords[token]; !ok {
				if !yield(token) {
					return
				}
			}
		}
	}
}

func Stem(seq iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for token := range seq {
			if !yield(snowballeng.Stem(token, false)) {
				return
			}
		}
	}
}

func (fts *FTS) preprocessText(content string) []string {
	tokens := Tokenize(content)
	tokens = ToLower(tokens)
	tokens = FilterStopWords(tokens)
	tokens = Stem(tokens)

	var words []string
	for token := range tokens {
		words = append(words, token)
	}
	return words
}

// uniqueTokens keeps the first occurrence of each token. A repeated query
// word must count once in the unique-match ranking.
func uniqueTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	unique := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		unique = append(unique, token)
	}
	return unique
}

// IndexJoke archives the raw payload and indexes the joke body together
// with its category, so a search for "programming" also finds category
// matches.
func (fts *FTS) IndexJoke(ctx context.Context, joke models.Joke) error {
	const op = "fts.IndexJoke"

	details, err := joke.Details()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	words := fts.preprocessText(clean.Clean(details.Category + " " + details.Text()))

	if err := fts.jokeSaver.SaveJokeWithIndexing(ctx, joke, words); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (fts *FTS) SearchJokes(ctx context.Context, query string, maxResults int) (*models.SearchResult, error) {
	startTime := time.Now()
	timings := make(map[string]string)

	preprocessStart := time.Now()
	tokens := uniqueTokens(fts.preprocessText(query))
	timings["preprocess"] = utils.FormatDuration(time.Since(preprocessStart))

	var mu sync.Mutex
	var wg sync.WaitGroup

	jokeFrequency := make(map[int64]int)
	wordMatchCount := make(map[int64]int)

	searchStart := time.Now()
	for _, token := range tokens {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			postings, err := fts.jokeProvider.GetWord(ctx, token)
			if err != nil {
				return
			}

			localMap := make(map[int64]int)
			for _, posting := range postings {
				// Each posting holds comma-separated "id:count" pairs.
				pairs := strings.Split(posting, ",")

				for _, pair := range pairs {
					parts := strings.Split(pair, ":")
					if len(parts) != 2 {
						continue
					}
					id, err := strconv.ParseInt(parts[0], 10, 64)
					if err != nil {
						continue
					}
					count, _ := strconv.Atoi(parts[1])

					localMap[id] += count
					mu.Lock()
					wordMatchCount[id]++
					mu.Unlock()
				}
			}

			mu.Lock()
			for id, count := range localMap {
				jokeFrequency[id] += count
			}
			mu.Unlock()
		}(token)
	}

	wg.Wait()

	var jokeMatches []struct {
		id            int64
		uniqueMatches int
		totalMatches  int
	}

	for id := range jokeFrequency {
		jokeMatches = append(jokeMatches, struct {
			id            int64
			uniqueMatches int
			totalMatches  int
		}{id, wordMatchCount[id], jokeFrequency[id]})
	}

	// Rank by unique matches, then total matches, then id for stable output.
	sort.Slice(jokeMatches, func(i, j int) bool {
		if jokeMatches[i].uniqueMatches != jokeMatches[j].uniqueMatches {
			return jokeMatches[i].uniqueMatches > jokeMatches[j].uniqueMatches
		}
		if jokeMatches[i].totalMatches != jokeMatches[j].totalMatches {
			return jokeMatches[i].totalMatches > jokeMatches[j].totalMatches
		}
		return jokeMatches[i].id < jokeMatches[j].id
	})
	timings["search_tokens"] = utils.FormatDuration(time.Since(searchStart))

	totalResultsCount := len(jokeMatches)
	results := make([]models.ResultData, 0, maxResults)
	for i := 0; i < len(jokeMatches) && i < maxResults; i++ {
		results = append(results, models.ResultData{
			ID:            jokeMatches[i].id,
			UniqueMatches: jokeMatches[i].uniqueMatches,
			TotalMatches:  jokeMatches[i].totalMatches,
		})
	}
	timings["total"] = utils.FormatDuration(time.Since(startTime))

	for i := 0; i < len(results); i++ {
		joke, err := fts.jokeProvider.GetJoke(ctx, results[i].ID)
		if err != nil {
			return nil, err
		}
		details, err := joke.Details()
		if err != nil {
			return nil, err
		}
		results[i].Joke = details
	}

	return &models.SearchResult{
		ResultData:        results,
		Timings:           timings,
		TotalResultsCount: totalResultsCount,
	}, nil
}
