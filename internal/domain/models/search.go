package models

// SearchResult is what a query against the joke index returns: the ranked
// matches, per-phase timings for the TUI sidebar and the total hit count
// before truncation.
type SearchResult struct {
	ResultData        []ResultData
	Timings           map[string]string
	TotalResultsCount int
}

// ResultData ranks one matched joke. UniqueMatches counts distinct query
// words found in the joke, TotalMatches their summed occurrences.
type ResultData struct {
	ID            int64
	UniqueMatches int
	TotalMatches  int
	Joke          JokeDetails
}
