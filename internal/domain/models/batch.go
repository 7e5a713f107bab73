package models

import "encoding/json"

// BatchResponse is the top-level shape of one API reply. Successful replies
// carry error=false and a jokes array; a missing array means an empty batch.
// When asked for a single joke the API inlines the joke object at the top
// level instead of wrapping it, so the raw body is kept for that case.
type BatchResponse struct {
	Error  bool              `json:"error"`
	Amount int               `json:"amount"`
	Jokes  []json.RawMessage `json:"jokes"`
}

// DecodeBatch parses one response body into the jokes it carries. Bodies
// with the error flag set yield ErrAPIError semantics at the caller; this
// function only extracts records.
func DecodeBatch(body []byte) (BatchResponse, []Joke, error) {
	var resp BatchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return BatchResponse{}, nil, err
	}

	raws := resp.Jokes
	if len(raws) == 0 && !resp.Error {
		// amount=1 responses inline the joke object itself
		single := NewJoke(json.RawMessage(body))
		if single.ID != nil {
			return resp, []Joke{single}, nil
		}
	}

	jokes := make([]Joke, 0, len(raws))
	for _, raw := range raws {
		jokes = append(jokes, NewJoke(raw))
	}
	return resp, jokes, nil
}
