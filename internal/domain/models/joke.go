package models

import (
	"encoding/json"
	"strings"
)

// Joke is a single record fetched from the API. The payload is kept verbatim
// so that saved output is byte-faithful to what the API returned; the
// identifier is the only field the pipeline inspects. A nil ID means the
// payload carried no usable "id" field.
type Joke struct {
	ID  *int64
	Raw json.RawMessage
}

// NewJoke wraps a raw payload and peeks its identifier. Identifier 0 is
// valid; only an absent, null or non-numeric id leaves ID nil.
func NewJoke(raw json.RawMessage) Joke {
	var probe struct {
		ID *int64 `json:"id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Joke{Raw: raw}
	}
	return Joke{ID: probe.ID, Raw: raw}
}

// Details decodes the known JokeAPI fields out of the raw payload. Only the
// archive, index and sinks need this view; the file output never goes
// through it.
func (j Joke) Details() (JokeDetails, error) {
	var d JokeDetails
	if err := json.Unmarshal(j.Raw, &d); err != nil {
		return JokeDetails{}, err
	}
	return d, nil
}

type JokeDetails struct {
	ID       int64           `json:"id"`
	Category string          `json:"category"`
	Type     string          `json:"type"`
	Joke     string          `json:"joke,omitempty"`
	Setup    string          `json:"setup,omitempty"`
	Delivery string          `json:"delivery,omitempty"`
	Flags    map[string]bool `json:"flags,omitempty"`
	Safe     bool            `json:"safe"`
	Lang     string          `json:"lang,omitempty"`
}

// Text returns the joke as one printable string: the body for single-part
// jokes, setup and delivery joined for two-part ones.
func (d JokeDetails) Text() string {
	if d.Joke != "" {
		return d.Joke
	}
	parts := make([]string, 0, 2)
	if strings.TrimSpace(d.Setup) != "" {
		parts = append(parts, strings.TrimSpace(d.Setup))
	}
	if strings.TrimSpace(d.Delivery) != "" {
		parts = append(parts, strings.TrimSpace(d.Delivery))
	}
	return strings.Join(parts, " ")
}
