package summarizer

import (
	"encoding/json"
	"strings"
)

// Summary is the /process_llm response. ActionsTable and Top3 are passed
// through to the compose call untouched.
type Summary struct {
	Final        string          `json:"final"`
	ActionsTable json.RawMessage `json:"actions_table"`
	Top3         json.RawMessage `json:"top3"`
}

// Topic is the query used for retrieval.
func (s *Summary) Topic() string {
	return strings.TrimSpace(s.Final)
}

// ComposeRequest is the /process_llm2 payload.
type ComposeRequest struct {
	Text         string          `json:"text"`
	Summary      string          `json:"summary"`
	ActionsTable json.RawMessage `json:"actions_table"`
	PdfLink      []string        `json:"pdf_link"`
	PdfTitle     []string        `json:"pdf_title"`
	Wiki         []string        `json:"wiki"`
	Top3         json.RawMessage `json:"top3"`
	NewsLink     []string        `json:"news_link"`
	NewsTitle    []string        `json:"news_title"`
}

// normalized returns a copy that encodes empty lists as [] and missing raw
// values as null, which the compose endpoint expects.
func (r ComposeRequest) normalized() ComposeRequest {
	orEmpty := func(s []string) []string {
		if s == nil {
			return []string{}
		}
		return s
	}
	orNull := func(m json.RawMessage) json.RawMessage {
		if len(m) == 0 {
			return json.RawMessage("null")
		}
		return m
	}

	r.PdfLink = orEmpty(r.PdfLink)
	r.PdfTitle = orEmpty(r.PdfTitle)
	r.Wiki = orEmpty(r.Wiki)
	r.NewsLink = orEmpty(r.NewsLink)
	r.NewsTitle = orEmpty(r.NewsTitle)
	r.ActionsTable = orNull(r.ActionsTable)
	r.Top3 = orNull(r.Top3)
	return r
}

// Composed is the /process_llm2 response.
type Composed struct {
	Status string `json:"status"`
	Report string `json:"report"`
}
