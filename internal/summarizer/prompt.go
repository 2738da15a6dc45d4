package summarizer

import (
	"encoding/json"
	"fmt"
	"strings"
)

const summaryPrompt = `You are an assistant that writes meeting minutes. Read the transcript below.
Each block is numbered, carries a time range and starts with the speaker in brackets.

Reply with a single JSON object and nothing else:
{
  "final": "<one paragraph summary of the meeting, written in the transcript's language>",
  "actions_table": [{"owner": "", "topic": "", "issue": "", "action": "", "due": ""}],
  "top3": ["<keyword>", "<keyword>", "<keyword>"]
}

Use "-" for unknown table cells. top3 holds the three most important keywords.

Transcript:
---
%s
---`

const composePrompt = `You are an assistant that formats meeting reports as a self-contained HTML document.
Use the JSON bundle below. It contains the transcript, its summary, an action item table,
three keywords, related papers (pdf_link/pdf_title), related news (news_link/news_title)
and encyclopedic snippets (wiki). Empty lists mean nothing relevant was found; omit those sections.

Reply with the HTML document only.

Bundle:
---
%s
---`

// stripFences removes a markdown code fence a model may wrap its answer in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:] // language tag
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func parseSummary(raw string) (*Summary, error) {
	var out Summary
	if err := json.Unmarshal([]byte(stripFences(raw)), &out); err != nil {
		return nil, fmt.Errorf("parse summary JSON: %w", err)
	}
	if strings.TrimSpace(out.Final) == "" {
		return nil, fmt.Errorf("summary has no final text")
	}
	return &out, nil
}

func buildComposePrompt(req ComposeRequest) (string, error) {
	bundle, err := json.MarshalIndent(req.normalized(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode compose bundle: %w", err)
	}
	return fmt.Sprintf(composePrompt, bundle), nil
}
