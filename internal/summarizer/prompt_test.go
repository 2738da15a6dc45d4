package summarizer

import "testing"

func TestStripFences(t *testing.T) {
	tests := map[string]string{
		"plain":                       "plain",
		"```json\n{\"a\":1}\n```":     `{"a":1}`,
		"  ```\n<html></html>\n```  ": "<html></html>",
	}
	for in, want := range tests {
		if got := stripFences(in); got != want {
			t.Errorf("stripFences(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseSummary(t *testing.T) {
	sum, err := parseSummary("```json\n{\"final\":\"recap\",\"top3\":[\"x\"]}\n```")
	if err != nil {
		t.Fatalf("parseSummary() error = %v", err)
	}
	if sum.Final != "recap" {
		t.Errorf("Final = %q", sum.Final)
	}

	if _, err := parseSummary(`{"final":"  "}`); err == nil {
		t.Error("parseSummary() should reject an empty final")
	}
	if _, err := parseSummary("not json"); err == nil {
		t.Error("parseSummary() should reject malformed JSON")
	}
}
