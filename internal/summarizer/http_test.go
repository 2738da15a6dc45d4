package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/internal/apperr"
	"github.com/nguyentantai21042004/meeting-minutes/internal/config"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
)

func newTestHTTP(baseURL string, timeout time.Duration) Summarizer {
	return NewHTTP(config.SummarizerConfig{
		BaseURL:            baseURL,
		Timeout:            timeout,
		InsecureSkipVerify: true,
		SkipWarningHeader:  true,
	}, logger.New("error", "text"))
}

func TestSummarize(t *testing.T) {
	var gotHeader, gotText string
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/process_llm" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		gotHeader = r.Header.Get("ngrok-skip-browser-warning")
		var body struct {
			Text string `json:"text"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		gotText = body.Text

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"final":"Standup recap","actions_table":[{"owner":"Bob"}],"top3":["a","b","c"]}`)
	}))
	defer srv.Close()

	s := newTestHTTP(srv.URL+"/", time.Second)
	sum, err := s.Summarize(context.Background(), "1\n00:00:00,000 --> 00:00:01,000\n[Bob]: hi")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if sum.Final != "Standup recap" || sum.Topic() != "Standup recap" {
		t.Errorf("Final = %q", sum.Final)
	}
	if string(sum.Top3) != `["a","b","c"]` {
		t.Errorf("Top3 = %s", sum.Top3)
	}
	if gotHeader != "true" {
		t.Errorf("skip-warning header = %q", gotHeader)
	}
	if !strings.Contains(gotText, "[Bob]: hi") {
		t.Errorf("server received text %q", gotText)
	}
}

func TestComposeSendsEmptyListsAsArrays(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/process_llm2" {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(&raw)
		io.WriteString(w, `{"status":"success","report":"<html>ok</html>"}`)
	}))
	defer srv.Close()

	s := newTestHTTP(srv.URL, time.Second)
	out, err := s.Compose(context.Background(), ComposeRequest{
		Text:     "transcript",
		Summary:  "summary",
		PdfLink:  []string{"https://arxiv.org/abs/1"},
		PdfTitle: []string{"Paper"},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if out.Status != "success" || out.Report != "<html>ok</html>" {
		t.Errorf("Compose() = %+v", out)
	}

	for _, key := range []string{"news_link", "news_title", "wiki"} {
		if string(raw[key]) != "[]" {
			t.Errorf("%s = %s, want []", key, raw[key])
		}
	}
	if string(raw["pdf_title"]) != `["Paper"]` {
		t.Errorf("pdf_title = %s", raw["pdf_title"])
	}
	if string(raw["top3"]) != "null" {
		t.Errorf("top3 = %s, want null", raw["top3"])
	}
}

func TestSummarizeUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestHTTP(srv.URL, time.Second).Summarize(context.Background(), "x")

	var up *apperr.UpstreamStatusError
	if !errors.As(err, &up) {
		t.Fatalf("error = %v, want UpstreamStatusError", err)
	}
	if up.StatusCode != http.StatusBadGateway || up.Body != "model overloaded" {
		t.Errorf("UpstreamStatusError = %+v", up)
	}
	if !strings.HasSuffix(up.Target, "/process_llm") {
		t.Errorf("Target = %q", up.Target)
	}
}

func TestSummarizeTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := newTestHTTP(srv.URL, 50*time.Millisecond).Summarize(context.Background(), "x")
	if apperr.KindOf(err) != apperr.KindTimeout {
		t.Errorf("KindOf(%v) = %q, want timeout", err, apperr.KindOf(err))
	}
}

func TestSummarizeTransport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestHTTP(url, time.Second).Summarize(context.Background(), "x")

	var te *apperr.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want TransportError", err)
	}
	if te.Target != url+"/process_llm" {
		t.Errorf("Target = %q", te.Target)
	}
}

func TestNewPicksBackend(t *testing.T) {
	log := logger.New("error", "text")
	tests := []struct {
		backend string
		wantErr bool
	}{
		{config.BackendHTTP, false},
		{config.BackendGemini, false},
		{config.BackendOpenAI, false},
		{"carrier-pigeon", true},
	}
	for _, tt := range tests {
		_, err := New(config.SummarizerConfig{Backend: tt.backend, BaseURL: "http://x"}, log)
		if (err != nil) != tt.wantErr {
			t.Errorf("New(%q) error = %v, wantErr %v", tt.backend, err, tt.wantErr)
		}
	}
}
