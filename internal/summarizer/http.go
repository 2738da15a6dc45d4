package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/internal/apperr"
)

const (
	summarizePath = "/process_llm"
	composePath   = "/process_llm2"

	// skipWarningHeader makes tunnelling proxies return the API response
	// instead of their browser interstitial.
	skipWarningHeader = "ngrok-skip-browser-warning"

	maxErrorBody = 4 << 10
)

func (s *implHTTPSummarizer) Summarize(ctx context.Context, transcript string) (*Summary, error) {
	var out Summary
	if err := s.post(ctx, summarizePath, map[string]string{"text": transcript}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *implHTTPSummarizer) Compose(ctx context.Context, req ComposeRequest) (*Composed, error) {
	var out Composed
	if err := s.post(ctx, composePath, req.normalized(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// post sends payload as JSON and decodes a 2xx response into out. Failures
// come back as *apperr.TimeoutError, *apperr.TransportError or
// *apperr.UpstreamStatusError.
func (s *implHTTPSummarizer) post(ctx context.Context, path string, payload, out any) error {
	target := s.baseURL + path

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.skipHeader {
		req.Header.Set(skipWarningHeader, "true")
	}

	start := time.Now()
	s.logger.Info(ctx, "POST %s (%d bytes)", target, len(body))

	resp, err := s.client.Do(req)
	if err != nil {
		return classifyTransportError(target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &apperr.UpstreamStatusError{
			Target:     target,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(detail)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if isTimeout(err) {
			return &apperr.TimeoutError{Target: target, Err: err}
		}
		return fmt.Errorf("decode %s response: %w", path, err)
	}

	s.logger.Info(ctx, "POST %s finished in %s", target, time.Since(start).Round(time.Millisecond))
	return nil
}

func classifyTransportError(target string, err error) error {
	if isTimeout(err) {
		return &apperr.TimeoutError{Target: target, Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &apperr.TransportError{Target: target, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
