package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/meeting-minutes/internal/apperr"
)

const geminiTarget = "gemini"

func (s *implGeminiSummarizer) Summarize(ctx context.Context, transcript string) (*Summary, error) {
	text, err := s.callGemini(ctx, fmt.Sprintf(summaryPrompt, transcript), "application/json")
	if err != nil {
		return nil, err
	}
	return parseSummary(text)
}

func (s *implGeminiSummarizer) Compose(ctx context.Context, req ComposeRequest) (*Composed, error) {
	prompt, err := buildComposePrompt(req)
	if err != nil {
		return nil, err
	}
	text, err := s.callGemini(ctx, prompt, "")
	if err != nil {
		return nil, err
	}
	return &Composed{Status: "success", Report: stripFences(text)}, nil
}

// callGemini sends prompt to Gemini and returns the response text.
// Rotates API keys on 429 / quota errors.
func (s *implGeminiSummarizer) callGemini(ctx context.Context, prompt, mimeType string) (string, error) {
	if len(s.apiKeys) == 0 {
		return "", fmt.Errorf("no Gemini API keys configured")
	}

	var genCfg *genai.GenerateContentConfig
	if mimeType != "" {
		genCfg = &genai.GenerateContentConfig{ResponseMIMEType: mimeType}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	attempts := len(s.apiKeys)
	var lastErr error

	for range attempts {
		keyIndex, key := s.key()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:      key,
			Backend:     genai.BackendGeminiAPI,
			HTTPOptions: genai.HTTPOptions{BaseURL: s.baseURL},
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			s.rotateKey(keyIndex)
			continue
		}

		result, err := client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), genCfg)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return "", &apperr.TimeoutError{Target: geminiTarget, Err: err}
			}
			if isQuotaError(err) {
				s.logger.Warn(ctx, "Key %d rate limited, rotating...", keyIndex+1)
				s.rotateKey(keyIndex)
				lastErr = err
				continue
			}
			return "", &apperr.TransportError{Target: geminiTarget, Err: fmt.Errorf("generate content: %w", err)}
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text.WriteString(part.Text)
				}
			}
			return text.String(), nil
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", &apperr.UpstreamStatusError{
		Target:     geminiTarget,
		StatusCode: 429,
		Body:       fmt.Sprintf("all API keys exhausted: %v", lastErr),
	}
}

func (s *implGeminiSummarizer) key() (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentKey, s.apiKeys[s.currentKey]
}

// rotateKey advances past the key at index unless another call already did.
func (s *implGeminiSummarizer) rotateKey(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentKey == index {
		s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	}
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
