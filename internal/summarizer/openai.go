package summarizer

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nguyentantai21042004/meeting-minutes/internal/apperr"
)

const openaiTarget = "openai chat completions"

func (s *implOpenAISummarizer) Summarize(ctx context.Context, transcript string) (*Summary, error) {
	text, err := s.complete(ctx, fmt.Sprintf(summaryPrompt, transcript), true)
	if err != nil {
		return nil, err
	}
	return parseSummary(text)
}

func (s *implOpenAISummarizer) Compose(ctx context.Context, req ComposeRequest) (*Composed, error) {
	prompt, err := buildComposePrompt(req)
	if err != nil {
		return nil, err
	}
	text, err := s.complete(ctx, prompt, false)
	if err != nil {
		return nil, err
	}
	return &Composed{Status: "success", Report: stripFences(text)}, nil
}

func (s *implOpenAISummarizer) complete(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	s.logger.Info(ctx, "Requesting chat completion from %s (%d prompt bytes)", s.model, len(prompt))

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from %s", s.model)
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &apperr.UpstreamStatusError{Target: openaiTarget, StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &apperr.UpstreamStatusError{Target: openaiTarget, StatusCode: reqErr.HTTPStatusCode, Body: reqErr.Error()}
	}
	return classifyTransportError(openaiTarget, err)
}
