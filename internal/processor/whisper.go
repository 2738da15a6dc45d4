package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// whisperOutput is the document written by whisper.cpp with -oj.
type whisperOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// Transcribe runs whisper.cpp on path. Intermediate files live in a private
// work directory removed before returning.
func (e *implWhisperEngine) Transcribe(ctx context.Context, path string, wantTimestamps bool) (*EngineResult, error) {
	workDir, err := os.MkdirTemp(e.tempDir, "whisper-*")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	audioPath := filepath.Join(workDir, "audio.wav")
	if err := e.extractAudio(ctx, path, audioPath); err != nil {
		return nil, err
	}

	outputPrefix := filepath.Join(workDir, "transcript")

	// -oj: JSON output with millisecond offsets per segment
	// -l: force language (prevents hallucination)
	args := []string{
		"-m", e.whisper.ModelPath,
		"-f", audioPath,
		"-oj",
		"-l", e.whisper.Language,
		"-t", strconv.Itoa(e.whisper.Threads),
		"--output-file", outputPrefix,
	}
	if e.whisper.Prompt != "" {
		args = append(args, "--prompt", e.whisper.Prompt)
	}
	if !e.whisper.UseGPU {
		args = append(args, "-ng")
	}

	e.logger.Info(ctx, "Starting transcription with %d threads: %s", e.whisper.Threads, filepath.Base(path))

	if _, err := e.executor.Execute(ctx, e.whisper.BinaryPath, args...); err != nil {
		return nil, fmt.Errorf("whisper transcribe: %w", err)
	}

	raw, err := os.ReadFile(outputPrefix + ".json")
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}

	return parseWhisperOutput(raw, wantTimestamps)
}

func parseWhisperOutput(raw []byte, wantTimestamps bool) (*EngineResult, error) {
	var out whisperOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse whisper output: %w", err)
	}

	result := &EngineResult{}
	texts := make([]string, 0, len(out.Transcription))
	for _, t := range out.Transcription {
		texts = append(texts, strings.TrimSpace(t.Text))
		if wantTimestamps {
			result.Segments = append(result.Segments, EngineSegment{
				Text:  t.Text,
				Start: float64(t.Offsets.From) / 1000,
				End:   float64(t.Offsets.To) / 1000,
			})
		}
	}
	result.Text = strings.TrimSpace(strings.Join(texts, " "))

	return result, nil
}
