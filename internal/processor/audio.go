package processor

import (
	"context"
	"fmt"
	"strconv"
)

// extractAudio converts any supported container to 16kHz mono PCM WAV,
// the input format whisper.cpp expects.
func (e *implWhisperEngine) extractAudio(ctx context.Context, inputPath, audioPath string) error {
	e.logger.Debug(ctx, "Extracting audio: %s -> %s", inputPath, audioPath)

	// -vn: drop video, -ar/-ac: resample to mono, -threads 0: all cores
	args := []string{
		"-i", inputPath,
		"-vn",
		"-ar", strconv.Itoa(e.ffmpeg.SampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		audioPath,
	}

	if _, err := e.executor.Execute(ctx, e.ffmpeg.BinaryPath, args...); err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	return nil
}
