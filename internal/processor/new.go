package processor

import (
	"github.com/nguyentantai21042004/meeting-minutes/internal/config"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
	"github.com/nguyentantai21042004/meeting-minutes/pkg/executor"
)

type implWhisperEngine struct {
	whisper  config.WhisperConfig
	ffmpeg   config.FFmpegConfig
	tempDir  string
	executor executor.Executor
	logger   logger.Logger
}

// NewWhisperEngine creates an Engine backed by the whisper.cpp CLI, with
// ffmpeg normalising every input to mono WAV first.
func NewWhisperEngine(cfg *config.Config, exec executor.Executor, log logger.Logger) Engine {
	return &implWhisperEngine{
		whisper:  cfg.Whisper,
		ffmpeg:   cfg.FFmpeg,
		tempDir:  cfg.Paths.Temp,
		executor: exec,
		logger:   log,
	}
}

type implTranscriber struct {
	engine  Engine
	tempDir string
	logger  logger.Logger
}

// NewTranscriber creates a Transcriber that stages each source under tempDir.
func NewTranscriber(engine Engine, tempDir string, log logger.Logger) Transcriber {
	return &implTranscriber{
		engine:  engine,
		tempDir: tempDir,
		logger:  log,
	}
}

type implMerger struct {
	transcriber Transcriber
	sem         *semaphore
	logger      logger.Logger
}

// NewMerger creates a Merger. maxConcurrent bounds transcriptions across every
// batch sharing this Merger.
func NewMerger(t Transcriber, maxConcurrent int, log logger.Logger) Merger {
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	return &implMerger{
		transcriber: t,
		sem:         newSemaphore(maxConcurrent),
		logger:      log,
	}
}
