package executor

import "context"

// Executor runs external commands (ffmpeg, whisper.cpp) and returns stdout.
// A failed command yields a *CommandError.
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
}
