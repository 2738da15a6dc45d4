package processor

import "context"

// semaphore bounds how many engine runs execute at once, across every batch
// sharing the Merger.
type semaphore struct {
	slots chan struct{}
}

func newSemaphore(capacity int) *semaphore {
	return &semaphore{
		slots: make(chan struct{}, capacity),
	}
}

// acquire blocks until a slot frees up or ctx ends.
func (s *semaphore) acquire(ctx context.Context) error {
	select {
	case s.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *semaphore) release() {
	<-s.slots
}

// available reports free slots; used for diagnostics only.
func (s *semaphore) available() int {
	return cap(s.slots) - len(s.slots)
}
