// Package concurrency provides the small bounded-concurrency building
// block shared by the scheduler (C6, outer bound) and the publisher
// pipeline (C5, inner bound) — see spec.md §4.6.
package concurrency

import "context"

// Semaphore is a context-aware counting semaphore.
type Semaphore struct {
	slots chan struct{}
}

// NewSemaphore creates a Semaphore with the given capacity.
func NewSemaphore(capacity int) *Semaphore {
	if capacity < 1 {
		capacity = 1
	}
	return &Semaphore{slots: make(chan struct{}, capacity)}
}

// Acquire blocks until a slot is free or ctx is done.
func (s *Semaphore) Acquire(ctx context.Context) error {
	select {
	case s.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot.
func (s *Semaphore) Release() {
	<-s.slots
}
