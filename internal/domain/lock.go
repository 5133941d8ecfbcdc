package domain

import (
	"context"
	"sync/atomic"
)

// MemoryLock is a process-local RunLock.
type MemoryLock struct {
	held atomic.Bool
}

// NewMemoryLock creates an unlocked MemoryLock.
func NewMemoryLock() *MemoryLock {
	return &MemoryLock{}
}

// TryAcquire takes the lock if it is free.
func (l *MemoryLock) TryAcquire(_ context.Context) (bool, error) {
	return l.held.CompareAndSwap(false, true), nil
}

// Release frees the lock.
func (l *MemoryLock) Release(_ context.Context) error {
	l.held.Store(false)
	return nil
}
