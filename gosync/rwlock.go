package gosync

import "sync"

// RWLock is a reader/writer lock, grounded on RWLock.c. Unlike
// pthread_rwlock_unlock, which resolves ambiguously to either a read or
// write release depending on how the lock was acquired, Go's RWMutex
// needs the caller to say which kind of lock it is releasing; RWLock
// keeps that split rather than papering over it with runtime state.
type RWLock struct {
	mu sync.RWMutex
}

// NewRWLock returns a ready-to-use RWLock.
func NewRWLock() *RWLock {
	return &RWLock{}
}

// ReadLock acquires the lock for reading, blocking until available.
func (l *RWLock) ReadLock() {
	l.mu.RLock()
}

// TryReadLock attempts to acquire the lock for reading without
// blocking, reporting whether it succeeded.
func (l *RWLock) TryReadLock() bool {
	return l.mu.TryRLock()
}

// ReadUnlock releases a read lock previously acquired with ReadLock or
// TryReadLock.
func (l *RWLock) ReadUnlock() {
	l.mu.RUnlock()
}

// WriteLock acquires the lock for writing, blocking until available.
func (l *RWLock) WriteLock() {
	l.mu.Lock()
}

// TryWriteLock attempts to acquire the lock for writing without
// blocking, reporting whether it succeeded.
func (l *RWLock) TryWriteLock() bool {
	return l.mu.TryLock()
}

// WriteUnlock releases a write lock previously acquired with WriteLock
// or TryWriteLock.
func (l *RWLock) WriteUnlock() {
	l.mu.Unlock()
}
