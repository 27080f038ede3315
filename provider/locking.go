package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	apperrors "github.com/kbukum/locator/errors"
)

// Locking selects how a SafeProvider serializes access.
type Locking int

const (
	// LockMutex guards calls with a sync.Mutex. It is not reentrant.
	LockMutex Locking = iota
	// LockSemaphore guards calls with a weighted semaphore of size one.
	LockSemaphore
	// LockQueue runs calls one at a time on a dedicated worker goroutine.
	LockQueue
)

func (l Locking) String() string {
	switch l {
	case LockMutex:
		return "mutex"
	case LockSemaphore:
		return "semaphore"
	case LockQueue:
		return "queue"
	default:
		return fmt.Sprintf("Locking(%d)", int(l))
	}
}

// ParseLocking maps a config value to a Locking.
func ParseLocking(s string) (Locking, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mutex":
		return LockMutex, nil
	case "semaphore":
		return LockSemaphore, nil
	case "queue":
		return LockQueue, nil
	default:
		return LockMutex, apperrors.Validation(fmt.Sprintf("unknown locking strategy %q", s))
	}
}

// locker runs fn exclusively.
type locker interface {
	do(fn func())
}

// lockable storages run their own callbacks under the provider's locker.
type lockable interface {
	setLocker(l locker)
}

type noLock struct{}

func (noLock) do(fn func()) { fn() }

type mutexLocker struct {
	mu sync.Mutex
}

func (l *mutexLocker) do(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn()
}

type semaphoreLocker struct {
	sem *semaphore.Weighted
}

func newSemaphoreLocker() *semaphoreLocker {
	return &semaphoreLocker{sem: semaphore.NewWeighted(1)}
}

func (l *semaphoreLocker) do(fn func()) {
	// Acquire only fails when the context is done.
	_ = l.sem.Acquire(context.Background(), 1)
	defer l.sem.Release(1)
	fn()
}

type job struct {
	fn   func()
	done chan any
}

// queueLocker hands calls to one worker goroutine. After stop, calls run
// on the caller's goroutine.
type queueLocker struct {
	jobs chan job
	quit chan struct{}
	once sync.Once
}

func newQueueLocker() *queueLocker {
	q := &queueLocker{jobs: make(chan job), quit: make(chan struct{})}
	go q.run()
	return q
}

func (q *queueLocker) run() {
	for {
		select {
		case j := <-q.jobs:
			j.done <- runRecovered(j.fn)
		case <-q.quit:
			return
		}
	}
}

func (q *queueLocker) do(fn func()) {
	j := job{fn: fn, done: make(chan any, 1)}
	select {
	case q.jobs <- j:
	case <-q.quit:
		fn()
		return
	}
	if p := <-j.done; p != nil {
		panic(p)
	}
}

func (q *queueLocker) stop() {
	q.once.Do(func() { close(q.quit) })
}

func runRecovered(fn func()) (p any) {
	defer func() { p = recover() }()
	fn()
	return nil
}

func newLocker(l Locking) locker {
	switch l {
	case LockSemaphore:
		return newSemaphoreLocker()
	case LockQueue:
		return newQueueLocker()
	default:
		return &mutexLocker{}
	}
}
