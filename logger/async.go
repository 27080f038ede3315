package logger

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/diode"
)

// DefaultAsyncBuffer is the diode size used when none is configured.
const DefaultAsyncBuffer = 256

const asyncPollInterval = 10 * time.Millisecond

// Async is a Logger whose lines pass through a zerolog diode. Logging never
// blocks the caller; when the reader falls behind, the oldest lines are
// overwritten and counted in Dropped.
type Async struct {
	*Logger
	w *asyncWriter
}

type asyncWriter struct {
	diode   diode.Writer
	closed  atomic.Bool
	dropped atomic.Int64
	once    sync.Once
}

func (w *asyncWriter) Write(p []byte) (int, error) {
	if w.closed.Load() {
		w.dropped.Add(1)
		return len(p), nil
	}
	return w.diode.Write(p)
}

// keepOpen hides the destination's Close from the diode, which would
// otherwise close stdout on shutdown.
type keepOpen struct{ io.Writer }

// NewAsync returns a copy of inner, with the same level and fields, that
// writes through a diode of the given size.
func NewAsync(inner *Logger, buffer int) *Async {
	if buffer <= 0 {
		buffer = DefaultAsyncBuffer
	}
	w := &asyncWriter{}
	w.diode = diode.NewWriter(keepOpen{inner.output()}, buffer, asyncPollInterval, func(missed int) {
		w.dropped.Add(int64(missed))
	})
	return &Async{Logger: inner.withOutput(w), w: w}
}

// Dropped returns how many lines were overwritten before being written or
// arrived after Close.
func (a *Async) Dropped() int64 {
	return a.w.dropped.Load()
}

// Close writes out every pending line and stops the reader goroutine.
// Lines logged afterwards are discarded and counted.
func (a *Async) Close() {
	a.w.once.Do(func() {
		a.w.closed.Store(true)
		_ = a.w.diode.Close()
	})
}
