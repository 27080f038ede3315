package provider

import (
	"reflect"
	"time"

	"github.com/kbukum/locator/logger"
)

// Logger receives make failures. Providers call it on the caller's
// goroutine, so pass a non-blocking implementation such as *logger.Async.
type Logger interface {
	Error(msg string, fields ...map[string]interface{})
}

// MakeObserver is told about every make attempt, successful or not.
type MakeObserver interface {
	ObserveMake(service, mode string, d time.Duration, err error)
}

// Option configures a provider.
type Option func(*options)

type options struct {
	log      Logger
	observer MakeObserver
	name     string
}

// WithLogger sets the failure logger.
func WithLogger(l Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMakeObserver sets the make observer (metrics, tracing).
func WithMakeObserver(m MakeObserver) Option {
	return func(o *options) { o.observer = m }
}

// WithName overrides the service label used in logs and metrics.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// reporter wraps makes with failure logging and make observation.
type reporter struct {
	service  reflect.Type
	label    string
	mode     Mode
	log      Logger
	observer MakeObserver
}

func newReporter[T any](mode Mode, opts []Option) *reporter {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	t := TypeOf[T]()
	label := o.name
	if label == "" {
		label = typeName(t)
	}
	return &reporter{service: t, label: label, mode: mode, log: o.log, observer: o.observer}
}

func (r *reporter) failed(oe *ObtainError) {
	if r.log == nil {
		return
	}
	r.log.Error("service obtain failed", map[string]interface{}{
		logger.FieldService: r.label,
		logger.FieldPath:    oe.PathString(),
		logger.FieldMode:    r.mode.String(),
		logger.FieldError:   oe.Err.Error(),
	})
}

func (r *reporter) observe(start time.Time, oe *ObtainError) {
	if r.observer == nil {
		return
	}
	var err error
	if oe != nil {
		err = oe
	}
	r.observer.ObserveMake(r.label, r.mode.String(), time.Since(start), err)
}

// makeWith runs fn, wrapping and reporting any failure.
func makeWith[T any](r *reporter, fn func() (T, error)) (T, *ObtainError) {
	start := time.Now()
	svc, err := fn()
	if err != nil {
		oe := wrapFor(r.service, err)
		r.observe(start, oe)
		r.failed(oe)
		var zero T
		return zero, oe
	}
	r.observe(start, nil)
	return svc, nil
}

// frameworkError wraps a framework error raised for the reporter's service.
func (r *reporter) frameworkError(err error) *ObtainError {
	oe := wrapFor(r.service, err)
	r.failed(oe)
	return oe
}
