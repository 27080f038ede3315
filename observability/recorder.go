package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/kbukum/locator/errors"
)

// MakeRecorder turns provider make attempts into metrics and spans. It
// implements provider.MakeObserver.
type MakeRecorder struct {
	tracer   trace.Tracer
	total    metric.Int64Counter
	duration metric.Float64Histogram
	errors   metric.Int64Counter
}

// NewMakeRecorder creates the make instruments on meter. Spans go to tracer.
func NewMakeRecorder(meter metric.Meter, tracer trace.Tracer) (*MakeRecorder, error) {
	total, err := meter.Int64Counter("service.make.total",
		metric.WithDescription("Service make attempts"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating service.make.total counter: %w", err)
	}

	duration, err := meter.Float64Histogram("service.make.duration",
		metric.WithDescription("Duration of service makes in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating service.make.duration histogram: %w", err)
	}

	errs, err := meter.Int64Counter("service.make.errors",
		metric.WithDescription("Failed service makes by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating service.make.errors counter: %w", err)
	}

	return &MakeRecorder{tracer: tracer, total: total, duration: duration, errors: errs}, nil
}

// ObserveMake records one make attempt. The span is backdated to cover d.
func (r *MakeRecorder) ObserveMake(service, mode string, d time.Duration, err error) {
	ctx := context.Background()
	base := []attribute.KeyValue{
		attribute.String(AttrService, service),
		attribute.String(AttrMode, mode),
	}

	r.total.Add(ctx, 1, metric.WithAttributes(append(base, attribute.Bool(AttrSuccess, err == nil))...))
	r.duration.Record(ctx, d.Seconds(), metric.WithAttributes(base...))
	if err != nil {
		r.errors.Add(ctx, 1, metric.WithAttributes(append(base, attribute.String(AttrErrorCode, errorCode(err)))...))
	}

	end := time.Now()
	_, span := r.tracer.Start(ctx, SpanServiceMake,
		trace.WithTimestamp(end.Add(-d)),
		trace.WithAttributes(base...),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End(trace.WithTimestamp(end))
}

// errorCode is the framework code of err, or "factory" for caller errors.
func errorCode(err error) string {
	if code := apperrors.CodeOf(err); code != "" {
		return string(code)
	}
	return "factory"
}
