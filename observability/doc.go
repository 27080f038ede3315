// Package observability exports provider activity through OpenTelemetry.
//
// MakeRecorder implements provider.MakeObserver and records, for every make
// attempt, the counters service.make.total and service.make.errors, the
// histogram service.make.duration and a service.make span:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("billing"))
//	defer mp.Shutdown(ctx)
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("billing"))
//	defer tp.Shutdown(ctx)
//
//	rec, err := observability.NewMakeRecorder(
//	    observability.Meter(observability.InstrumentationName),
//	    observability.Tracer(observability.InstrumentationName))
//	p := provider.New(factory, provider.WithMakeObserver(rec))
//
// RequestMetrics and ServiceHealth serve the HTTP surface of a service.
package observability
