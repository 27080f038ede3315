package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/locator/config"
	"github.com/kbukum/locator/di"
	"github.com/kbukum/locator/logger"
	"github.com/kbukum/locator/observability"
	"github.com/kbukum/locator/provider"
	"github.com/kbukum/locator/session"
)

// app holds the demo's locator and the mediators that drive it.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	failures *logger.Async
	loc      *di.Locator
	tenants  *session.Mediator[Tenant]
	void     *session.VoidMediator
	tokens   *tokenService
	metrics  *observability.RequestMetrics
	checks   []healthCheck

	// broadcast serializes mediator updates; concurrent updates would
	// interleave their deactivate and make passes.
	broadcast sync.Mutex
}

type healthCheck struct {
	critical bool
	run      func() observability.Health
}

func newApp(cfg *config.Config, log *logger.Logger) (*app, error) {
	meter := observability.Meter(observability.InstrumentationName)
	recorder, err := observability.NewMakeRecorder(meter, observability.Tracer(observability.InstrumentationName))
	if err != nil {
		return nil, fmt.Errorf("make recorder: %w", err)
	}
	metrics, err := observability.NewRequestMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("request metrics: %w", err)
	}

	failures := logger.NewAsync(log.WithComponent("provider"), cfg.Locator.AsyncLogBuffer)
	opts := []provider.Option{provider.WithLogger(failures), provider.WithMakeObserver(recorder)}

	a := &app{
		cfg:      cfg,
		log:      log,
		failures: failures,
		loc:      di.New(di.WithLogger(log.WithComponent("di")), di.WithLocking(cfg.Locator.LockingStrategy())),
		tenants:  session.NewMediator[Tenant](session.WithLogger(log.WithComponent("session"))),
		void:     session.NewVoidMediator(session.WithLogger(log.WithComponent("session"))),
		tokens:   newTokenService(cfg.Demo.JWTSecret, cfg.Demo.Issuer),
		metrics:  metrics,
	}

	di.Register[*config.Config](a.loc, provider.Value(cfg))

	catalogs := di.RegisterSafe(a.loc, provider.NewSession[Tenant, *Catalog](a.tenants, catalogFactory(), opts...))

	clock := di.RegisterSafe(a.loc, provider.New(provider.NewFactory(provider.Lazy, func() (*Clock, error) {
		return &Clock{Started: time.Now().UTC()}, nil
	}), opts...))

	di.RegisterParam(a.loc, provider.NewParam[*Report, ReportQuery](reportFactory(catalogs), opts...))

	stats := di.RegisterSafe(a.loc, provider.NewSession[session.Void, *Stats](a.void.Mediator, statsFactory(), opts...))

	di.RegisterSafe(a.loc, provider.NewWeak(provider.NewFactory(provider.Weak, newScratch), opts...))

	a.checks = []healthCheck{
		{critical: true, run: func() observability.Health { return observability.CheckProvider[*Clock]("clock", clock) }},
		{critical: false, run: func() observability.Health { return observability.CheckProvider[*Stats]("stats", stats) }},
	}
	return a, nil
}

// switchTenant makes t the current tenant session.
func (a *app) switchTenant(t Tenant, policy session.RemakePolicy) error {
	a.broadcast.Lock()
	defer a.broadcast.Unlock()
	return a.tenants.UpdateSession(t, policy)
}

// clearServices drops and remakes every void-scoped service.
func (a *app) clearServices() {
	a.broadcast.Lock()
	defer a.broadcast.Unlock()
	a.void.ClearServices()
}

// Close flushes the failure log.
func (a *app) Close() {
	a.failures.Close()
}
