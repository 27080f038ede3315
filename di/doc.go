// Package di is a service locator over provider values.
//
// Registrations are keyed by service type and an optional name and hold a
// type-erased provider. Resolve downcasts it back at a single point, so a
// mismatch surfaces as an INVALID_FACTORY error instead of a panic.
//
// # Registration
//
//	loc := di.New(di.WithLocking(provider.LockQueue))
//	di.Register[*Mailer](loc, provider.New(provider.NewFactory(provider.Lazy, NewMailer)))
//	di.RegisterSafe(loc, repoProvider, di.WithName("primary"))
//	di.RegisterParam(loc, provider.NewParam(provider.ParamFunc[*Report, ReportQuery](BuildReport)))
//
// # Resolution
//
//	mailer := di.MustResolve[*Mailer](loc)
//	report, err := di.ResolveWithParams[*Report](loc, ReportQuery{Month: 3})
//
// Errors are *provider.ObtainError values wrapping SERVICE_NOT_FOUND,
// WRONG_PARAMS or INVALID_FACTORY, or the provider's own failure.
package di
