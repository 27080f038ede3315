// Package provider controls when service instances are created, cached,
// reused, deactivated and recreated.
//
// A Factory declares a lifecycle Mode and makes instances; a Provider wraps
// it and caches per mode:
//
//   - AtOne: made once while the provider is built. A failure is kept and
//     returned forever; it is never retried.
//   - Lazy: made on first GetService. Success is cached, failure is not, so
//     every later call retries.
//   - Weak: like Lazy, but the cache holds a weak pointer. Once the garbage
//     collector reclaims the instance the next call makes a new one.
//   - Many: made on every call.
//
// Session-scoped providers (NewSession) keep one instance per session key
// and follow a session.Mediator: the old session's instance is deactivated
// (and dropped when DeactivateService returns false), the new session's
// instance is reactivated or made.
//
// Errors are *ObtainError values. When a factory fails because a provider
// it depends on failed, the outer service type is prepended to the path, so
// the error lists every type that was being built, outermost first.
//
// Plain providers are not safe for concurrent use except when they hold a
// resolved AtOne instance. Wrap them with NewSafe to serialize access with
// a mutex, a weighted semaphore or a dedicated worker queue.
//
//	mailer := provider.New(provider.NewFactory(provider.Lazy, newMailer),
//	    provider.WithLogger(logger.NewAsync(logger.Get(logger.ComponentProvider), 256)))
//	m, err := mailer.GetService()
package provider
