package di

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kbukum/locator/errors"
	"github.com/kbukum/locator/logger"
	"github.com/kbukum/locator/provider"
)

type store struct {
	dsn string
}

type report struct {
	month int
}

type reportQuery struct {
	month int
}

func newLocator() *Locator {
	return New(WithLogger(logger.Nop()))
}

func lazyStore(dsn string) *provider.Provider[*store] {
	return provider.New(provider.NewFactory(provider.Lazy, func() (*store, error) {
		return &store{dsn: dsn}, nil
	}))
}

func reportProvider(calls *int) *provider.ParamProvider[*report, reportQuery] {
	return provider.NewParam(provider.ParamFunc[*report, reportQuery](func(q reportQuery) (*report, error) {
		*calls++
		return &report{month: q.month}, nil
	}))
}

func TestRegisterAndResolve(t *testing.T) {
	l := newLocator()
	Register[*store](l, lazyStore("postgres://a"))

	s, err := Resolve[*store](l)
	require.NoError(t, err)
	assert.Equal(t, "postgres://a", s.dsn)

	again := MustResolve[*store](l)
	assert.Same(t, s, again)
}

func TestResolve_NotRegistered(t *testing.T) {
	l := newLocator()

	_, err := Resolve[*store](l)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrServiceNotFound))

	var oe *provider.ObtainError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, provider.TypeOf[*store](), oe.Service)
	assert.Len(t, oe.Path, 1)
}

func TestNamedRegistrations(t *testing.T) {
	l := newLocator()
	Register[*store](l, lazyStore("primary"), WithName("primary"))
	Register[*store](l, lazyStore("replica"), WithName("replica"))

	p, err := ResolveNamed[*store](l, "primary")
	require.NoError(t, err)
	r, err := Resolve[*store](l, WithName("replica"))
	require.NoError(t, err)
	assert.Equal(t, "primary", p.dsn)
	assert.Equal(t, "replica", r.dsn)

	_, err = Resolve[*store](l)
	assert.True(t, errors.Is(err, apperrors.ErrServiceNotFound))
	assert.Contains(t, err.Error(), "no provider registered for *di.store")
}

func TestRegister_Replaces(t *testing.T) {
	l := newLocator()
	Register[*store](l, lazyStore("old"))
	Register[*store](l, lazyStore("new"))

	s := MustResolve[*store](l)
	assert.Equal(t, "new", s.dsn)
	assert.Equal(t, 1, l.Len())
}

func TestRegisterSafe_UsesLocatorLocking(t *testing.T) {
	l := New(WithLogger(logger.Nop()), WithLocking(provider.LockSemaphore))
	sp := RegisterSafe(l, lazyStore("x"))
	assert.Equal(t, provider.LockSemaphore, sp.Locking())

	s, err := Resolve[*store](l)
	require.NoError(t, err)
	assert.Equal(t, "x", s.dsn)

	infos := l.Registrations()
	require.Len(t, infos, 1)
	assert.True(t, infos[0].Safe)
	assert.Equal(t, "lazy", infos[0].Mode)
}

func TestResolveWithParams(t *testing.T) {
	l := newLocator()
	calls := 0
	RegisterParam(l, reportProvider(&calls))

	r, err := ResolveWithParams[*report](l, reportQuery{month: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, r.month)

	_, err = ResolveWithParams[*report](l, "april")
	assert.True(t, errors.Is(err, apperrors.ErrWrongParams))
	assert.Equal(t, 1, calls)

	_, err = Resolve[*report](l)
	assert.True(t, errors.Is(err, apperrors.ErrWrongParams))
	assert.Equal(t, 1, calls)
}

func TestResolveWithParams_PlainRegistration(t *testing.T) {
	l := newLocator()
	Register[*store](l, lazyStore("x"))

	_, err := ResolveWithParams[*store](l, 3)
	assert.True(t, errors.Is(err, apperrors.ErrWrongParams))

	s, err := ResolveWithParams[*store](l, nil)
	require.NoError(t, err)
	assert.Equal(t, "x", s.dsn)
}

func TestResolve_MismatchedBoxIsInvalidFactory(t *testing.T) {
	l := newLocator()
	l.put(&entry{key: keyFor[*store](""), box: lazyStore("x").Mode(), mode: "bogus"})

	_, err := Resolve[*store](l)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidFactory))
	_, err = ResolveWithParams[*store](l, nil)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidFactory))
}

func TestResolve_ProviderFailurePassesThrough(t *testing.T) {
	l := newLocator()
	Register[*store](l, provider.New(provider.NewFactory(provider.Lazy, func() (*store, error) {
		return nil, fmt.Errorf("dial tcp: refused")
	})))

	_, err := Resolve[*store](l)
	var oe *provider.ObtainError
	require.True(t, errors.As(err, &oe))
	assert.EqualError(t, oe.Err, "dial tcp: refused")
}

func TestTryResolve(t *testing.T) {
	l := newLocator()
	_, ok := TryResolve[*store](l)
	assert.False(t, ok)

	Register[*store](l, lazyStore("x"))
	s, ok := TryResolve[*store](l)
	assert.True(t, ok)
	assert.Equal(t, "x", s.dsn)
}

func TestMustResolve_Panics(t *testing.T) {
	l := newLocator()
	assert.PanicsWithValue(t,
		"can't obtain service *di.store\n  path: *di.store\n  cause: SERVICE_NOT_FOUND: no provider registered for *di.store",
		func() { MustResolve[*store](l) })
}

func TestRegistrations_Sorted(t *testing.T) {
	l := newLocator()
	calls := 0
	Register[*store](l, lazyStore("b"), WithName("b"))
	Register[*store](l, lazyStore("a"), WithName("a"))
	RegisterParam(l, reportProvider(&calls))
	Register[string](l, provider.Value("cfg"))

	infos := l.Registrations()
	require.Len(t, infos, 4)
	assert.Equal(t, "*di.report", infos[0].Service)
	assert.Equal(t, "di.reportQuery", infos[0].Params)
	assert.Equal(t, "many", infos[0].Mode)
	assert.Equal(t, "a", infos[1].Name)
	assert.Equal(t, "b", infos[2].Name)
	assert.Equal(t, "string", infos[3].Service)
	assert.Equal(t, "atOne", infos[3].Mode)
	assert.False(t, infos[3].RegisteredAt.IsZero())
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "*di.store", keyFor[*store]("").String())
	assert.Equal(t, "*di.store#replica", keyFor[*store]("replica").String())
}
