package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kbukum/locator/errors"
)

type greeter struct {
	greeting string
}

type greeterParams struct {
	name string
}

func newGreeterProvider(calls *int) *ParamProvider[*greeter, greeterParams] {
	return NewParam(ParamFunc[*greeter, greeterParams](func(p greeterParams) (*greeter, error) {
		*calls++
		if p.name == "" {
			return nil, errors.New("empty name")
		}
		return &greeter{greeting: "hello " + p.name}, nil
	}))
}

func TestParamProvider_GetService(t *testing.T) {
	calls := 0
	p := newGreeterProvider(&calls)

	g, err := p.GetService(greeterParams{name: "ada"})
	require.NoError(t, err)
	assert.Equal(t, "hello ada", g.greeting)

	other, err := p.GetService(greeterParams{name: "ada"})
	require.NoError(t, err)
	assert.NotSame(t, g, other)
	assert.Equal(t, 2, calls)
	assert.Equal(t, Many, p.Mode())
	assert.Equal(t, TypeOf[greeterParams](), p.ParamsType())
}

func TestParamProvider_FactoryError(t *testing.T) {
	calls := 0
	p := newGreeterProvider(&calls)

	_, err := p.GetService(greeterParams{})
	var oe *ObtainError
	require.True(t, errors.As(err, &oe))
	assert.EqualError(t, oe.Err, "empty name")
}

func TestParamProvider_WrongParamsSkipsFactory(t *testing.T) {
	calls := 0
	p := newGreeterProvider(&calls)

	_, err := p.GetServiceAny("ada")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrWrongParams))
	assert.Equal(t, apperrors.ErrCodeWrongParams, apperrors.CodeOf(err))
	assert.Equal(t, 0, calls)

	_, err = p.GetServiceAny(nil)
	assert.True(t, errors.Is(err, apperrors.ErrWrongParams))
	assert.Equal(t, 0, calls)

	g, err := p.GetServiceAny(greeterParams{name: "bob"})
	require.NoError(t, err)
	assert.Equal(t, "hello bob", g.greeting)
	assert.Equal(t, 1, calls)
}

func TestParamProvider_NilParamsForPointerType(t *testing.T) {
	p := NewParam(ParamFunc[string, *greeterParams](func(p *greeterParams) (string, error) {
		if p == nil {
			return "anonymous", nil
		}
		return p.name, nil
	}))

	got, err := p.GetServiceAny(nil)
	require.NoError(t, err)
	assert.Equal(t, "anonymous", got)
}

func TestParamProvider_Convert(t *testing.T) {
	calls := 0
	p := newGreeterProvider(&calls)
	bound := p.Convert(greeterParams{name: "eve"})

	assert.Equal(t, Many, bound.Mode())
	a, err := bound.GetService()
	require.NoError(t, err)
	b, err := bound.GetService()
	require.NoError(t, err)
	assert.Equal(t, "hello eve", a.greeting)
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, calls)
}

func TestParamProvider_NilFactory(t *testing.T) {
	p := NewParam[*greeter, greeterParams](nil)

	_, err := p.GetService(greeterParams{name: "x"})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidFactory))

	_, err = p.Convert(greeterParams{}).GetService()
	assert.True(t, errors.Is(err, apperrors.ErrInvalidFactory))
}
