package provider

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kbukum/locator/errors"
	"github.com/kbukum/locator/session"
)

var lockings = []Locking{LockMutex, LockSemaphore, LockQueue}

func TestSafe_LazyMadeOnceUnderContention(t *testing.T) {
	for _, l := range lockings {
		t.Run(l.String(), func(t *testing.T) {
			var calls atomic.Int32
			sp := NewSafe(New(NewFactory(Lazy, func() (*mailer, error) {
				n := calls.Add(1)
				return &mailer{id: int(n)}, nil
			})), l)

			var wg sync.WaitGroup
			results := make([]*mailer, 32)
			for i := range results {
				wg.Add(1)
				go func() {
					defer wg.Done()
					m, err := sp.GetService()
					assert.NoError(t, err)
					results[i] = m
				}()
			}
			wg.Wait()

			assert.Equal(t, int32(1), calls.Load())
			for _, m := range results {
				assert.Same(t, results[0], m)
			}
			assert.Equal(t, l, sp.Locking())
			assert.Equal(t, Lazy, sp.Mode())
		})
	}
}

func TestSafe_SerializesMakes(t *testing.T) {
	for _, l := range lockings {
		t.Run(l.String(), func(t *testing.T) {
			var inside, overlaps atomic.Int32
			sp := NewSafe(New(NewFactory(Many, func() (int, error) {
				if inside.Add(1) > 1 {
					overlaps.Add(1)
				}
				defer inside.Add(-1)
				return 1, nil
			})), l)

			var wg sync.WaitGroup
			for range 16 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for range 20 {
						_, _ = sp.GetService()
					}
				}()
			}
			wg.Wait()
			assert.Zero(t, overlaps.Load())
		})
	}
}

func TestSafe_ResolvedAtOneSkipsLock(t *testing.T) {
	sp := NewSafe(Value(&mailer{id: 1}), LockMutex)
	ml := sp.lock.(*mutexLocker)

	ml.mu.Lock()
	defer ml.mu.Unlock()
	m, err := sp.GetService()
	require.NoError(t, err)
	assert.Equal(t, 1, m.id)
}

func TestSafe_GetServiceUnsafe(t *testing.T) {
	sp := NewSafe(New(NewFactory(Lazy, func() (string, error) { return "x", nil })), LockMutex)
	ml := sp.lock.(*mutexLocker)

	ml.mu.Lock()
	defer ml.mu.Unlock()
	v, err := sp.GetServiceUnsafe()
	require.NoError(t, err)
	assert.Equal(t, "x", v)
}

func TestSafe_TryAndMust(t *testing.T) {
	for _, l := range lockings {
		t.Run(l.String(), func(t *testing.T) {
			sp := NewSafe(New(NewFactory(Lazy, func() (*mailer, error) { return nil, errors.New("refused") })), l)

			_, ok := sp.TryGetService()
			assert.False(t, ok)
			assert.PanicsWithValue(t, "can't obtain service *provider.mailer\n  path: *provider.mailer\n  cause: refused", func() {
				sp.MustGetService()
			})
		})
	}
}

func TestSafe_QueueRepanicsInCaller(t *testing.T) {
	sp := NewSafe(New(NewFactory(Many, func() (int, error) { panic("factory exploded") })), LockQueue)

	assert.PanicsWithValue(t, "factory exploded", func() { _, _ = sp.GetService() })

	// The worker survives a panic.
	ok := NewSafe(New(NewFactory(Many, func() (int, error) { return 3, nil })), LockQueue)
	v, err := ok.GetService()
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestQueueLocker_RunsInlineAfterStop(t *testing.T) {
	q := newQueueLocker()
	q.stop()
	q.stop()

	ran := false
	q.do(func() { ran = true })
	assert.True(t, ran)
}

func TestSafe_SessionUpdatesRaceWithReads(t *testing.T) {
	for _, l := range lockings {
		t.Run(l.String(), func(t *testing.T) {
			m := newMediator(t, "0")
			sp := NewSafe(NewSession(m, SessionFuncs[tenant, *repo]{
				Mode: AtOne,
				Make: func(s tenant) (*repo, error) { return &repo{tenant: s.id}, nil },
			}), l)

			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				for i := range 50 {
					assert.NoError(t, m.UpdateSession(tenant{id: fmt.Sprint(i % 4)}, session.RemakeNone))
				}
			}()
			go func() {
				defer wg.Done()
				for range 200 {
					r, err := sp.GetService()
					assert.NoError(t, err)
					assert.NotNil(t, r)
				}
			}()
			wg.Wait()

			cur, _ := m.Current()
			r, err := sp.GetService()
			require.NoError(t, err)
			assert.Equal(t, cur.id, r.tenant)
			assert.ElementsMatch(t, []any{"0", "1", "2", "3"}, sp.SessionKeys())
		})
	}
}

func TestSafe_MustGetServiceFrameworkError(t *testing.T) {
	sp := NewSafe(New[*mailer](nil), LockMutex)

	var msg any
	func() {
		defer func() { msg = recover() }()
		sp.MustGetService()
	}()
	require.IsType(t, "", msg)
	assert.Contains(t, msg, "can't obtain service *provider.mailer")
	assert.Contains(t, msg, string(apperrors.ErrCodeInvalidFactory))
}

func TestSafe_SessionCallbacksUseUnsafeGetter(t *testing.T) {
	for _, l := range lockings {
		t.Run(l.String(), func(t *testing.T) {
			m := newMediator(t, "1")
			var (
				sp        *SafeProvider[*repo]
				activated []string
			)
			sp = NewSafe(NewSession(m, SessionFuncs[tenant, *repo]{
				Mode: AtOne,
				Make: func(s tenant) (*repo, error) { return &repo{tenant: s.id}, nil },
				Activate: func(_ *repo, _ tenant) {
					r, err := sp.GetServiceUnsafe()
					if err == nil {
						activated = append(activated, r.tenant)
					}
				},
			}), l)

			done := make(chan struct{})
			go func() {
				defer close(done)
				assert.NoError(t, m.UpdateSession(tenant{id: "2"}, session.RemakeNone))
				assert.NoError(t, m.UpdateSession(tenant{id: "1"}, session.RemakeNone))
			}()
			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("session update blocked in callback")
			}
			assert.Equal(t, []string{"1"}, activated)
		})
	}
}

func TestParseLocking(t *testing.T) {
	tests := []struct {
		in      string
		want    Locking
		wantErr bool
	}{
		{"", LockMutex, false},
		{"mutex", LockMutex, false},
		{" Semaphore ", LockSemaphore, false},
		{"queue", LockQueue, false},
		{"spinlock", LockMutex, true},
	}
	for _, tt := range tests {
		got, err := ParseLocking(tt.in)
		if tt.wantErr {
			assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.CodeOf(err))
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
	assert.Equal(t, "Locking(7)", Locking(7).String())
}
