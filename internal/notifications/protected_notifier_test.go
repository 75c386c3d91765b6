package notifications

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type flakyNotifier struct {
	mu    sync.Mutex
	err   error
	calls int
	block bool
}

func (f *flakyNotifier) SendWelcome(ctx context.Context, _ WelcomeInput) error {
	f.mu.Lock()
	f.calls++
	err, block := f.err, f.block
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

func (f *flakyNotifier) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type tally map[string]int

func (t tally) ObserveNotification(kind, result string) { t[kind+"/"+result]++ }

func TestProtectedNotifierOpensAfterThreshold(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	inner := &flakyNotifier{err: errors.New("provider down")}
	counts := tally{}

	n := NewProtectedNotifier(inner, ProtectedNotifierConfig{
		FailureThreshold: 2,
		Cooldown:         time.Minute,
		Observer:         counts,
		Now:              func() time.Time { return now },
	})
	ctx := context.Background()

	require.Error(t, n.SendWelcome(ctx, WelcomeInput{UserID: 1}))
	require.Equal(t, stateClosed, n.State())
	require.Error(t, n.SendWelcome(ctx, WelcomeInput{UserID: 1}))
	require.Equal(t, stateOpen, n.State())

	require.ErrorIs(t, n.SendWelcome(ctx, WelcomeInput{UserID: 1}), ErrCircuitOpen)
	require.Equal(t, 2, inner.calls, "open circuit must not reach the provider")
	require.Equal(t, 2, counts["welcome/error"])
	require.Equal(t, 1, counts["welcome/circuit_open"])

	// after the cooldown one trial goes through and closes the circuit
	now = now.Add(time.Minute)
	inner.setErr(nil)
	require.NoError(t, n.SendWelcome(ctx, WelcomeInput{UserID: 1}))
	require.Equal(t, stateClosed, n.State())
	require.Equal(t, 1, counts["welcome/sent"])
}

func TestProtectedNotifierFailedTrialReopens(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	inner := &flakyNotifier{err: errors.New("provider down")}

	n := NewProtectedNotifier(inner, ProtectedNotifierConfig{
		FailureThreshold: 1,
		Cooldown:         10 * time.Second,
		Now:              func() time.Time { return now },
	})
	ctx := context.Background()

	require.Error(t, n.SendWelcome(ctx, WelcomeInput{}))
	require.Equal(t, stateOpen, n.State())

	now = now.Add(10 * time.Second)
	require.Error(t, n.SendWelcome(ctx, WelcomeInput{}))
	require.Equal(t, stateOpen, n.State())
	require.ErrorIs(t, n.SendWelcome(ctx, WelcomeInput{}), ErrCircuitOpen)
}

func TestProtectedNotifierTimeout(t *testing.T) {
	inner := &flakyNotifier{block: true}
	n := NewProtectedNotifier(inner, ProtectedNotifierConfig{Timeout: 20 * time.Millisecond})

	err := n.SendWelcome(context.Background(), WelcomeInput{})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLogNotifier(t *testing.T) {
	n := NewLogNotifier(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, n.SendWelcome(context.Background(), WelcomeInput{UserID: 1, Email: "a@x.com", Name: "A"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, n.SendWelcome(ctx, WelcomeInput{}), context.Canceled)
}
