package otp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/taskvault/internal/model"
	"github.com/iliyamo/taskvault/internal/repository"
)

// memoryStore is an in-memory ChallengeStore keyed by email.
type memoryStore struct {
	rows map[string]model.OTPChallenge
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: map[string]model.OTPChallenge{}}
}

func (m *memoryStore) Upsert(_ context.Context, email, code string, issuedAt time.Time) error {
	m.rows[email] = model.OTPChallenge{Email: email, Code: code, CreatedAt: issuedAt}
	return nil
}

func (m *memoryStore) Get(_ context.Context, email string) (model.OTPChallenge, error) {
	ch, ok := m.rows[email]
	if !ok {
		return model.OTPChallenge{}, repository.ErrNotFound
	}
	return ch, nil
}

func (m *memoryStore) Delete(_ context.Context, email string) error {
	delete(m.rows, email)
	return nil
}

// recordingSender captures sent mail and optionally fails.
type recordingSender struct {
	to, code string
	err      error
}

func (r *recordingSender) SendOTP(to, code string) error {
	r.to, r.code = to, code
	return r.err
}

func newEngine(sender *recordingSender) (*Engine, *memoryStore) {
	store := newMemoryStore()
	return NewEngine(store, sender, 10*time.Minute), store
}

func TestIssueStoresThenMails(t *testing.T) {
	t.Parallel()
	sender := &recordingSender{}
	e, store := newEngine(sender)

	code, err := e.Issue(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.Len(t, code, 6)
	require.Equal(t, "a@x.com", sender.to)
	require.Equal(t, code, sender.code)
	require.Equal(t, code, store.rows["a@x.com"].Code)
}

func TestIssueDeliveryFailureKeepsChallenge(t *testing.T) {
	t.Parallel()
	sender := &recordingSender{err: errors.New("smtp down")}
	e, store := newEngine(sender)

	_, err := e.Issue(context.Background(), "a@x.com")
	require.ErrorIs(t, err, ErrDelivery)
	// The challenge was committed before the send was attempted.
	require.Contains(t, store.rows, "a@x.com")
}

func TestIssueOverwritesPriorChallenge(t *testing.T) {
	t.Parallel()
	sender := &recordingSender{}
	e, store := newEngine(sender)
	ctx := context.Background()

	first, err := e.Issue(ctx, "a@x.com")
	require.NoError(t, err)
	second, err := e.Issue(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, store.rows, 1)
	require.Equal(t, second, store.rows["a@x.com"].Code)

	// The overwritten code is dead even inside the window.
	if first != second {
		require.ErrorIs(t, e.VerifyAndConsume(ctx, "a@x.com", first), ErrInvalidOrExpired)
	}
}

func TestVerifyConsumesExactlyOnce(t *testing.T) {
	t.Parallel()
	sender := &recordingSender{}
	e, _ := newEngine(sender)
	ctx := context.Background()

	code, err := e.Issue(ctx, "b@x.com")
	require.NoError(t, err)

	require.NoError(t, e.VerifyAndConsume(ctx, "b@x.com", code))
	// Replay of the same code fails: the challenge is gone.
	require.ErrorIs(t, e.VerifyAndConsume(ctx, "b@x.com", code), ErrInvalidOrExpired)
}

func TestVerifyWrongCodeDoesNotConsume(t *testing.T) {
	t.Parallel()
	sender := &recordingSender{}
	e, _ := newEngine(sender)
	ctx := context.Background()

	code, err := e.Issue(ctx, "c@x.com")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	require.ErrorIs(t, e.VerifyAndConsume(ctx, "c@x.com", wrong), ErrInvalidOrExpired)
	// The stored challenge survived the failed attempt.
	require.NoError(t, e.VerifyAndConsume(ctx, "c@x.com", code))
}

func TestVerifyExpiredCode(t *testing.T) {
	t.Parallel()
	sender := &recordingSender{}
	e, store := newEngine(sender)
	ctx := context.Background()

	code, err := e.Issue(ctx, "d@x.com")
	require.NoError(t, err)

	// Age the challenge past the validity window.
	ch := store.rows["d@x.com"]
	ch.CreatedAt = time.Now().UTC().Add(-11 * time.Minute)
	store.rows["d@x.com"] = ch

	require.ErrorIs(t, e.VerifyAndConsume(ctx, "d@x.com", code), ErrInvalidOrExpired)
}

func TestVerifyUnknownEmail(t *testing.T) {
	t.Parallel()
	sender := &recordingSender{}
	e, _ := newEngine(sender)

	err := e.VerifyAndConsume(context.Background(), "nobody@x.com", "123456")
	require.ErrorIs(t, err, ErrInvalidOrExpired)
}
