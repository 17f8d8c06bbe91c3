package auth_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/taskvault/internal/auth"
	"github.com/iliyamo/taskvault/internal/googleauth"
	"github.com/iliyamo/taskvault/internal/model"
	"github.com/iliyamo/taskvault/internal/otp"
	"github.com/iliyamo/taskvault/internal/repository"
	"github.com/iliyamo/taskvault/internal/utils"
)

// memoryUserStore implements auth.UserStore with the same error contract
// as repository.UserRepo, including the unique-email backstop.
type memoryUserStore struct {
	nextID uint64
	byID   map[uint64]model.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{nextID: 1, byID: map[uint64]model.User{}}
}

func (m *memoryUserStore) Create(_ context.Context, u model.User) (model.User, error) {
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return model.User{}, repository.ErrEmailExists
		}
	}
	u.ID = m.nextID
	m.nextID++
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	m.byID[u.ID] = u
	return u, nil
}

func (m *memoryUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memoryUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *memoryUserStore) UpdateProfileImage(_ context.Context, email, imageURL string) error {
	for id, u := range m.byID {
		if u.Email == email {
			u.ProfileImage = &imageURL
			m.byID[id] = u
			return nil
		}
	}
	return repository.ErrNotFound
}

// memoryChallengeStore mirrors the user_otps table.
type memoryChallengeStore struct {
	rows map[string]model.OTPChallenge
}

func (m *memoryChallengeStore) Upsert(_ context.Context, email, code string, issuedAt time.Time) error {
	m.rows[email] = model.OTPChallenge{Email: email, Code: code, CreatedAt: issuedAt}
	return nil
}
func (m *memoryChallengeStore) Get(_ context.Context, email string) (model.OTPChallenge, error) {
	ch, ok := m.rows[email]
	if !ok {
		return model.OTPChallenge{}, repository.ErrNotFound
	}
	return ch, nil
}
func (m *memoryChallengeStore) Delete(_ context.Context, email string) error {
	delete(m.rows, email)
	return nil
}

type nopSender struct{ lastCode string }

func (n *nopSender) SendOTP(_, code string) error {
	n.lastCode = code
	return nil
}

// stubVerifier returns fixed claims, or an error when claims are empty.
type stubVerifier struct{ claims googleauth.Claims }

func (s *stubVerifier) Verify(context.Context, string) (googleauth.Claims, error) {
	if s.claims.Email == "" {
		return googleauth.Claims{}, googleauth.ErrInvalidToken
	}
	return s.claims, nil
}

type fixture struct {
	svc    *auth.Service
	users  *memoryUserStore
	otps   *memoryChallengeStore
	sender *nopSender
	google *stubVerifier
}

func newFixture() *fixture {
	users := newMemoryUserStore()
	otps := &memoryChallengeStore{rows: map[string]model.OTPChallenge{}}
	sender := &nopSender{}
	google := &stubVerifier{}
	svc := &auth.Service{
		Users:      users,
		OTP:        otp.NewEngine(otps, sender, 10*time.Minute),
		Google:     google,
		Secret:     "test-secret",
		SessionTTL: 5 * time.Hour,
		BcryptCost: 4, // bcrypt.MinCost keeps the suite fast
	}
	return &fixture{svc: svc, users: users, otps: otps, sender: sender, google: google}
}

func TestSignupThenLogin(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	u, err := f.svc.Signup(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)
	require.Equal(t, model.SignupMethodPassword, u.SignupMethod)
	require.False(t, u.IsSuperuser)

	sess, err := f.svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	require.Equal(t, u.ID, sess.User.ID)

	// The issued token decodes back to the created account's id.
	uid, err := utils.ParseSessionToken("test-secret", sess.Token)
	require.NoError(t, err)
	require.Equal(t, u.ID, uid)
}

func TestSignupDuplicateEmail(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	_, err = f.svc.Signup(ctx, "alice again", "a@x.com", "pw2")
	require.ErrorIs(t, err, auth.ErrDuplicateAccount)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	_, unknownErr := f.svc.Login(ctx, "nobody@x.com", "pw1")
	_, wrongErr := f.svc.Login(ctx, "a@x.com", "wrong")

	// Unknown account and wrong password are indistinguishable.
	require.ErrorIs(t, unknownErr, auth.ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, auth.ErrInvalidCredentials)
}

func TestLoginRejectsGoogleOnlyAccount(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	f.google.claims = googleauth.Claims{Email: "g@x.com", Name: "G"}
	_, _, err := f.svc.GoogleLogin(ctx, "raw")
	require.NoError(t, err)

	// No password hash exists, so a password login must fail closed.
	_, err = f.svc.Login(ctx, "g@x.com", "")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestPasswordNeverStoredInPlaintext(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	u, err := f.svc.Signup(ctx, "alice", "a@x.com", "hunter2hunter2")
	require.NoError(t, err)
	require.NotNil(t, u.PasswordHash)
	require.NotContains(t, *u.PasswordHash, "hunter2hunter2")

	// Nor does it leak through the session payload.
	sess, err := f.svc.Login(ctx, "a@x.com", "hunter2hunter2")
	require.NoError(t, err)
	raw, err := json.Marshal(sess)
	require.NoError(t, err)
	require.False(t, strings.Contains(string(raw), "hunter2hunter2"))
}

func TestOTPSignupFlow(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.RequestSignupOTP(ctx, "b@x.com"))
	code := f.sender.lastCode
	require.Len(t, code, 6)

	// A wrong code fails and does not consume the challenge.
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	_, err := f.svc.CompleteSignupOTP(ctx, "bob", "b@x.com", "pw", wrong)
	require.ErrorIs(t, err, auth.ErrInvalidOrExpiredOTP)

	u, err := f.svc.CompleteSignupOTP(ctx, "bob", "b@x.com", "pw", code)
	require.NoError(t, err)
	require.Equal(t, "b@x.com", u.Email)

	// The challenge row is gone after use.
	require.Empty(t, f.otps.rows)

	// Replaying the consumed code cannot mint a second account.
	_, err = f.svc.CompleteSignupOTP(ctx, "bob2", "b@x.com", "pw", code)
	require.ErrorIs(t, err, auth.ErrInvalidOrExpiredOTP)
}

func TestRequestOTPExistingAccount(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.RequestSignupOTP(ctx, "a@x.com"), auth.ErrDuplicateAccount)
}

func TestGoogleLoginCreatesThenSyncsAvatar(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	f.google.claims = googleauth.Claims{Email: "c@x.com", Name: "Carol", Picture: "https://img/1"}
	sess, created, err := f.svc.GoogleLogin(ctx, "raw")
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, model.SignupMethodGoogle, sess.User.SignupMethod)
	require.Nil(t, sess.User.PasswordHash)
	require.NotNil(t, sess.User.ProfileImage)
	require.Equal(t, "https://img/1", *sess.User.ProfileImage)

	// Second login with a fresh picture updates the avatar in place.
	f.google.claims.Picture = "https://img/2"
	sess2, created, err := f.svc.GoogleLogin(ctx, "raw")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, sess.User.ID, sess2.User.ID)
	require.Equal(t, "https://img/2", *sess2.User.ProfileImage)
	require.Len(t, f.users.byID, 1) // no duplicate account
}

func TestGoogleLoginInvalidToken(t *testing.T) {
	t.Parallel()
	f := newFixture()

	_, _, err := f.svc.GoogleLogin(context.Background(), "garbage")
	require.ErrorIs(t, err, auth.ErrInvalidIDToken)
}

func TestEmailNormalization(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, "alice", "  A@X.com ", "pw1")
	require.NoError(t, err)

	// The same address in another casing maps to the same account.
	_, err = f.svc.Signup(ctx, "alice", "a@x.com", "pw1")
	require.ErrorIs(t, err, auth.ErrDuplicateAccount)

	_, err = f.svc.Login(ctx, "A@x.COM", "pw1")
	require.NoError(t, err)
}
