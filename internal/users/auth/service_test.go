// Copyright (c) 2026 YaMDb. All rights reserved.

package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Groozzy/api-yamdb/internal/platform/apperr"
	"github.com/Groozzy/api-yamdb/internal/platform/sec"
	"github.com/Groozzy/api-yamdb/internal/users/account"
	"github.com/Groozzy/api-yamdb/internal/users/auth"
)

// fakeUserRepository is an in-memory auth.UserRepository.
type fakeUserRepository struct {
	byUsername map[string]*account.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{byUsername: make(map[string]*account.User)}
}

func (f *fakeUserRepository) GetByUsername(_ context.Context, username string) (*account.User, error) {
	user, ok := f.byUsername[username]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepository) GetByEmail(_ context.Context, email string) (*account.User, error) {
	for _, user := range f.byUsername {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) Create(_ context.Context, user *account.User) error {
	if _, ok := f.byUsername[user.Username]; ok {
		return apperr.Conflict("Username or email is already in use")
	}
	stored := *user
	f.byUsername[user.Username] = &stored
	return nil
}

// fakeCodeRepository stores confirmation code hashes in memory.
type fakeCodeRepository struct {
	hashes map[string]string
	sets   int
}

func newFakeCodeRepository() *fakeCodeRepository {
	return &fakeCodeRepository{hashes: make(map[string]string)}
}

func (f *fakeCodeRepository) Set(_ context.Context, username, codeHash string, _ time.Duration) error {
	f.hashes[username] = codeHash
	f.sets++
	return nil
}

func (f *fakeCodeRepository) Get(_ context.Context, username string) (string, error) {
	hash, ok := f.hashes[username]
	if !ok {
		return "", auth.ErrCodeNotFound
	}
	return hash, nil
}

func (f *fakeCodeRepository) Delete(_ context.Context, username string) error {
	delete(f.hashes, username)
	return nil
}

// fakeTokenIssuer mints predictable tokens.
type fakeTokenIssuer struct{}

func (f *fakeTokenIssuer) GenerateAccessToken(userID, username, role string, _ time.Duration) (string, error) {
	return "token-for-" + username, nil
}

// fakeMailer records delivered codes and can simulate delivery failure.
type fakeMailer struct {
	lastEmail string
	lastCode  string
	fail      bool
}

func (f *fakeMailer) SendConfirmationCode(_ context.Context, email, code string) error {
	if f.fail {
		return errors.New("smtp: connection refused")
	}
	f.lastEmail = email
	f.lastCode = code
	return nil
}

type authFixture struct {
	users   *fakeUserRepository
	codes   *fakeCodeRepository
	mailer  *fakeMailer
	service *auth.Service
}

func newFixture() *authFixture {
	users := newFakeUserRepository()
	codes := newFakeCodeRepository()
	mailer := &fakeMailer{}
	service := auth.NewService(users, codes, &fakeTokenIssuer{}, mailer,
		slog.New(slog.NewJSONHandler(io.Discard, nil)))

	return &authFixture{users: users, codes: codes, mailer: mailer, service: service}
}

/*
TestSignup_NewUser verifies that signup creates the account with the regular
role, stores a code hash and mails the plain code.
*/
func TestSignup_NewUser(t *testing.T) {
	fixture := newFixture()

	err := fixture.service.Signup(context.Background(), "alice", "alice@example.com")
	require.NoError(t, err)

	user, err := fixture.users.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.NotEmpty(t, user.ID)

	assert.Equal(t, "alice@example.com", fixture.mailer.lastEmail)
	assert.Len(t, fixture.mailer.lastCode, auth.ConfirmationCodeLength)

	// Only the hash reaches storage.
	hash, err := fixture.codes.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, fixture.mailer.lastCode, hash)
	assert.True(t, sec.CheckConfirmationCode(fixture.mailer.lastCode, hash))
}

/*
TestSignup_Reissue verifies that a repeated signup with the same identity
pair replaces the stored code instead of failing.
*/
func TestSignup_Reissue(t *testing.T) {
	fixture := newFixture()

	require.NoError(t, fixture.service.Signup(context.Background(), "alice", "alice@example.com"))
	firstCode := fixture.mailer.lastCode

	require.NoError(t, fixture.service.Signup(context.Background(), "alice", "alice@example.com"))
	secondCode := fixture.mailer.lastCode

	assert.Equal(t, 2, fixture.codes.sets)

	// Only the latest code exchanges (barring a 1-in-31^8 collision).
	hash, err := fixture.codes.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, sec.CheckConfirmationCode(secondCode, hash))
	if firstCode != secondCode {
		assert.False(t, sec.CheckConfirmationCode(firstCode, hash))
	}
}

/*
TestSignup_IdentityConflicts verifies that partial identity matches are
rejected: a taken username with another email, or a taken email with
another username.
*/
func TestSignup_IdentityConflicts(t *testing.T) {
	fixture := newFixture()
	require.NoError(t, fixture.service.Signup(context.Background(), "alice", "alice@example.com"))

	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"username_taken_other_email", "alice", "intruder@example.com"},
		{"email_taken_other_username", "intruder", "alice@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fixture.service.Signup(context.Background(), tt.username, tt.email)

			require.Error(t, err)
			assert.Equal(t, "CONFLICT", apperr.As(err).Code)
		})
	}
}

/*
TestSignup_Validation covers malformed identities, including the reserved
"me" username.
*/
func TestSignup_Validation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"reserved_me", "me", "me@example.com"},
		{"bad_email", "bob", "not-an-email"},
		{"empty_username", "", "bob@example.com"},
		{"illegal_username_chars", "bob smith", "bob@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newFixture()

			err := fixture.service.Signup(context.Background(), tt.username, tt.email)

			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

/*
TestSignup_MailFailureNotSurfaced verifies that delivery errors never reach
the caller, so responses do not reveal whether an address is live.
*/
func TestSignup_MailFailureNotSurfaced(t *testing.T) {
	fixture := newFixture()
	fixture.mailer.fail = true

	err := fixture.service.Signup(context.Background(), "alice", "alice@example.com")

	assert.NoError(t, err)

	// The code is stored regardless, ready for a retry via email support.
	_, err = fixture.codes.Get(context.Background(), "alice")
	assert.NoError(t, err)
}

/*
TestIssueToken verifies the exchange: the correct code yields a token and
is consumed, preventing replay.
*/
func TestIssueToken(t *testing.T) {
	fixture := newFixture()
	require.NoError(t, fixture.service.Signup(context.Background(), "alice", "alice@example.com"))
	code := fixture.mailer.lastCode

	token, err := fixture.service.IssueToken(context.Background(), "alice", code)

	require.NoError(t, err)
	assert.Equal(t, "token-for-alice", token)

	// Replays fail: the code was consumed.
	_, err = fixture.service.IssueToken(context.Background(), "alice", code)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestIssueToken_UnknownUser verifies the 404 for a username that never
signed up.
*/
func TestIssueToken_UnknownUser(t *testing.T) {
	fixture := newFixture()

	_, err := fixture.service.IssueToken(context.Background(), "ghost", "ABCD2345")

	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestIssueToken_WrongCode verifies that a wrong code is a validation error
and does not invalidate the stored code.
*/
func TestIssueToken_WrongCode(t *testing.T) {
	fixture := newFixture()
	require.NoError(t, fixture.service.Signup(context.Background(), "alice", "alice@example.com"))
	code := fixture.mailer.lastCode

	wrong := "WRONGCOD"
	if wrong == code {
		wrong = "WRONGC0D"
	}

	_, err := fixture.service.IssueToken(context.Background(), "alice", wrong)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	// The real code still works after the typo.
	token, err := fixture.service.IssueToken(context.Background(), "alice", code)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

/*
TestIssueToken_NoCodeIssued verifies the validation error for an account
that exists but has no outstanding code.
*/
func TestIssueToken_NoCodeIssued(t *testing.T) {
	fixture := newFixture()
	require.NoError(t, fixture.service.Signup(context.Background(), "alice", "alice@example.com"))
	require.NoError(t, fixture.codes.Delete(context.Background(), "alice"))

	_, err := fixture.service.IssueToken(context.Background(), "alice", "ABCD2345")

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}
