// Copyright (c) 2026 YaMDb. All rights reserved.

package account_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Groozzy/api-yamdb/internal/platform/apperr"
	"github.com/Groozzy/api-yamdb/internal/platform/sec"
	"github.com/Groozzy/api-yamdb/internal/users/account"
	"github.com/Groozzy/api-yamdb/pkg/pagination"
	"github.com/Groozzy/api-yamdb/pkg/pointer"
)

// fakeRepository is an in-memory account.Repository for service tests.
type fakeRepository struct {
	byID map[string]*account.User
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byID: make(map[string]*account.User)}
}

func (f *fakeRepository) List(_ context.Context, _ string, _ pagination.Params) ([]*account.User, int, error) {
	var result []*account.User
	for _, user := range f.byID {
		copied := *user
		result = append(result, &copied)
	}
	return result, len(result), nil
}

func (f *fakeRepository) GetByID(_ context.Context, id string) (*account.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

func (f *fakeRepository) GetByUsername(_ context.Context, username string) (*account.User, error) {
	for _, user := range f.byID {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeRepository) GetByEmail(_ context.Context, email string) (*account.User, error) {
	for _, user := range f.byID {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeRepository) Create(_ context.Context, user *account.User) error {
	for _, existing := range f.byID {
		if existing.Username == user.Username || existing.Email == user.Email {
			return apperr.Conflict("Username or email is already in use")
		}
	}
	stored := *user
	f.byID[user.ID] = &stored
	return nil
}

func (f *fakeRepository) Update(_ context.Context, user *account.User) error {
	if _, ok := f.byID[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	stored := *user
	f.byID[user.ID] = &stored
	return nil
}

func (f *fakeRepository) DeleteByUsername(_ context.Context, username string) error {
	for id, user := range f.byID {
		if user.Username == username {
			delete(f.byID, id)
			return nil
		}
	}
	return apperr.NotFound("User")
}

func newTestService() (*account.Service, *fakeRepository) {
	repo := newFakeRepository()
	return account.NewService(repo, slog.New(slog.NewJSONHandler(io.Discard, nil))), repo
}

/*
TestCreateUser verifies creation with an explicit role and the default
role when none is given.
*/
func TestCreateUser(t *testing.T) {
	service, _ := newTestService()

	moderator, err := service.CreateUser(context.Background(), account.CreateUserInput{
		Username: "mod", Email: "mod@example.com", Role: "moderator",
	})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, moderator.Role)
	assert.NotEmpty(t, moderator.ID)

	regular, err := service.CreateUser(context.Background(), account.CreateUserInput{
		Username: "alice", Email: "alice@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, regular.Role)
}

/*
TestCreateUser_Validation covers identity rules, unknown roles and the
reserved "me" username.
*/
func TestCreateUser_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input account.CreateUserInput
	}{
		{"reserved_me", account.CreateUserInput{Username: "me", Email: "me@example.com"}},
		{"unknown_role", account.CreateUserInput{Username: "bob", Email: "bob@example.com", Role: "superuser"}},
		{"bad_email", account.CreateUserInput{Username: "bob", Email: "nope"}},
		{"missing_username", account.CreateUserInput{Email: "bob@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newTestService()

			_, err := service.CreateUser(context.Background(), tt.input)

			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

/*
TestCreateUser_Duplicate verifies the uniqueness conflict.
*/
func TestCreateUser_Duplicate(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateUser(context.Background(), account.CreateUserInput{
		Username: "alice", Email: "alice@example.com",
	})
	require.NoError(t, err)

	_, err = service.CreateUser(context.Background(), account.CreateUserInput{
		Username: "alice", Email: "other@example.com",
	})

	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

/*
TestUpdateUser_RoleChange verifies admin-side promotion and demotion.
*/
func TestUpdateUser_RoleChange(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateUser(context.Background(), account.CreateUserInput{
		Username: "alice", Email: "alice@example.com",
	})
	require.NoError(t, err)

	updated, err := service.UpdateUser(context.Background(), "alice",
		account.UpdateUserInput{Role: pointer.To("moderator")})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, updated.Role)

	_, err = service.UpdateUser(context.Background(), "alice",
		account.UpdateUserInput{Role: pointer.To("superuser")})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestUpdateMe verifies the self-service profile update; the input type has
no role field, so a user cannot touch their own role.
*/
func TestUpdateMe(t *testing.T) {
	service, _ := newTestService()

	created, err := service.CreateUser(context.Background(), account.CreateUserInput{
		Username: "alice", Email: "alice@example.com",
	})
	require.NoError(t, err)

	updated, err := service.UpdateMe(context.Background(), created.ID,
		account.ProfileInput{Bio: pointer.To("Reviews mostly horror.")})

	require.NoError(t, err)
	assert.Equal(t, "Reviews mostly horror.", updated.Bio)
	assert.Equal(t, sec.RoleUser, updated.Role)
}

/*
TestUpdateMe_DeletedAccount verifies that a valid token for a removed
account maps to 401 rather than 404.
*/
func TestUpdateMe_DeletedAccount(t *testing.T) {
	service, _ := newTestService()

	created, err := service.CreateUser(context.Background(), account.CreateUserInput{
		Username: "alice", Email: "alice@example.com",
	})
	require.NoError(t, err)
	require.NoError(t, service.DeleteUser(context.Background(), "alice"))

	_, err = service.UpdateMe(context.Background(), created.ID,
		account.ProfileInput{Bio: pointer.To("ghost")})

	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

/*
TestDeleteUser verifies removal by username.
*/
func TestDeleteUser(t *testing.T) {
	service, repo := newTestService()

	_, err := service.CreateUser(context.Background(), account.CreateUserInput{
		Username: "alice", Email: "alice@example.com",
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteUser(context.Background(), "alice"))

	_, err = repo.GetByUsername(context.Background(), "alice")
	assert.Error(t, err)

	err = service.DeleteUser(context.Background(), "alice")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
