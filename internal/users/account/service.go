// Copyright (c) 2026 YaMDb. All rights reserved.

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Groozzy/api-yamdb/internal/platform/apperr"
	"github.com/Groozzy/api-yamdb/internal/platform/sec"
	"github.com/Groozzy/api-yamdb/internal/platform/validate"
	"github.com/Groozzy/api-yamdb/pkg/pagination"
)

// # Service Layer

// Service orchestrates business logic for user administration and profiles.
//
// Route guards keep the admin endpoints admin-only; this layer enforces the
// field-level rules, notably that nobody edits their own role.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # User Administration

func (service *Service) ListUsers(context context.Context, search string, page pagination.Params) ([]*User, int, error) {
	return service.repo.List(context, search, page)
}

func (service *Service) GetUser(context context.Context, username string) (*User, error) {
	return service.repo.GetByUsername(context, username)
}

// CreateUserInput carries the fields an administrator sets on user creation.
// An empty role defaults to the regular user role.
type CreateUserInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      string
}

/*
CreateUser provisions an account on behalf of an administrator.

Description: Validates identity fields, assigns a time-ordered UUID and
persists the account. Duplicate usernames and emails surface as Conflict
through the unique constraints.

Returns:
  - *User: The created account
  - error: Validation, uniqueness or storage failures
*/
func (service *Service) CreateUser(context context.Context, input CreateUserInput) (*User, error) {
	if input.Role == "" {
		input.Role = string(sec.RoleUser)
	}

	validator := &validate.Validator{}
	err := validator.
		Required("username", input.Username).
		Username("username", input.Username).
		MaxLen("username", input.Username, 150).
		Required("email", input.Email).
		Email("email", input.Email).
		MaxLen("email", input.Email, 254).
		MaxLen("first_name", input.FirstName, 150).
		MaxLen("last_name", input.LastName, 150).
		OneOf("role", input.Role, string(sec.RoleUser), string(sec.RoleModerator), string(sec.RoleAdmin)).
		Err()
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("account_service_id_generation_failed: %w", err)
	}

	user := &User{
		ID:        id.String(),
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      sec.UserRole(input.Role),
	}

	if err := service.repo.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_created",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

// UpdateUserInput carries a partial admin-side update; nil fields are left
// unchanged.
type UpdateUserInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

/*
UpdateUser applies a partial set of changes to an account, including role
promotion and demotion.
*/
func (service *Service) UpdateUser(context context.Context, username string, input UpdateUserInput) (*User, error) {
	user, err := service.repo.GetByUsername(context, username)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Role != nil {
		user.Role = sec.UserRole(*input.Role)
	}

	validator := &validate.Validator{}
	err = validator.
		Required("email", user.Email).
		Email("email", user.Email).
		MaxLen("first_name", user.FirstName, 150).
		MaxLen("last_name", user.LastName, 150).
		OneOf("role", string(user.Role), string(sec.RoleUser), string(sec.RoleModerator), string(sec.RoleAdmin)).
		Err()
	if err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_updated",
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

/*
DeleteUser removes an account. The user's reviews and comments disappear
with it; titles they reviewed keep their remaining reviews and recompute
their rating naturally on the next read.
*/
func (service *Service) DeleteUser(context context.Context, username string) error {
	if err := service.repo.DeleteByUsername(context, username); err != nil {
		return err
	}

	service.logger.Warn("user_deleted", slog.String("username", username))

	return nil
}

// # Self-Service Profile

func (service *Service) GetMe(context context.Context, userID string) (*User, error) {
	return service.repo.GetByID(context, userID)
}

// ProfileInput carries the fields a user may edit on their own account.
// The role is deliberately absent; only administrators assign roles.
type ProfileInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
}

/*
UpdateMe applies a partial profile update for the authenticated user.
*/
func (service *Service) UpdateMe(context context.Context, userID string, input ProfileInput) (*User, error) {
	user, err := service.repo.GetByID(context, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			// A valid token for a since-deleted account.
			return nil, apperr.Unauthorized("Account no longer exists")
		}
		return nil, err
	}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}

	validator := &validate.Validator{}
	err = validator.
		Required("email", user.Email).
		Email("email", user.Email).
		MaxLen("first_name", user.FirstName, 150).
		MaxLen("last_name", user.LastName, 150).
		Err()
	if err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return user, nil
}
