// Copyright (c) 2026 YaMDb. All rights reserved.

/*
Package auth implements the passwordless signup and token exchange flow.

Accounts have no passwords. Signup emails a short confirmation code; the
token endpoint exchanges username plus code for a JWT access token. The
flow is idempotent: repeating signup for the same identity issues a fresh
code that replaces the previous one.
*/
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Groozzy/api-yamdb/internal/platform/apperr"
	"github.com/Groozzy/api-yamdb/internal/platform/mail"
	"github.com/Groozzy/api-yamdb/internal/platform/sec"
	"github.com/Groozzy/api-yamdb/internal/platform/validate"
	"github.com/Groozzy/api-yamdb/internal/users/account"
)

// TokenIssuer mints signed access tokens. Implemented by [sec.TokenService].
type TokenIssuer interface {
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// # Service Layer

// Service orchestrates the signup state machine and the code-for-token
// exchange.
type Service struct {
	users  UserRepository
	codes  CodeRepository
	tokens TokenIssuer
	mailer mail.Sender
	logger *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(users UserRepository, codes CodeRepository, tokens TokenIssuer, mailer mail.Sender, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		codes:  codes,
		tokens: tokens,
		mailer: mailer,
		logger: logger,
	}
}

/*
Signup registers an account (or re-confirms an existing one) and emails a
confirmation code.

Description: The (username, email) pair must either be entirely new or
match an existing account exactly; partial matches are conflicts, since
they would let one person squat another's username or email. Repeating
signup with a matching pair simply issues a fresh code.

A mail delivery failure is logged and deliberately not surfaced. A 200
response therefore never tells a caller whether the address exists and is
reachable.

Returns:
  - error: Validation or conflict failures, storage errors
*/
func (service *Service) Signup(context context.Context, username, email string) error {
	validator := &validate.Validator{}
	err := validator.
		Required("username", username).
		Username("username", username).
		MaxLen("username", username, 150).
		Required("email", email).
		Email("email", email).
		MaxLen("email", email, 254).
		Err()
	if err != nil {
		return err
	}

	user, err := service.findOrCreateUser(context, username, email)
	if err != nil {
		return err
	}

	code, err := sec.GenerateConfirmationCode(ConfirmationCodeLength)
	if err != nil {
		return fmt.Errorf("auth_service_code_generation_failed: %w", err)
	}

	codeHash, err := sec.HashConfirmationCode(code)
	if err != nil {
		return fmt.Errorf("auth_service_code_hash_failed: %w", err)
	}

	if err := service.codes.Set(context, user.Username, codeHash, ConfirmationCodeTTL); err != nil {
		return err
	}

	if err := service.mailer.SendConfirmationCode(context, user.Email, code); err != nil {
		service.logger.Error("confirmation_mail_failed",
			slog.String("username", user.Username),
			slog.Any("error", err),
		)
	}

	service.logger.Info("signup_code_issued", slog.String("username", user.Username))

	return nil
}

/*
IssueToken exchanges a username and confirmation code for a JWT access token.

Description: An unknown username is a 404. A wrong, expired or never-issued
code is a single indistinguishable validation error; a wrong code does not
invalidate the stored one, so a typo doesn't force a new signup round.
A correct code is consumed and cannot be replayed.

Returns:
  - string: The signed access token
  - error: Lookup, validation or signing failures
*/
func (service *Service) IssueToken(context context.Context, username, code string) (string, error) {
	validator := &validate.Validator{}
	err := validator.
		Required("username", username).
		Required("confirmation_code", code).
		Err()
	if err != nil {
		return "", err
	}

	user, err := service.users.GetByUsername(context, username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", apperr.NotFound("User")
		}
		return "", err
	}

	codeHash, err := service.codes.Get(context, user.Username)
	if err != nil {
		if errors.Is(err, ErrCodeNotFound) {
			return "", validate.RequiredError("confirmation_code", "Invalid or expired confirmation code")
		}
		return "", err
	}

	if !sec.CheckConfirmationCode(code, codeHash) {
		return "", validate.RequiredError("confirmation_code", "Invalid or expired confirmation code")
	}

	if err := service.codes.Delete(context, user.Username); err != nil {
		// The token is still issued; the code just stays exchangeable
		// until its TTL runs out.
		service.logger.Error("confirmation_code_consume_failed",
			slog.String("username", user.Username),
			slog.Any("error", err),
		)
	}

	token, err := service.tokens.GenerateAccessToken(user.ID, user.Username, string(user.Role), AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_sign_failed: %w", err)
	}

	service.logger.Info("access_token_issued", slog.String("username", user.Username))

	return token, nil
}

// findOrCreateUser resolves the signup identity rules.
func (service *Service) findOrCreateUser(context context.Context, username, email string) (*account.User, error) {
	existing, err := service.users.GetByUsername(context, username)
	if err == nil {
		if existing.Email != email {
			return nil, apperr.Conflict("Username is already registered with a different email")
		}
		return existing, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, err
	}

	if _, err := service.users.GetByEmail(context, email); err == nil {
		return nil, apperr.Conflict("Email is already registered to a different user")
	} else if !apperr.IsNotFound(err) {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("auth_service_id_generation_failed: %w", err)
	}

	user := &account.User{
		ID:       id.String(),
		Username: username,
		Email:    email,
		Role:     sec.RoleUser,
	}

	// Two racing signups for the same identity: the unique constraints
	// decide, and the loser surfaces the same Conflict as the precondition.
	if err := service.users.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}
