// Copyright (c) 2026 YaMDb. All rights reserved.

package auth

import (
	"context"
	"time"

	"github.com/Groozzy/api-yamdb/internal/users/account"
)

// UserRepository is the slice of the account storage the signup flow needs.
// The account package's Postgres repository satisfies it.
type UserRepository interface {
	GetByUsername(context context.Context, username string) (*account.User, error)
	GetByEmail(context context.Context, email string) (*account.User, error)
	Create(context context.Context, user *account.User) error
}

// CodeRepository stores the bcrypt hash of the latest confirmation code
// per username. Reissuing overwrites; exchange consumes.
type CodeRepository interface {
	Set(context context.Context, username, codeHash string, ttl time.Duration) error
	Get(context context.Context, username string) (string, error)
	Delete(context context.Context, username string) error
}
