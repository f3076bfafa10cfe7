// Copyright (c) 2026 YaMDb. All rights reserved.

/*
Package account manages user identities and profiles.

It owns the users table and exposes two surfaces: the admin-only user
administration endpoints and the self-service /users/me profile. Signup
itself lives in the auth package, which creates accounts through this
package's repository.
*/
package account

import (
	"time"

	"github.com/Groozzy/api-yamdb/internal/platform/sec"
)

// User is a registered account.
//
// The role is the single source of authorization truth: moderator and
// admin privileges are derived from it everywhere, never stored as
// separate flags.
type User struct {
	ID        string       `json:"-"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Bio       string       `json:"bio"`
	Role      sec.UserRole `json:"role"`
	CreatedAt time.Time    `json:"-"`
	UpdatedAt time.Time    `json:"-"`
}
