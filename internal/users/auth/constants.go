// Copyright (c) 2026 YaMDb. All rights reserved.

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// There is no refresh flow; clients re-run the code exchange when it
	// expires.
	AccessTokenTTL = 24 * time.Hour

	// ConfirmationCodeTTL is the duration an emailed confirmation code
	// remains exchangeable. Long-lived (24 hours) as users might not
	// check email immediately.
	ConfirmationCodeTTL = 24 * time.Hour

	// ConfirmationCodeLength is the character length of the emailed code.
	ConfirmationCodeLength = 8
)
