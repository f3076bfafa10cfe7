// Copyright (c) 2026 YaMDb. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Groozzy/api-yamdb/internal/platform/sec"
)

/*
TestUserRole_Derivation verifies that privileges follow purely from the
role value: admins act as moderators without any extra flag.
*/
func TestUserRole_Derivation(t *testing.T) {
	tests := []struct {
		name        string
		role        sec.UserRole
		isModerator bool
		isAdmin     bool
	}{
		{"regular_user", sec.RoleUser, false, false},
		{"moderator", sec.RoleModerator, true, false},
		{"admin_implies_moderator", sec.RoleAdmin, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isModerator, tt.role.IsModerator())
			assert.Equal(t, tt.isAdmin, tt.role.IsAdmin())
		})
	}
}

/*
TestUserRole_AtLeast verifies the role ordering used by route guards.
*/
func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleUser))
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleModerator))
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleAdmin))

	assert.True(t, sec.RoleModerator.AtLeast(sec.RoleUser))
	assert.False(t, sec.RoleModerator.AtLeast(sec.RoleAdmin))

	assert.False(t, sec.RoleUser.AtLeast(sec.RoleModerator))
	assert.False(t, sec.RoleUser.AtLeast(sec.RoleAdmin))
}

/*
TestUserRole_IsValid verifies that only the three known roles are accepted.
*/
func TestUserRole_IsValid(t *testing.T) {
	assert.True(t, sec.RoleUser.IsValid())
	assert.True(t, sec.RoleModerator.IsValid())
	assert.True(t, sec.RoleAdmin.IsValid())

	assert.False(t, sec.UserRole("superuser").IsValid())
	assert.False(t, sec.UserRole("").IsValid())
}
