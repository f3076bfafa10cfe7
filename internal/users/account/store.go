// Copyright (c) 2026 YaMDb. All rights reserved.

package account

import (
	"context"

	"github.com/Groozzy/api-yamdb/pkg/pagination"
)

type Repository interface {
	List(context context.Context, search string, page pagination.Params) ([]*User, int, error)
	GetByID(context context.Context, id string) (*User, error)
	GetByUsername(context context.Context, username string) (*User, error)
	GetByEmail(context context.Context, email string) (*User, error)
	Create(context context.Context, user *User) error
	Update(context context.Context, user *User) error
	DeleteByUsername(context context.Context, username string) error
}
