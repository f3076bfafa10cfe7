package category

import (
	"context"

	"github.com/Groozzy/api-yamdb/pkg/pagination"
)

type Repository interface {
	List(context context.Context, search string, page pagination.Params) ([]Category, int, error)
	GetBySlug(context context.Context, slug string) (*Category, error)
	Create(context context.Context, category *Category) error
	DeleteBySlug(context context.Context, slug string) error
}
