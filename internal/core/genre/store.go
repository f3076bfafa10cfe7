package genre

import (
	"context"

	"github.com/Groozzy/api-yamdb/pkg/pagination"
)

type Repository interface {
	List(context context.Context, search string, page pagination.Params) ([]Genre, int, error)
	GetBySlug(context context.Context, slug string) (*Genre, error)
	GetBySlugs(context context.Context, slugs []string) ([]Genre, error)
	Create(context context.Context, genre *Genre) error
	DeleteBySlug(context context.Context, slug string) error
}
