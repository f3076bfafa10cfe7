package title

import (
	"context"

	"github.com/Groozzy/api-yamdb/pkg/pagination"
)

// Filter narrows a title listing. Zero values mean "no constraint".
type Filter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         *int
}

type Repository interface {
	List(context context.Context, filter Filter, page pagination.Params) ([]*Title, int, error)
	GetByID(context context.Context, id int64) (*Title, error)
	Exists(context context.Context, id int64) (bool, error)
	Create(context context.Context, title *Title, genreIDs []int64) error
	Update(context context.Context, title *Title, genreIDs []int64, replaceGenres bool) error
	Delete(context context.Context, id int64) error
}
