package review

import (
	"context"

	"github.com/Groozzy/api-yamdb/pkg/pagination"
)

type Repository interface {
	ListByTitle(context context.Context, titleID int64, page pagination.Params) ([]*Review, int, error)
	GetByID(context context.Context, titleID, reviewID int64) (*Review, error)
	Exists(context context.Context, titleID, reviewID int64) (bool, error)
	ExistsByTitleAndAuthor(context context.Context, titleID int64, authorID string) (bool, error)
	Create(context context.Context, review *Review) error
	Update(context context.Context, review *Review) error
	Delete(context context.Context, titleID, reviewID int64) error

	// AverageScores returns the mean score per title, rounded to one
	// decimal. Titles with no reviews are absent from the map.
	AverageScores(context context.Context, titleIDs []int64) (map[int64]*float64, error)
}
