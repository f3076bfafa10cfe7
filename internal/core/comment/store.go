package comment

import (
	"context"

	"github.com/Groozzy/api-yamdb/pkg/pagination"
)

type Repository interface {
	ListByReview(context context.Context, reviewID int64, page pagination.Params) ([]*Comment, int, error)
	GetByID(context context.Context, reviewID, commentID int64) (*Comment, error)
	Create(context context.Context, comment *Comment) error
	Update(context context.Context, comment *Comment) error
	Delete(context context.Context, reviewID, commentID int64) error
}
