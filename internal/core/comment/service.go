package comment

import (
	"context"
	"log/slog"

	"github.com/Groozzy/api-yamdb/internal/platform/apperr"
	"github.com/Groozzy/api-yamdb/internal/platform/sec"
	"github.com/Groozzy/api-yamdb/internal/platform/validate"
	"github.com/Groozzy/api-yamdb/pkg/pagination"
)

// ReviewSource answers whether a review exists under a given title.
// Implemented by the review repository.
type ReviewSource interface {
	Exists(context context.Context, titleID, reviewID int64) (bool, error)
}

// Service orchestrates business logic for review comments.
type Service struct {
	repo    Repository
	reviews ReviewSource
	logger  *slog.Logger
}

func NewService(repo Repository, reviews ReviewSource, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		reviews: reviews,
		logger:  logger,
	}
}

func (service *Service) ListComments(context context.Context, titleID, reviewID int64, page pagination.Params) ([]*Comment, int, error) {
	if err := service.requireReview(context, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return service.repo.ListByReview(context, reviewID, page)
}

func (service *Service) GetComment(context context.Context, titleID, reviewID, commentID int64) (*Comment, error) {
	if err := service.requireReview(context, titleID, reviewID); err != nil {
		return nil, err
	}
	return service.repo.GetByID(context, reviewID, commentID)
}

/*
CreateComment validates input and attaches a new comment to a review.

The review must exist under the addressed title; commenting on a review
through the wrong title path is a 404, not a silent re-parenting.
*/
func (service *Service) CreateComment(context context.Context, actor *sec.AuthClaims, titleID, reviewID int64, text string) (*Comment, error) {
	if err := sec.Authorize(actor, sec.ActionCreate, sec.Resource{Kind: sec.KindComment}); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if err := validator.Required("text", text).Err(); err != nil {
		return nil, err
	}

	if err := service.requireReview(context, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &Comment{
		ReviewID: reviewID,
		AuthorID: actor.UserID,
		Author:   actor.Username,
		Text:     text,
	}

	if err := service.repo.Create(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("review_id", reviewID),
		slog.String("author", actor.Username),
	)

	return comment, nil
}

func (service *Service) UpdateComment(context context.Context, actor *sec.AuthClaims, titleID, reviewID, commentID int64, text string) (*Comment, error) {
	if err := service.requireReview(context, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := service.repo.GetByID(context, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	err = sec.Authorize(actor, sec.ActionUpdate, sec.Resource{Kind: sec.KindComment, OwnerID: comment.AuthorID})
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if err := validator.Required("text", text).Err(); err != nil {
		return nil, err
	}

	comment.Text = text
	if err := service.repo.Update(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_updated", slog.Int64("comment_id", comment.ID))

	return comment, nil
}

func (service *Service) DeleteComment(context context.Context, actor *sec.AuthClaims, titleID, reviewID, commentID int64) error {
	if err := service.requireReview(context, titleID, reviewID); err != nil {
		return err
	}

	comment, err := service.repo.GetByID(context, reviewID, commentID)
	if err != nil {
		return err
	}

	err = sec.Authorize(actor, sec.ActionDelete, sec.Resource{Kind: sec.KindComment, OwnerID: comment.AuthorID})
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, reviewID, commentID); err != nil {
		return err
	}

	service.logger.Info("comment_deleted",
		slog.Int64("comment_id", commentID),
		slog.Int64("review_id", reviewID),
	)

	return nil
}

func (service *Service) requireReview(context context.Context, titleID, reviewID int64) error {
	exists, err := service.reviews.Exists(context, titleID, reviewID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Review")
	}
	return nil
}
