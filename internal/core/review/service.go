package review

import (
	"context"
	"log/slog"

	"github.com/Groozzy/api-yamdb/internal/platform/apperr"
	"github.com/Groozzy/api-yamdb/internal/platform/sec"
	"github.com/Groozzy/api-yamdb/internal/platform/validate"
	"github.com/Groozzy/api-yamdb/pkg/pagination"
)

// TitleSource answers whether a title exists. Implemented by the title
// repository.
type TitleSource interface {
	Exists(context context.Context, id int64) (bool, error)
}

// Service orchestrates business logic for reviews.
type Service struct {
	repo   Repository
	titles TitleSource
	logger *slog.Logger
}

func NewService(repo Repository, titles TitleSource, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		titles: titles,
		logger: logger,
	}
}

func (service *Service) ListReviews(context context.Context, titleID int64, page pagination.Params) ([]*Review, int, error) {
	if err := service.requireTitle(context, titleID); err != nil {
		return nil, 0, err
	}
	return service.repo.ListByTitle(context, titleID, page)
}

func (service *Service) GetReview(context context.Context, titleID, reviewID int64) (*Review, error) {
	return service.repo.GetByID(context, titleID, reviewID)
}

// CreateReviewInput carries the fields accepted on review creation.
type CreateReviewInput struct {
	Text  string
	Score int
}

/*
CreateReview validates input and publishes a new review for a title.

Description: Each user gets one review per title. The early duplicate check
gives a clean error message; the database unique constraint is what actually
decides a concurrent race, and its violation maps to the same Conflict.

Returns:
  - *Review: The stored review with its server-assigned publication time
  - error: Authorization, validation, missing-title or duplicate failures
*/
func (service *Service) CreateReview(context context.Context, actor *sec.AuthClaims, titleID int64, input CreateReviewInput) (*Review, error) {
	if err := sec.Authorize(actor, sec.ActionCreate, sec.Resource{Kind: sec.KindReview}); err != nil {
		return nil, err
	}

	if err := validateReviewFields(input.Text, input.Score); err != nil {
		return nil, err
	}

	if err := service.requireTitle(context, titleID); err != nil {
		return nil, err
	}

	alreadyReviewed, err := service.repo.ExistsByTitleAndAuthor(context, titleID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if alreadyReviewed {
		return nil, apperr.Conflict("You have already reviewed this title")
	}

	review := &Review{
		TitleID:  titleID,
		AuthorID: actor.UserID,
		Author:   actor.Username,
		Text:     input.Text,
		Score:    input.Score,
	}

	if err := service.repo.Create(context, review); err != nil {
		return nil, err
	}

	service.logger.Info("review_created",
		slog.Int64("review_id", review.ID),
		slog.Int64("title_id", titleID),
		slog.String("author", actor.Username),
	)

	return review, nil
}

// UpdateReviewInput carries a partial update; nil fields are left unchanged.
type UpdateReviewInput struct {
	Text  *string
	Score *int
}

/*
UpdateReview applies a partial change to an existing review.

Only the author, a moderator or an admin may edit; the publication date and
authorship never change.
*/
func (service *Service) UpdateReview(context context.Context, actor *sec.AuthClaims, titleID, reviewID int64, input UpdateReviewInput) (*Review, error) {
	review, err := service.repo.GetByID(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	err = sec.Authorize(actor, sec.ActionUpdate, sec.Resource{Kind: sec.KindReview, OwnerID: review.AuthorID})
	if err != nil {
		return nil, err
	}

	if input.Text != nil {
		review.Text = *input.Text
	}
	if input.Score != nil {
		review.Score = *input.Score
	}

	if err := validateReviewFields(review.Text, review.Score); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, review); err != nil {
		return nil, err
	}

	service.logger.Info("review_updated", slog.Int64("review_id", review.ID))

	return review, nil
}

func (service *Service) DeleteReview(context context.Context, actor *sec.AuthClaims, titleID, reviewID int64) error {
	review, err := service.repo.GetByID(context, titleID, reviewID)
	if err != nil {
		return err
	}

	err = sec.Authorize(actor, sec.ActionDelete, sec.Resource{Kind: sec.KindReview, OwnerID: review.AuthorID})
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, titleID, reviewID); err != nil {
		return err
	}

	service.logger.Info("review_deleted",
		slog.Int64("review_id", reviewID),
		slog.Int64("title_id", titleID),
	)

	return nil
}

func (service *Service) requireTitle(context context.Context, titleID int64) error {
	exists, err := service.titles.Exists(context, titleID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Title")
	}
	return nil
}

func validateReviewFields(text string, score int) error {
	validator := &validate.Validator{}
	return validator.
		Required("text", text).
		Range("score", score, ScoreMin, ScoreMax).
		Err()
}
