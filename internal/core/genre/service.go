package genre

import (
	"context"
	"log/slog"

	"github.com/Groozzy/api-yamdb/internal/platform/sec"
	"github.com/Groozzy/api-yamdb/internal/platform/validate"
	"github.com/Groozzy/api-yamdb/pkg/pagination"
	"github.com/Groozzy/api-yamdb/pkg/slug"
)

// Service orchestrates business logic for the genre reference data.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListGenres(context context.Context, search string, page pagination.Params) ([]Genre, int, error) {
	return service.repo.List(context, search, page)
}

func (service *Service) GetGenre(context context.Context, slug string) (*Genre, error) {
	return service.repo.GetBySlug(context, slug)
}

// CreateGenreInput carries the fields accepted on genre creation.
// Slug is optional: when empty it is derived from the name.
type CreateGenreInput struct {
	Name string
	Slug string
}

func (service *Service) CreateGenre(context context.Context, actor *sec.AuthClaims, input CreateGenreInput) (*Genre, error) {
	if err := sec.Authorize(actor, sec.ActionCreate, sec.Resource{Kind: sec.KindGenre}); err != nil {
		return nil, err
	}

	if input.Slug == "" {
		input.Slug = slug.From(input.Name)
	}

	validator := &validate.Validator{}
	err := validator.
		Required("name", input.Name).
		MaxLen("name", input.Name, 256).
		Slug("slug", input.Slug).
		MaxLen("slug", input.Slug, 50).
		Err()
	if err != nil {
		return nil, err
	}

	genre := &Genre{Name: input.Name, Slug: input.Slug}
	if err := service.repo.Create(context, genre); err != nil {
		return nil, err
	}

	service.logger.Info("genre_created", slog.String("slug", genre.Slug))

	return genre, nil
}

func (service *Service) DeleteGenre(context context.Context, actor *sec.AuthClaims, slug string) error {
	if err := sec.Authorize(actor, sec.ActionDelete, sec.Resource{Kind: sec.KindGenre}); err != nil {
		return err
	}

	if err := service.repo.DeleteBySlug(context, slug); err != nil {
		return err
	}

	service.logger.Info("genre_deleted", slog.String("slug", slug))

	return nil
}
