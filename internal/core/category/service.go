package category

import (
	"context"
	"log/slog"

	"github.com/Groozzy/api-yamdb/internal/platform/sec"
	"github.com/Groozzy/api-yamdb/internal/platform/validate"
	"github.com/Groozzy/api-yamdb/pkg/pagination"
	"github.com/Groozzy/api-yamdb/pkg/slug"
)

// Service orchestrates business logic for the category reference data.
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

func (service *Service) ListCategories(context context.Context, search string, page pagination.Params) ([]Category, int, error) {
	return service.repo.List(context, search, page)
}

func (service *Service) GetCategory(context context.Context, slug string) (*Category, error) {
	return service.repo.GetBySlug(context, slug)
}

// CreateCategoryInput carries the fields accepted on category creation.
// Slug is optional: when empty it is derived from the name.
type CreateCategoryInput struct {
	Name string
	Slug string
}

/*
CreateCategory validates input and persists a new category.

Description: Writes are reserved for administrators; the policy decision is
made here against the actor's claims, independently of the route guards.

Returns:
  - *Category: The created category with its slug resolved
  - error: Authorization, validation or uniqueness failures
*/
func (service *Service) CreateCategory(context context.Context, actor *sec.AuthClaims, input CreateCategoryInput) (*Category, error) {
	if err := sec.Authorize(actor, sec.ActionCreate, sec.Resource{Kind: sec.KindCategory}); err != nil {
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

	category := &Category{Name: input.Name, Slug: input.Slug}
	if err := service.repo.Create(context, category); err != nil {
		return nil, err
	}

	service.logger.Info("category_created", slog.String("slug", category.Slug))

	return category, nil
}

/*
DeleteCategory removes a category by slug.

Titles that referenced the category survive with no category attached.
*/
func (service *Service) DeleteCategory(context context.Context, actor *sec.AuthClaims, slug string) error {
	if err := sec.Authorize(actor, sec.ActionDelete, sec.Resource{Kind: sec.KindCategory}); err != nil {
		return err
	}

	if err := service.repo.DeleteBySlug(context, slug); err != nil {
		return err
	}

	service.logger.Info("category_deleted", slog.String("slug", slug))

	return nil
}
