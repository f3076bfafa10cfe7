package title

import (
	"context"
	"log/slog"
	"time"

	"github.com/Groozzy/api-yamdb/internal/core/category"
	"github.com/Groozzy/api-yamdb/internal/core/genre"
	"github.com/Groozzy/api-yamdb/internal/platform/apperr"
	"github.com/Groozzy/api-yamdb/internal/platform/sec"
	"github.com/Groozzy/api-yamdb/internal/platform/validate"
	"github.com/Groozzy/api-yamdb/pkg/pagination"
)

// CategorySource resolves category slugs. Implemented by the category repository.
type CategorySource interface {
	GetBySlug(context context.Context, slug string) (*category.Category, error)
}

// GenreSource resolves genre slugs in bulk. Implemented by the genre repository.
type GenreSource interface {
	GetBySlugs(context context.Context, slugs []string) ([]genre.Genre, error)
}

// RatingSource computes average review scores. Implemented by the review
// repository; the score aggregate lives with the reviews, titles only read it.
type RatingSource interface {
	AverageScores(context context.Context, titleIDs []int64) (map[int64]*float64, error)
}

// Service orchestrates business logic for the title catalogue.
type Service struct {
	repo       Repository
	categories CategorySource
	genres     GenreSource
	ratings    RatingSource
	logger     *slog.Logger
}

func NewService(repo Repository, categories CategorySource, genres GenreSource, ratings RatingSource, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		genres:     genres,
		ratings:    ratings,
		logger:     logger,
	}
}

func (service *Service) ListTitles(context context.Context, filter Filter, page pagination.Params) ([]*Title, int, error) {
	titles, total, err := service.repo.List(context, filter, page)
	if err != nil {
		return nil, 0, err
	}

	if err := service.attachRatings(context, titles); err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

func (service *Service) GetTitle(context context.Context, id int64) (*Title, error) {
	title, err := service.repo.GetByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := service.attachRatings(context, []*Title{title}); err != nil {
		return nil, err
	}

	return title, nil
}

// CreateTitleInput carries the fields accepted on title creation.
type CreateTitleInput struct {
	Name         string
	Year         int
	Description  *string
	CategorySlug string
	GenreSlugs   []string
}

/*
CreateTitle validates input, resolves category and genre slugs and persists
a new title.

Description: The year must not be in the future; works in progress are not
part of the catalogue. Category is optional, genres may be empty.

Returns:
  - *Title: The created title with relations hydrated and a nil rating
  - error: Authorization, validation or resolution failures
*/
func (service *Service) CreateTitle(context context.Context, actor *sec.AuthClaims, input CreateTitleInput) (*Title, error) {
	if err := sec.Authorize(actor, sec.ActionCreate, sec.Resource{Kind: sec.KindTitle}); err != nil {
		return nil, err
	}

	if err := validateTitleFields(input.Name, input.Year); err != nil {
		return nil, err
	}

	resolvedCategory, err := service.resolveCategory(context, input.CategorySlug)
	if err != nil {
		return nil, err
	}

	resolvedGenres, err := service.resolveGenres(context, input.GenreSlugs)
	if err != nil {
		return nil, err
	}

	title := &Title{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		Category:    resolvedCategory,
		Genres:      resolvedGenres,
	}

	if err := service.repo.Create(context, title, genreIDs(resolvedGenres)); err != nil {
		return nil, err
	}

	service.logger.Info("title_created",
		slog.Int64("title_id", title.ID),
		slog.String("name", title.Name),
	)

	return title, nil
}

// UpdateTitleInput carries a partial update; nil fields are left unchanged.
type UpdateTitleInput struct {
	Name         *string
	Year         *int
	Description  *string
	CategorySlug *string
	GenreSlugs   *[]string
}

/*
UpdateTitle applies a partial set of changes to an existing title.

Description: Fetches the current state, overlays the provided fields,
re-validates the result and persists it. Passing GenreSlugs replaces the
full genre set; omitting it keeps the existing associations.
*/
func (service *Service) UpdateTitle(context context.Context, actor *sec.AuthClaims, id int64, input UpdateTitleInput) (*Title, error) {
	if err := sec.Authorize(actor, sec.ActionUpdate, sec.Resource{Kind: sec.KindTitle}); err != nil {
		return nil, err
	}

	title, err := service.repo.GetByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		title.Name = *input.Name
	}
	if input.Year != nil {
		title.Year = *input.Year
	}
	if input.Description != nil {
		title.Description = input.Description
	}
	if input.CategorySlug != nil {
		resolvedCategory, err := service.resolveCategory(context, *input.CategorySlug)
		if err != nil {
			return nil, err
		}
		title.Category = resolvedCategory
	}

	if err := validateTitleFields(title.Name, title.Year); err != nil {
		return nil, err
	}

	replaceGenres := input.GenreSlugs != nil
	var linkIDs []int64
	if replaceGenres {
		resolvedGenres, err := service.resolveGenres(context, *input.GenreSlugs)
		if err != nil {
			return nil, err
		}
		title.Genres = resolvedGenres
		linkIDs = genreIDs(resolvedGenres)
	}

	if err := service.repo.Update(context, title, linkIDs, replaceGenres); err != nil {
		return nil, err
	}

	if err := service.attachRatings(context, []*Title{title}); err != nil {
		return nil, err
	}

	service.logger.Info("title_updated", slog.Int64("title_id", title.ID))

	return title, nil
}

func (service *Service) DeleteTitle(context context.Context, actor *sec.AuthClaims, id int64) error {
	if err := sec.Authorize(actor, sec.ActionDelete, sec.Resource{Kind: sec.KindTitle}); err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("title_deleted", slog.Int64("title_id", id))

	return nil
}

// validateTitleFields holds the creation and update paths to the same rules.
// Only the upper bound of the year is checked; ancient works carry negative
// years.
func validateTitleFields(name string, year int) error {
	currentYear := time.Now().Year()

	validator := &validate.Validator{}
	return validator.
		Required("name", name).
		MaxLen("name", name, 256).
		Custom("year", year > currentYear, "Must not be in the future").
		Err()
}

// resolveCategory maps a slug to a stored category. An empty slug means the
// title has no category; an unknown slug is a missing referenced resource,
// so the repository's NotFound passes through.
func (service *Service) resolveCategory(context context.Context, slug string) (*category.Category, error) {
	if slug == "" {
		return nil, nil
	}

	resolved, err := service.categories.GetBySlug(context, slug)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Category")
		}
		return nil, err
	}

	return resolved, nil
}

// resolveGenres maps slugs to stored genres. Any unknown slug makes the
// whole set a missing referenced resource.
func (service *Service) resolveGenres(context context.Context, slugs []string) ([]genre.Genre, error) {
	if len(slugs) == 0 {
		return make([]genre.Genre, 0), nil
	}

	unique := dedupe(slugs)
	resolved, err := service.genres.GetBySlugs(context, unique)
	if err != nil {
		return nil, err
	}
	if len(resolved) != len(unique) {
		return nil, apperr.NotFound("Genre")
	}

	return resolved, nil
}

func (service *Service) attachRatings(context context.Context, titles []*Title) error {
	if len(titles) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(titles))
	for _, t := range titles {
		ids = append(ids, t.ID)
	}

	ratings, err := service.ratings.AverageScores(context, ids)
	if err != nil {
		return err
	}

	for _, t := range titles {
		t.Rating = ratings[t.ID]
	}

	return nil
}

func genreIDs(genres []genre.Genre) []int64 {
	ids := make([]int64, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	return ids
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
