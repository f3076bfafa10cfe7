package category_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Groozzy/api-yamdb/internal/core/category"
	"github.com/Groozzy/api-yamdb/internal/platform/apperr"
	"github.com/Groozzy/api-yamdb/internal/platform/sec"
	"github.com/Groozzy/api-yamdb/pkg/pagination"
)

// fakeRepository is an in-memory category.Repository for service tests.
type fakeRepository struct {
	bySlug map[string]*category.Category
	nextID int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{bySlug: make(map[string]*category.Category), nextID: 1}
}

func (f *fakeRepository) List(_ context.Context, _ string, _ pagination.Params) ([]category.Category, int, error) {
	var result []category.Category
	for _, c := range f.bySlug {
		result = append(result, *c)
	}
	return result, len(result), nil
}

func (f *fakeRepository) GetBySlug(_ context.Context, slug string) (*category.Category, error) {
	c, ok := f.bySlug[slug]
	if !ok {
		return nil, apperr.NotFound("Category")
	}
	copied := *c
	return &copied, nil
}

func (f *fakeRepository) Create(_ context.Context, c *category.Category) error {
	if _, ok := f.bySlug[c.Slug]; ok {
		return apperr.Conflict("Category slug is already in use")
	}
	c.ID = f.nextID
	f.nextID++
	stored := *c
	f.bySlug[c.Slug] = &stored
	return nil
}

func (f *fakeRepository) DeleteBySlug(_ context.Context, slug string) error {
	if _, ok := f.bySlug[slug]; !ok {
		return apperr.NotFound("Category")
	}
	delete(f.bySlug, slug)
	return nil
}

func newTestService() *category.Service {
	return category.NewService(newFakeRepository(), slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func adminClaims() *sec.AuthClaims {
	return &sec.AuthClaims{UserID: "a-1", Username: "root", Role: string(sec.RoleAdmin)}
}

/*
TestCreateCategory_SlugDerivation verifies that an omitted slug is derived
from the name and an explicit one is kept as-is.
*/
func TestCreateCategory_SlugDerivation(t *testing.T) {
	service := newTestService()

	derived, err := service.CreateCategory(context.Background(), adminClaims(),
		category.CreateCategoryInput{Name: "Science Fiction"})
	require.NoError(t, err)
	assert.Equal(t, "science-fiction", derived.Slug)

	explicit, err := service.CreateCategory(context.Background(), adminClaims(),
		category.CreateCategoryInput{Name: "Movies", Slug: "films"})
	require.NoError(t, err)
	assert.Equal(t, "films", explicit.Slug)
}

/*
TestCreateCategory_Validation covers the name and slug format rules.
*/
func TestCreateCategory_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input category.CreateCategoryInput
	}{
		{"empty_name", category.CreateCategoryInput{Name: ""}},
		{"bad_slug_format", category.CreateCategoryInput{Name: "Movies", Slug: "Mo vies"}},
		{"slug_too_long", category.CreateCategoryInput{
			Name: "Movies",
			Slug: "a-very-long-slug-that-overruns-the-fifty-character-limit",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService()

			_, err := service.CreateCategory(context.Background(), adminClaims(), tt.input)

			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

/*
TestCreateCategory_NonAdmin verifies that only administrators manage the
catalog reference data.
*/
func TestCreateCategory_NonAdmin(t *testing.T) {
	service := newTestService()

	_, err := service.CreateCategory(context.Background(),
		&sec.AuthClaims{UserID: "u-1", Username: "alice", Role: string(sec.RoleUser)},
		category.CreateCategoryInput{Name: "Movies"})

	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

/*
TestDeleteCategory verifies removal and the duplicate-slug conflict on
re-creation afterwards being gone.
*/
func TestDeleteCategory(t *testing.T) {
	service := newTestService()

	_, err := service.CreateCategory(context.Background(), adminClaims(),
		category.CreateCategoryInput{Name: "Movies"})
	require.NoError(t, err)

	_, err = service.CreateCategory(context.Background(), adminClaims(),
		category.CreateCategoryInput{Name: "Movies"})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	require.NoError(t, service.DeleteCategory(context.Background(), adminClaims(), "movies"))

	_, err = service.CreateCategory(context.Background(), adminClaims(),
		category.CreateCategoryInput{Name: "Movies"})
	assert.NoError(t, err)
}
