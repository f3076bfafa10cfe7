package genre_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Groozzy/api-yamdb/internal/core/genre"
	"github.com/Groozzy/api-yamdb/internal/platform/apperr"
	"github.com/Groozzy/api-yamdb/internal/platform/sec"
	"github.com/Groozzy/api-yamdb/pkg/pagination"
)

// fakeRepository is an in-memory genre.Repository for service tests.
type fakeRepository struct {
	bySlug map[string]*genre.Genre
	nextID int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{bySlug: make(map[string]*genre.Genre), nextID: 1}
}

func (f *fakeRepository) List(_ context.Context, _ string, _ pagination.Params) ([]genre.Genre, int, error) {
	var result []genre.Genre
	for _, g := range f.bySlug {
		result = append(result, *g)
	}
	return result, len(result), nil
}

func (f *fakeRepository) GetBySlug(_ context.Context, slug string) (*genre.Genre, error) {
	g, ok := f.bySlug[slug]
	if !ok {
		return nil, apperr.NotFound("Genre")
	}
	copied := *g
	return &copied, nil
}

func (f *fakeRepository) GetBySlugs(_ context.Context, slugs []string) ([]genre.Genre, error) {
	var result []genre.Genre
	for _, s := range slugs {
		if g, ok := f.bySlug[s]; ok {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (f *fakeRepository) Create(_ context.Context, g *genre.Genre) error {
	if _, ok := f.bySlug[g.Slug]; ok {
		return apperr.Conflict("Genre slug is already in use")
	}
	g.ID = f.nextID
	f.nextID++
	stored := *g
	f.bySlug[g.Slug] = &stored
	return nil
}

func (f *fakeRepository) DeleteBySlug(_ context.Context, slug string) error {
	if _, ok := f.bySlug[slug]; !ok {
		return apperr.NotFound("Genre")
	}
	delete(f.bySlug, slug)
	return nil
}

func newTestService() *genre.Service {
	return genre.NewService(newFakeRepository(), slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func adminClaims() *sec.AuthClaims {
	return &sec.AuthClaims{UserID: "a-1", Username: "root", Role: string(sec.RoleAdmin)}
}

/*
TestCreateGenre_SlugDerivation verifies that an omitted slug is derived
from the name and an explicit one is kept as-is.
*/
func TestCreateGenre_SlugDerivation(t *testing.T) {
	service := newTestService()

	derived, err := service.CreateGenre(context.Background(), adminClaims(),
		genre.CreateGenreInput{Name: "Science Fiction"})
	require.NoError(t, err)
	assert.Equal(t, "science-fiction", derived.Slug)

	explicit, err := service.CreateGenre(context.Background(), adminClaims(),
		genre.CreateGenreInput{Name: "Drama", Slug: "dramatic"})
	require.NoError(t, err)
	assert.Equal(t, "dramatic", explicit.Slug)
}

/*
TestCreateGenre_Validation covers the name and slug format rules.
*/
func TestCreateGenre_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input genre.CreateGenreInput
	}{
		{"empty_name", genre.CreateGenreInput{Name: ""}},
		{"bad_slug_format", genre.CreateGenreInput{Name: "Drama", Slug: "Dra ma"}},
		{"slug_too_long", genre.CreateGenreInput{
			Name: "Drama",
			Slug: "a-very-long-slug-that-overruns-the-fifty-character-limit",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService()

			_, err := service.CreateGenre(context.Background(), adminClaims(), tt.input)

			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

/*
TestCreateGenre_NonAdmin verifies that only administrators manage the
catalog reference data.
*/
func TestCreateGenre_NonAdmin(t *testing.T) {
	service := newTestService()

	_, err := service.CreateGenre(context.Background(),
		&sec.AuthClaims{UserID: "u-1", Username: "alice", Role: string(sec.RoleUser)},
		genre.CreateGenreInput{Name: "Drama"})

	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

/*
TestDeleteGenre verifies removal, the admin gate and the 404 for an
unknown slug.
*/
func TestDeleteGenre(t *testing.T) {
	service := newTestService()

	_, err := service.CreateGenre(context.Background(), adminClaims(),
		genre.CreateGenreInput{Name: "Drama"})
	require.NoError(t, err)

	err = service.DeleteGenre(context.Background(),
		&sec.AuthClaims{UserID: "u-1", Username: "alice", Role: string(sec.RoleUser)}, "drama")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	require.NoError(t, service.DeleteGenre(context.Background(), adminClaims(), "drama"))

	err = service.DeleteGenre(context.Background(), adminClaims(), "drama")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
