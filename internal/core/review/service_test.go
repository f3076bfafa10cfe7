package review_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Groozzy/api-yamdb/internal/core/review"
	"github.com/Groozzy/api-yamdb/internal/platform/apperr"
	"github.com/Groozzy/api-yamdb/internal/platform/sec"
	"github.com/Groozzy/api-yamdb/pkg/pagination"
	"github.com/Groozzy/api-yamdb/pkg/pointer"
)

// fakeRepository is an in-memory review.Repository for service tests.
type fakeRepository struct {
	reviews map[int64]*review.Review
	nextID  int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{reviews: make(map[int64]*review.Review), nextID: 1}
}

func (f *fakeRepository) ListByTitle(_ context.Context, titleID int64, _ pagination.Params) ([]*review.Review, int, error) {
	var result []*review.Review
	for _, r := range f.reviews {
		if r.TitleID == titleID {
			result = append(result, r)
		}
	}
	return result, len(result), nil
}

func (f *fakeRepository) GetByID(_ context.Context, titleID, reviewID int64) (*review.Review, error) {
	r, ok := f.reviews[reviewID]
	if !ok || r.TitleID != titleID {
		return nil, apperr.NotFound("Review")
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRepository) Exists(_ context.Context, titleID, reviewID int64) (bool, error) {
	r, ok := f.reviews[reviewID]
	return ok && r.TitleID == titleID, nil
}

func (f *fakeRepository) ExistsByTitleAndAuthor(_ context.Context, titleID int64, authorID string) (bool, error) {
	for _, r := range f.reviews {
		if r.TitleID == titleID && r.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) Create(_ context.Context, r *review.Review) error {
	r.ID = f.nextID
	r.PubDate = time.Now()
	f.nextID++
	stored := *r
	f.reviews[r.ID] = &stored
	return nil
}

func (f *fakeRepository) Update(_ context.Context, r *review.Review) error {
	stored, ok := f.reviews[r.ID]
	if !ok {
		return apperr.NotFound("Review")
	}
	stored.Text = r.Text
	stored.Score = r.Score
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, titleID, reviewID int64) error {
	r, ok := f.reviews[reviewID]
	if !ok || r.TitleID != titleID {
		return apperr.NotFound("Review")
	}
	delete(f.reviews, reviewID)
	return nil
}

func (f *fakeRepository) AverageScores(_ context.Context, titleIDs []int64) (map[int64]*float64, error) {
	return map[int64]*float64{}, nil
}

// fakeTitleSource reports existence for a fixed set of title IDs.
type fakeTitleSource struct {
	known map[int64]bool
}

func (f *fakeTitleSource) Exists(_ context.Context, id int64) (bool, error) {
	return f.known[id], nil
}

func newTestService(repo *fakeRepository, knownTitles ...int64) *review.Service {
	titles := &fakeTitleSource{known: make(map[int64]bool)}
	for _, id := range knownTitles {
		titles.known[id] = true
	}
	return review.NewService(repo, titles, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func userClaims(id, username string) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: id, Username: username, Role: string(sec.RoleUser)}
}

/*
TestCreateReview verifies the happy path: the review is stored with the
actor's identity and a server-assigned publication time.
*/
func TestCreateReview(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo, 1)

	created, err := service.CreateReview(context.Background(), userClaims("u-1", "alice"), 1,
		review.CreateReviewInput{Text: "Loved it", Score: 9})

	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "u-1", created.AuthorID)
	assert.Equal(t, "alice", created.Author)
	assert.False(t, created.PubDate.IsZero())
}

/*
TestCreateReview_Duplicate verifies the one-review-per-title rule.
*/
func TestCreateReview_Duplicate(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo, 1)
	actor := userClaims("u-1", "alice")

	_, err := service.CreateReview(context.Background(), actor, 1,
		review.CreateReviewInput{Text: "First take", Score: 7})
	require.NoError(t, err)

	_, err = service.CreateReview(context.Background(), actor, 1,
		review.CreateReviewInput{Text: "Second take", Score: 8})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

/*
TestCreateReview_SecondTitleAllowed verifies the rule is scoped per title,
not per author globally.
*/
func TestCreateReview_SecondTitleAllowed(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo, 1, 2)
	actor := userClaims("u-1", "alice")

	_, err := service.CreateReview(context.Background(), actor, 1,
		review.CreateReviewInput{Text: "Title one", Score: 7})
	require.NoError(t, err)

	_, err = service.CreateReview(context.Background(), actor, 2,
		review.CreateReviewInput{Text: "Title two", Score: 8})
	assert.NoError(t, err)
}

/*
TestCreateReview_Validation covers score bounds and the required text.
*/
func TestCreateReview_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input review.CreateReviewInput
	}{
		{"score_too_low", review.CreateReviewInput{Text: "meh", Score: 0}},
		{"score_too_high", review.CreateReviewInput{Text: "wow", Score: 11}},
		{"empty_text", review.CreateReviewInput{Text: "", Score: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(newFakeRepository(), 1)

			_, err := service.CreateReview(context.Background(), userClaims("u-1", "alice"), 1, tt.input)

			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

/*
TestCreateReview_UnknownTitle verifies a 404 for reviews aimed at a title
that does not exist.
*/
func TestCreateReview_UnknownTitle(t *testing.T) {
	service := newTestService(newFakeRepository())

	_, err := service.CreateReview(context.Background(), userClaims("u-1", "alice"), 42,
		review.CreateReviewInput{Text: "ghost", Score: 5})

	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestCreateReview_Anonymous verifies that unauthenticated callers are
rejected before any storage access.
*/
func TestCreateReview_Anonymous(t *testing.T) {
	service := newTestService(newFakeRepository(), 1)

	_, err := service.CreateReview(context.Background(), nil, 1,
		review.CreateReviewInput{Text: "drive-by", Score: 5})

	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

/*
TestUpdateReview_Ownership covers who may edit an existing review.
*/
func TestUpdateReview_Ownership(t *testing.T) {
	tests := []struct {
		name     string
		actor    *sec.AuthClaims
		wantCode string
	}{
		{"author", userClaims("u-1", "alice"), ""},
		{"stranger", userClaims("u-2", "bob"), "FORBIDDEN"},
		{"moderator", &sec.AuthClaims{UserID: "m-1", Username: "mod", Role: string(sec.RoleModerator)}, ""},
		{"admin", &sec.AuthClaims{UserID: "a-1", Username: "root", Role: string(sec.RoleAdmin)}, ""},
		{"anonymous", nil, "UNAUTHORIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepository()
			service := newTestService(repo, 1)

			created, err := service.CreateReview(context.Background(), userClaims("u-1", "alice"), 1,
				review.CreateReviewInput{Text: "original", Score: 5})
			require.NoError(t, err)

			updated, err := service.UpdateReview(context.Background(), tt.actor, 1, created.ID,
				review.UpdateReviewInput{Text: pointer.To("revised")})

			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, apperr.As(err).Code)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "revised", updated.Text)
		})
	}
}

/*
TestUpdateReview_PreservesIdentity verifies that edits never move the
review to another author or change its publication time.
*/
func TestUpdateReview_PreservesIdentity(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo, 1)

	created, err := service.CreateReview(context.Background(), userClaims("u-1", "alice"), 1,
		review.CreateReviewInput{Text: "original", Score: 5})
	require.NoError(t, err)

	updated, err := service.UpdateReview(context.Background(),
		&sec.AuthClaims{UserID: "m-1", Username: "mod", Role: string(sec.RoleModerator)},
		1, created.ID, review.UpdateReviewInput{Score: pointer.To(9)})

	require.NoError(t, err)
	assert.Equal(t, "u-1", updated.AuthorID)
	assert.Equal(t, created.PubDate, updated.PubDate)
	assert.Equal(t, 9, updated.Score)
	assert.Equal(t, "original", updated.Text)
}

/*
TestDeleteReview verifies deletion by a moderator and the 404 for a
review addressed under the wrong title.
*/
func TestDeleteReview(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo, 1, 2)

	created, err := service.CreateReview(context.Background(), userClaims("u-1", "alice"), 1,
		review.CreateReviewInput{Text: "to be removed", Score: 3})
	require.NoError(t, err)

	// Wrong title in the path: the review must not be reachable.
	err = service.DeleteReview(context.Background(),
		&sec.AuthClaims{UserID: "m-1", Username: "mod", Role: string(sec.RoleModerator)}, 2, created.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	err = service.DeleteReview(context.Background(),
		&sec.AuthClaims{UserID: "m-1", Username: "mod", Role: string(sec.RoleModerator)}, 1, created.ID)
	require.NoError(t, err)

	_, err = service.GetReview(context.Background(), 1, created.ID)
	assert.Error(t, err)
}
