/*
Package review (Postgres) implements the storage layer for title reviews.

The author's username is joined from the users table on every read so the
API never exposes raw user IDs. The (title, author) uniqueness lives in the
database; Create surfaces it as a Conflict.
*/
package review

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Groozzy/api-yamdb/internal/platform/database/schema"
	"github.com/Groozzy/api-yamdb/internal/platform/dberr"
	"github.com/Groozzy/api-yamdb/pkg/pagination"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
ListByTitle returns a page of reviews for a title in publication order
(oldest first).

Returns:
  - []*Review: The requested page
  - int: The total number of reviews for the title
  - error: Query or scan failures
*/
func (repository *PostgresRepository) ListByTitle(context context.Context, titleID int64, page pagination.Params) ([]*Review, int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.Review.Table, schema.Review.TitleID)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, titleID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}

	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, u.%s, r.%s, r.%s, r.%s
		FROM %s r
		JOIN %s u ON u.%s = r.%s
		WHERE r.%s = $1
		ORDER BY r.%s ASC, r.%s ASC
		LIMIT $2 OFFSET $3`,
		schema.Review.ID, schema.Review.TitleID, schema.Review.AuthorID, schema.User.Username,
		schema.Review.Text, schema.Review.Score, schema.Review.PubDate,
		schema.Review.Table,
		schema.User.Table, schema.User.ID, schema.Review.AuthorID,
		schema.Review.TitleID,
		schema.Review.PubDate, schema.Review.ID,
	)

	rows, err := repository.pool.Query(context, query, titleID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}
	defer rows.Close()

	reviews := make([]*Review, 0)
	for rows.Next() {
		r := &Review{}
		if err := rows.Scan(&r.ID, &r.TitleID, &r.AuthorID, &r.Author, &r.Text, &r.Score, &r.PubDate); err != nil {
			return nil, 0, dberr.Wrap(err, "")
		}
		reviews = append(reviews, r)
	}

	return reviews, total, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, titleID, reviewID int64) (*Review, error) {
	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, u.%s, r.%s, r.%s, r.%s
		FROM %s r
		JOIN %s u ON u.%s = r.%s
		WHERE r.%s = $1 AND r.%s = $2`,
		schema.Review.ID, schema.Review.TitleID, schema.Review.AuthorID, schema.User.Username,
		schema.Review.Text, schema.Review.Score, schema.Review.PubDate,
		schema.Review.Table,
		schema.User.Table, schema.User.ID, schema.Review.AuthorID,
		schema.Review.ID, schema.Review.TitleID,
	)

	r := &Review{}
	err := repository.pool.QueryRow(context, query, reviewID, titleID).Scan(
		&r.ID, &r.TitleID, &r.AuthorID, &r.Author, &r.Text, &r.Score, &r.PubDate,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}

	return r, nil
}

func (repository *PostgresRepository) Exists(context context.Context, titleID, reviewID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.Review.Table, schema.Review.ID, schema.Review.TitleID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, reviewID, titleID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "")
	}

	return exists, nil
}

func (repository *PostgresRepository) ExistsByTitleAndAuthor(context context.Context, titleID int64, authorID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.Review.Table, schema.Review.TitleID, schema.Review.AuthorID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, titleID, authorID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "")
	}

	return exists, nil
}

func (repository *PostgresRepository) Create(context context.Context, review *Review) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s`,
		schema.Review.Table,
		schema.Review.TitleID, schema.Review.AuthorID, schema.Review.Text, schema.Review.Score,
		schema.Review.ID, schema.Review.PubDate,
	)

	err := repository.pool.QueryRow(context, query,
		review.TitleID, review.AuthorID, review.Text, review.Score,
	).Scan(&review.ID, &review.PubDate)
	if err != nil {
		return dberr.Wrap(err, "You have already reviewed this title")
	}

	return nil
}

// Update rewrites the mutable fields only. Author, title and pub_date are
// fixed at creation.
func (repository *PostgresRepository) Update(context context.Context, review *Review) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.Review.Table, schema.Review.Text, schema.Review.Score, schema.Review.ID)

	tag, err := repository.pool.Exec(context, query, review.ID, review.Text, review.Score)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// Delete removes a review and its comments (FK cascade).
func (repository *PostgresRepository) Delete(context context.Context, titleID, reviewID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.Review.Table, schema.Review.ID, schema.Review.TitleID)

	tag, err := repository.pool.Exec(context, query, reviewID, titleID)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

/*
AverageScores computes the mean score per title in one grouped query,
rounded to one decimal place.

Titles without reviews produce no row and are simply absent from the
result, which callers surface as a null rating.
*/
func (repository *PostgresRepository) AverageScores(context context.Context, titleIDs []int64) (map[int64]*float64, error) {
	scores := make(map[int64]*float64, len(titleIDs))
	if len(titleIDs) == 0 {
		return scores, nil
	}

	query := fmt.Sprintf(`
		SELECT %s, ROUND(AVG(%s)::numeric, 1)::float8
		FROM %s
		WHERE %s = ANY($1)
		GROUP BY %s`,
		schema.Review.TitleID, schema.Review.Score,
		schema.Review.Table,
		schema.Review.TitleID,
		schema.Review.TitleID,
	)

	rows, err := repository.pool.Query(context, query, titleIDs)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}
	defer rows.Close()

	for rows.Next() {
		var titleID int64
		var average float64
		if err := rows.Scan(&titleID, &average); err != nil {
			return nil, dberr.Wrap(err, "")
		}
		value := average
		scores[titleID] = &value
	}

	return scores, nil
}
