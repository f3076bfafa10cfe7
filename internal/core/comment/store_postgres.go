package comment

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

func (repository *PostgresRepository) ListByReview(context context.Context, reviewID int64, page pagination.Params) ([]*Comment, int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.Comment.Table, schema.Comment.ReviewID)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, reviewID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}

	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, u.%s, c.%s, c.%s
		FROM %s c
		JOIN %s u ON u.%s = c.%s
		WHERE c.%s = $1
		ORDER BY c.%s ASC, c.%s ASC
		LIMIT $2 OFFSET $3`,
		schema.Comment.ID, schema.Comment.ReviewID, schema.Comment.AuthorID, schema.User.Username,
		schema.Comment.Text, schema.Comment.PubDate,
		schema.Comment.Table,
		schema.User.Table, schema.User.ID, schema.Comment.AuthorID,
		schema.Comment.ReviewID,
		schema.Comment.PubDate, schema.Comment.ID,
	)

	rows, err := repository.pool.Query(context, query, reviewID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	for rows.Next() {
		c := &Comment{}
		if err := rows.Scan(&c.ID, &c.ReviewID, &c.AuthorID, &c.Author, &c.Text, &c.PubDate); err != nil {
			return nil, 0, dberr.Wrap(err, "")
		}
		comments = append(comments, c)
	}

	return comments, total, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, reviewID, commentID int64) (*Comment, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, u.%s, c.%s, c.%s
		FROM %s c
		JOIN %s u ON u.%s = c.%s
		WHERE c.%s = $1 AND c.%s = $2`,
		schema.Comment.ID, schema.Comment.ReviewID, schema.Comment.AuthorID, schema.User.Username,
		schema.Comment.Text, schema.Comment.PubDate,
		schema.Comment.Table,
		schema.User.Table, schema.User.ID, schema.Comment.AuthorID,
		schema.Comment.ID, schema.Comment.ReviewID,
	)

	c := &Comment{}
	err := repository.pool.QueryRow(context, query, commentID, reviewID).Scan(
		&c.ID, &c.ReviewID, &c.AuthorID, &c.Author, &c.Text, &c.PubDate,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}

	return c, nil
}

func (repository *PostgresRepository) Create(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s, %s`,
		schema.Comment.Table,
		schema.Comment.ReviewID, schema.Comment.AuthorID, schema.Comment.Text,
		schema.Comment.ID, schema.Comment.PubDate,
	)

	err := repository.pool.QueryRow(context, query,
		comment.ReviewID, comment.AuthorID, comment.Text,
	).Scan(&comment.ID, &comment.PubDate)
	if err != nil {
		return dberr.Wrap(err, "")
	}

	return nil
}

// Update rewrites the text only. Author, review and pub_date are fixed.
func (repository *PostgresRepository) Update(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.Comment.Table, schema.Comment.Text, schema.Comment.ID)

	tag, err := repository.pool.Exec(context, query, comment.ID, comment.Text)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, reviewID, commentID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.Comment.Table, schema.Comment.ID, schema.Comment.ReviewID)

	tag, err := repository.pool.Exec(context, query, commentID, reviewID)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}
