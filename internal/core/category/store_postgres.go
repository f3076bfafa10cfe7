package category

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
List returns a page of categories, optionally filtered by a case-insensitive
name substring, ordered by name.

Returns:
  - []Category: The requested page
  - int: The total number of matching rows across all pages
  - error: Query or scan failures
*/
func (repository *PostgresRepository) List(context context.Context, search string, page pagination.Params) ([]Category, int, error) {
	pattern := "%" + search + "%"

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s ILIKE $1`,
		schema.Category.Table, schema.Category.Name)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s
		FROM %s
		WHERE %s ILIKE $1
		ORDER BY %s ASC
		LIMIT $2 OFFSET $3`,
		schema.Category.ID, schema.Category.Name, schema.Category.Slug,
		schema.Category.Table,
		schema.Category.Name,
		schema.Category.Name,
	)

	rows, err := repository.pool.Query(context, query, pattern, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}
	defer rows.Close()

	categories := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, 0, dberr.Wrap(err, "")
		}
		categories = append(categories, c)
	}

	return categories, total, nil
}

func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Category, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		schema.Category.ID, schema.Category.Name, schema.Category.Slug,
		schema.Category.Table, schema.Category.Slug)

	c := &Category{}
	err := repository.pool.QueryRow(context, query, slug).Scan(&c.ID, &c.Name, &c.Slug)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}

	return c, nil
}

func (repository *PostgresRepository) Create(context context.Context, category *Category) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`,
		schema.Category.Table, schema.Category.Name, schema.Category.Slug, schema.Category.ID)

	err := repository.pool.QueryRow(context, query, category.Name, category.Slug).Scan(&category.ID)
	if err != nil {
		return dberr.Wrap(err, "Category slug is already in use")
	}

	return nil
}

// DeleteBySlug removes a category. Titles referencing it are detached,
// not deleted (FK is ON DELETE SET NULL).
func (repository *PostgresRepository) DeleteBySlug(context context.Context, slug string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.Category.Table, schema.Category.Slug)

	tag, err := repository.pool.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}
