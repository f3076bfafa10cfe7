package genre

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

func (repository *PostgresRepository) List(context context.Context, search string, page pagination.Params) ([]Genre, int, error) {
	pattern := "%" + search + "%"

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s ILIKE $1`,
		schema.Genre.Table, schema.Genre.Name)

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
		schema.Genre.ID, schema.Genre.Name, schema.Genre.Slug,
		schema.Genre.Table,
		schema.Genre.Name,
		schema.Genre.Name,
	)

	rows, err := repository.pool.Query(context, query, pattern, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}
	defer rows.Close()

	genres := make([]Genre, 0)
	for rows.Next() {
		var g Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug); err != nil {
			return nil, 0, dberr.Wrap(err, "")
		}
		genres = append(genres, g)
	}

	return genres, total, nil
}

func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Genre, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		schema.Genre.ID, schema.Genre.Name, schema.Genre.Slug,
		schema.Genre.Table, schema.Genre.Slug)

	g := &Genre{}
	err := repository.pool.QueryRow(context, query, slug).Scan(&g.ID, &g.Name, &g.Slug)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}

	return g, nil
}

// GetBySlugs resolves a set of slugs in one round trip. The result order is
// alphabetical, not input order; callers detect unknown slugs by comparing
// lengths.
func (repository *PostgresRepository) GetBySlugs(context context.Context, slugs []string) ([]Genre, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = ANY($1) ORDER BY %s ASC`,
		schema.Genre.ID, schema.Genre.Name, schema.Genre.Slug,
		schema.Genre.Table, schema.Genre.Slug, schema.Genre.Name)

	rows, err := repository.pool.Query(context, query, slugs)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}
	defer rows.Close()

	genres := make([]Genre, 0, len(slugs))
	for rows.Next() {
		var g Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug); err != nil {
			return nil, dberr.Wrap(err, "")
		}
		genres = append(genres, g)
	}

	return genres, nil
}

func (repository *PostgresRepository) Create(context context.Context, genre *Genre) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`,
		schema.Genre.Table, schema.Genre.Name, schema.Genre.Slug, schema.Genre.ID)

	err := repository.pool.QueryRow(context, query, genre.Name, genre.Slug).Scan(&genre.ID)
	if err != nil {
		return dberr.Wrap(err, "Genre slug is already in use")
	}

	return nil
}

// DeleteBySlug removes a genre and its title associations (FK cascade on
// the association table). Titles themselves are untouched.
func (repository *PostgresRepository) DeleteBySlug(context context.Context, slug string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.Genre.Table, schema.Genre.Slug)

	tag, err := repository.pool.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}
