/*
Package title (Postgres) implements the storage layer for the title catalogue.

Listing uses a dynamically built query since every filter is optional; the
category and genre relations are hydrated with one extra query per page,
never per row.
*/
package title

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Groozzy/api-yamdb/internal/core/category"
	"github.com/Groozzy/api-yamdb/internal/core/genre"
	"github.com/Groozzy/api-yamdb/internal/platform/database/schema"
	"github.com/Groozzy/api-yamdb/internal/platform/dberr"
	"github.com/Groozzy/api-yamdb/pkg/pagination"
)

// builder is the shared squirrel builder configured for Postgres placeholders.
var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
List returns a page of titles matching the filter, with category and genres
hydrated, ordered by name.

Returns:
  - []*Title: The requested page
  - int: The total number of matching titles across all pages
  - error: Query or scan failures
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, page pagination.Params) ([]*Title, int, error) {
	countBuilder := applyFilter(builder.
		Select(fmt.Sprintf("COUNT(DISTINCT t.%s)", schema.Title.ID)).
		From(schema.Title.Table+" t").
		LeftJoin(categoryJoin()),
		filter,
	)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}

	var total int
	if err := repository.pool.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}

	listBuilder := applyFilter(builder.
		Select(
			"t."+schema.Title.ID, "t."+schema.Title.Name, "t."+schema.Title.Year, "t."+schema.Title.Description,
			"c."+schema.Category.ID, "c."+schema.Category.Name, "c."+schema.Category.Slug,
		).
		From(schema.Title.Table+" t").
		LeftJoin(categoryJoin()).
		OrderBy("t."+schema.Title.Name+" ASC", "t."+schema.Title.ID+" ASC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset())),
		filter,
	)
	if filter.GenreSlug != "" {
		listBuilder = listBuilder.Distinct()
	}

	listQuery, listArgs, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}

	rows, err := repository.pool.Query(context, listQuery, listArgs...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}
	defer rows.Close()

	titles := make([]*Title, 0)
	for rows.Next() {
		t, err := scanTitle(rows.Scan)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "")
		}
		titles = append(titles, t)
	}
	rows.Close()

	if err := repository.attachGenres(context, titles); err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

// categoryJoin is the join clause shared by the count and list queries.
func categoryJoin() string {
	return fmt.Sprintf("%s c ON t.%s = c.%s",
		schema.Category.Table, schema.Title.CategoryID, schema.Category.ID)
}

// applyFilter adds the WHERE clauses for the set filter fields, joining the
// genre association only when the genre filter needs it.
func applyFilter(b squirrel.SelectBuilder, filter Filter) squirrel.SelectBuilder {
	if filter.CategorySlug != "" {
		b = b.Where(squirrel.Eq{"c." + schema.Category.Slug: filter.CategorySlug})
	}
	if filter.GenreSlug != "" {
		b = b.
			Join(fmt.Sprintf("%s tg ON tg.%s = t.%s",
				schema.TitleGenre.Table, schema.TitleGenre.TitleID, schema.Title.ID)).
			Join(fmt.Sprintf("%s g ON g.%s = tg.%s",
				schema.Genre.Table, schema.Genre.ID, schema.TitleGenre.GenreID)).
			Where(squirrel.Eq{"g." + schema.Genre.Slug: filter.GenreSlug})
	}
	if filter.Name != "" {
		b = b.Where(squirrel.ILike{"t." + schema.Title.Name: "%" + filter.Name + "%"})
	}
	if filter.Year != nil {
		b = b.Where(squirrel.Eq{"t." + schema.Title.Year: *filter.Year})
	}
	return b
}

func (repository *PostgresRepository) GetByID(context context.Context, id int64) (*Title, error) {
	query := fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, t.%s,
		       c.%s, c.%s, c.%s
		FROM %s t
		LEFT JOIN %s c ON t.%s = c.%s
		WHERE t.%s = $1`,
		schema.Title.ID, schema.Title.Name, schema.Title.Year, schema.Title.Description,
		schema.Category.ID, schema.Category.Name, schema.Category.Slug,
		schema.Title.Table,
		schema.Category.Table, schema.Title.CategoryID, schema.Category.ID,
		schema.Title.ID,
	)

	row := repository.pool.QueryRow(context, query, id)
	t, err := scanTitle(row.Scan)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}

	if err := repository.attachGenres(context, []*Title{t}); err != nil {
		return nil, err
	}

	return t, nil
}

func (repository *PostgresRepository) Exists(context context.Context, id int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.Title.Table, schema.Title.ID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "")
	}

	return exists, nil
}

/*
Create inserts a title and its genre associations in a single transaction.
*/
func (repository *PostgresRepository) Create(context context.Context, title *Title, genreIDs []int64) error {
	tx, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	defer tx.Rollback(context)

	insertQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4) RETURNING %s`,
		schema.Title.Table,
		schema.Title.Name, schema.Title.Year, schema.Title.Description, schema.Title.CategoryID,
		schema.Title.ID,
	)

	err = tx.QueryRow(context, insertQuery, title.Name, title.Year, title.Description, categoryID(title)).Scan(&title.ID)
	if err != nil {
		return dberr.Wrap(err, "")
	}

	if err := insertGenreLinks(context, tx, title.ID, genreIDs); err != nil {
		return err
	}

	return tx.Commit(context)
}

/*
Update rewrites a title's scalar fields and, when replaceGenres is true,
replaces the full genre association set.
*/
func (repository *PostgresRepository) Update(context context.Context, title *Title, genreIDs []int64, replaceGenres bool) error {
	tx, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	defer tx.Rollback(context)

	updateQuery := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5 WHERE %s = $1`,
		schema.Title.Table,
		schema.Title.Name, schema.Title.Year, schema.Title.Description, schema.Title.CategoryID,
		schema.Title.ID,
	)

	tag, err := tx.Exec(context, updateQuery, title.ID, title.Name, title.Year, title.Description, categoryID(title))
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	if replaceGenres {
		deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
			schema.TitleGenre.Table, schema.TitleGenre.TitleID)
		if _, err := tx.Exec(context, deleteQuery, title.ID); err != nil {
			return dberr.Wrap(err, "")
		}
		if err := insertGenreLinks(context, tx, title.ID, genreIDs); err != nil {
			return err
		}
	}

	return tx.Commit(context)
}

// Delete removes a title. Reviews and their comments go with it (FK cascade).
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.Title.Table, schema.Title.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// attachGenres hydrates the Genres slice for a set of titles in one query.
func (repository *PostgresRepository) attachGenres(context context.Context, titles []*Title) error {
	if len(titles) == 0 {
		return nil
	}

	titleIDs := make([]int64, 0, len(titles))
	titleMap := make(map[int64]*Title, len(titles))
	for _, t := range titles {
		t.Genres = make([]genre.Genre, 0)
		titleIDs = append(titleIDs, t.ID)
		titleMap[t.ID] = t
	}

	query := fmt.Sprintf(`
		SELECT tg.%s, g.%s, g.%s, g.%s
		FROM %s tg
		JOIN %s g ON g.%s = tg.%s
		WHERE tg.%s = ANY($1)
		ORDER BY g.%s ASC`,
		schema.TitleGenre.TitleID, schema.Genre.ID, schema.Genre.Name, schema.Genre.Slug,
		schema.TitleGenre.Table,
		schema.Genre.Table, schema.Genre.ID, schema.TitleGenre.GenreID,
		schema.TitleGenre.TitleID,
		schema.Genre.Name,
	)

	rows, err := repository.pool.Query(context, query, titleIDs)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	defer rows.Close()

	for rows.Next() {
		var titleID int64
		var g genre.Genre
		if err := rows.Scan(&titleID, &g.ID, &g.Name, &g.Slug); err != nil {
			return dberr.Wrap(err, "")
		}
		if t, ok := titleMap[titleID]; ok {
			t.Genres = append(t.Genres, g)
		}
	}

	return nil
}

// insertGenreLinks writes the association rows for a title.
func insertGenreLinks(ctx context.Context, tx pgx.Tx, titleID int64, genreIDs []int64) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
		schema.TitleGenre.Table, schema.TitleGenre.TitleID, schema.TitleGenre.GenreID)

	for _, genreID := range genreIDs {
		if _, err := tx.Exec(ctx, query, titleID, genreID); err != nil {
			return dberr.Wrap(err, "")
		}
	}

	return nil
}

// categoryID extracts the nullable FK value from the nested category.
func categoryID(title *Title) *int64 {
	if title.Category == nil {
		return nil
	}
	return &title.Category.ID
}

// scanTitle maps a joined title row, tolerating an absent category.
func scanTitle(scan func(dest ...any) error) (*Title, error) {
	t := &Title{}
	var catID *int64
	var catName, catSlug *string

	err := scan(
		&t.ID, &t.Name, &t.Year, &t.Description,
		&catID, &catName, &catSlug,
	)
	if err != nil {
		return nil, err
	}

	if catID != nil {
		t.Category = &category.Category{ID: *catID, Name: *catName, Slug: *catSlug}
	}

	return t, nil
}
