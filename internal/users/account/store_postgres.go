// Copyright (c) 2026 YaMDb. All rights reserved.

/*
Package account (Postgres) implements the storage layer for user accounts.

# Schema Table Mapping
  - users: Master identity, profile fields and the authorization role.

User deletion is a hard delete; reviews and comments authored by the user
are removed by FK cascade.
*/
package account

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Groozzy/api-yamdb/internal/platform/database/schema"
	"github.com/Groozzy/api-yamdb/internal/platform/dberr"
	"github.com/Groozzy/api-yamdb/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
List returns a page of users, optionally filtered by a case-insensitive
username substring, ordered by username.

Returns:
  - []*User: The requested page
  - int: The total number of matching users
  - error: Query or scan failures
*/
func (repository *PostgresRepository) List(context context.Context, search string, page pagination.Params) ([]*User, int, error) {
	pattern := "%" + search + "%"

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s ILIKE $1`,
		schema.User.Table, schema.User.Username)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s ILIKE $1
		ORDER BY %s ASC
		LIMIT $2 OFFSET $3`,
		schema.User.ID, schema.User.Username, schema.User.Email,
		schema.User.FirstName, schema.User.LastName, schema.User.Bio,
		schema.User.Role, schema.User.CreatedAt, schema.User.UpdatedAt,
		schema.User.Table,
		schema.User.Username,
		schema.User.Username,
	)

	rows, err := repository.pool.Query(context, query, pattern, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}
	defer rows.Close()

	users := make([]*User, 0)
	for rows.Next() {
		user := &User{}
		err := rows.Scan(
			&user.ID, &user.Username, &user.Email,
			&user.FirstName, &user.LastName, &user.Bio,
			&user.Role, &user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "")
		}
		users = append(users, user)
	}

	return users, total, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, id string) (*User, error) {
	return repository.getByColumn(context, schema.User.ID, id)
}

func (repository *PostgresRepository) GetByUsername(context context.Context, username string) (*User, error) {
	return repository.getByColumn(context, schema.User.Username, username)
}

func (repository *PostgresRepository) GetByEmail(context context.Context, email string) (*User, error) {
	return repository.getByColumn(context, schema.User.Email, email)
}

func (repository *PostgresRepository) getByColumn(context context.Context, column, value string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.User.ID, schema.User.Username, schema.User.Email,
		schema.User.FirstName, schema.User.LastName, schema.User.Bio,
		schema.User.Role, schema.User.CreatedAt, schema.User.UpdatedAt,
		schema.User.Table,
		column,
	)

	user := &User{}
	err := repository.pool.QueryRow(context, query, value).Scan(
		&user.ID, &user.Username, &user.Email,
		&user.FirstName, &user.LastName, &user.Bio,
		&user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}

	return user, nil
}

func (repository *PostgresRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s, %s`,
		schema.User.Table,
		schema.User.ID, schema.User.Username, schema.User.Email,
		schema.User.FirstName, schema.User.LastName, schema.User.Bio,
		schema.User.Role,
		schema.User.CreatedAt, schema.User.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.ID, user.Username, user.Email,
		user.FirstName, user.LastName, user.Bio,
		user.Role,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "Username or email is already in use")
	}

	return nil
}

/*
Update rewrites a user's mutable fields, refreshing the updated_at stamp.
*/
func (repository *PostgresRepository) Update(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8
		WHERE %s = $1`,
		schema.User.Table,
		schema.User.Username, schema.User.Email, schema.User.FirstName,
		schema.User.LastName, schema.User.Bio, schema.User.Role, schema.User.UpdatedAt,
		schema.User.ID,
	)

	tag, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username, user.Email, user.FirstName,
		user.LastName, user.Bio, user.Role, time.Now(),
	)
	if err != nil {
		return dberr.Wrap(err, "Username or email is already in use")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// DeleteByUsername removes a user and, through FK cascades, every review
// and comment they authored.
func (repository *PostgresRepository) DeleteByUsername(context context.Context, username string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.User.Table, schema.User.Username)

	tag, err := repository.pool.Exec(context, query, username)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}
