package repository

import (
	"context"
	stdsql "database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"

	"github.com/tommy-mor/spare/internal/db"
	dom "github.com/tommy-mor/spare/internal/domain/user"
	"github.com/tommy-mor/spare/internal/logging"
)

type UserRepository struct {
	client *db.Client
	logger logging.Logger
}

func NewUserRepository(client *db.Client, logger logging.Logger) dom.Repository {
	return &UserRepository{
		client: client,
		logger: logger.With("component", "user_repo"),
	}
}

func (r *UserRepository) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.client.Dialect())
}

func (r *UserRepository) GetById(ctx context.Context, id string) (*dom.User, error) {
	query, args := r.builder().
		Select(userColumns...).
		From(entsql.Table(db.UsersTableName)).
		Where(entsql.EQ(columnID, id)).
		Query()

	u, err := r.queryOne(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("users.GetById: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*dom.User, error) {
	query, args := r.builder().
		Select(userColumns...).
		From(entsql.Table(db.UsersTableName)).
		Where(entsql.EQ(columnEmail, email)).
		Query()

	u, err := r.queryOne(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("users.GetByEmail: %w", err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context, filter dom.ListFilter) ([]dom.User, error) {
	q := r.builder().
		Select(userColumns...).
		From(entsql.Table(db.UsersTableName)).
		OrderBy(entsql.Asc(columnCreatedAt), entsql.Asc(columnID))

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}

	query, args := q.Query()
	rows := &entsql.Rows{}
	if err := r.client.Conn(ctx).Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("users.List: %w", err)
	}
	defer rows.Close()

	users, err := scanUsers(rows)
	if err != nil {
		return nil, fmt.Errorf("users.List scan: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, u *dom.User) error {
	query, args := r.builder().
		Insert(db.UsersTableName).
		Columns(userColumns...).
		Values(u.ID, u.Email, u.Name, u.CreatedAt, u.UpdatedAt).
		Query()

	var res stdsql.Result
	if err := r.client.Conn(ctx).Exec(ctx, query, args, &res); err != nil {
		if sqlgraph.IsUniqueConstraintError(err) {
			return dom.ErrEmailTaken
		}
		return fmt.Errorf("users.Create: %w", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *dom.User) error {
	query, args := r.builder().
		Update(db.UsersTableName).
		Set(columnEmail, u.Email).
		Set(columnName, u.Name).
		Set(columnUpdatedAt, u.UpdatedAt).
		Where(entsql.EQ(columnID, u.ID)).
		Query()

	var res stdsql.Result
	if err := r.client.Conn(ctx).Exec(ctx, query, args, &res); err != nil {
		if sqlgraph.IsUniqueConstraintError(err) {
			return dom.ErrEmailTaken
		}
		return fmt.Errorf("users.Update: %w", err)
	}
	return expectAffected(res)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	query, args := r.builder().
		Delete(db.UsersTableName).
		Where(entsql.EQ(columnID, id)).
		Query()

	var res stdsql.Result
	if err := r.client.Conn(ctx).Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("users.Delete: %w", err)
	}
	return expectAffected(res)
}

func (r *UserRepository) queryOne(ctx context.Context, query string, args []any) (*dom.User, error) {
	rows := &entsql.Rows{}
	if err := r.client.Conn(ctx).Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, dom.ErrNotFound
	}
	return scanUser(rows)
}

func expectAffected(res stdsql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return dom.ErrNotFound
	}
	return nil
}
