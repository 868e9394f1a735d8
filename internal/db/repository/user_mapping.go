package repository

import (
	entsql "entgo.io/ent/dialect/sql"

	dom "github.com/tommy-mor/spare/internal/domain/user"
)

const (
	columnID        = "id"
	columnEmail     = "email"
	columnName      = "name"
	columnCreatedAt = "created_at"
	columnUpdatedAt = "updated_at"
)

var userColumns = []string{
	columnID,
	columnEmail,
	columnName,
	columnCreatedAt,
	columnUpdatedAt,
}

func scanUser(rows *entsql.Rows) (*dom.User, error) {
	var u dom.User
	if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return &u, nil
}

func scanUsers(rows *entsql.Rows) ([]dom.User, error) {
	res := make([]dom.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *u)
	}
	return res, rows.Err()
}
