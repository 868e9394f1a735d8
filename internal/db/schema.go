package db

import (
	"context"
	"fmt"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"

	entschema "github.com/tommy-mor/spare/ent/schema"
)

const UsersTableName = "users"

var (
	// UsersColumns holds the columns for the "users" table.
	UsersColumns = columnsOf(entschema.User{}.Fields())
	// UsersTable holds the schema information for the "users" table.
	UsersTable = &schema.Table{
		Name:       UsersTableName,
		Columns:    UsersColumns,
		PrimaryKey: []*schema.Column{UsersColumns[0]},
	}

	Tables = []*schema.Table{
		UsersTable,
	}
)

// columnsOf turns ent field declarations into migration columns. The
// primary key stays unique through the PRIMARY KEY constraint.
func columnsOf(fields []ent.Field) []*schema.Column {
	cols := make([]*schema.Column, 0, len(fields))
	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			panic(fmt.Sprintf("field %q: %v", d.Name, d.Err))
		}
		cols = append(cols, &schema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Size:     int64(d.Size),
			Unique:   d.Unique && d.Name != "id",
			Nullable: d.Optional,
		})
	}
	return cols
}

// Migrate creates missing tables and columns. It never drops anything.
func (c *Client) Migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(c.drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	c.logger.Info("schema migrated", "tables", len(Tables))
	return nil
}
