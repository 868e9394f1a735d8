package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

type User struct {
	ent.Schema
}

// Fields of the User.
func (User) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			MaxLen(36).
			NotEmpty().
			Unique().
			Immutable().
			Comment("UUID primary key"),

		field.String("email").
			MaxLen(320).
			Unique().
			NotEmpty().
			Comment("Lowercased email"),

		field.String("name").
			MaxLen(100).
			NotEmpty().
			Comment("Display name"),

		field.Time("created_at").
			Default(time.Now).
			Immutable(),

		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

func (User) Edges() []ent.Edge {
	return nil
}
