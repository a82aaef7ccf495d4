package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"

	"github.com/google/uuid"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/db/ent/schema/utils"
)

type ComplianceRule struct{ ent.Schema }

func (ComplianceRule) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "compliance_rules"},
	}
}

func (ComplianceRule) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		field.String("name").NotEmpty(),
		field.String("field").
			Validate(utils.EnumValidator("drug_name", "batch_number", "expiry_date", "manufacturer")),
		field.String("rule_type").
			Validate(utils.EnumValidator("pattern", "required", "range", "enum_membership")),
		field.String("description").Default(""),
		// rule_type-specific configuration, schema-checked at the API layer
		field.JSON("parameters", map[string]any{}).
			Optional().
			SchemaType(map[string]string{dialect.Postgres: "jsonb"}),
		field.String("severity").
			Validate(utils.EnumValidator("low", "medium", "high", "critical")).
			Default("medium"),
		field.Bool("active").Default(true),
		field.Time("created_at").Default(time.Now),
		field.Time("updated_at").Default(time.Now).UpdateDefault(time.Now),
	}
}
