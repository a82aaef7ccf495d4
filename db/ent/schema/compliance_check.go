package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"

	"github.com/google/uuid"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/db/ent/schema/utils"
)

type ComplianceCheck struct{ ent.Schema }

func (ComplianceCheck) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "compliance_checks"},
	}
}

func (ComplianceCheck) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("result_id", uuid.UUID{}),
		// seq preserves evaluation order within one result
		field.Int("seq"),
		field.UUID("rule_id", uuid.UUID{}),
		field.String("rule_name").NotEmpty(),
		field.String("field"),
		field.String("status").
			Validate(utils.EnumValidator("passed", "failed", "warning")),
		field.String("message"),
		field.String("severity").
			Validate(utils.EnumValidator("low", "medium", "high", "critical")),
		field.Time("checked_at").Default(time.Now).Immutable(),
	}
}

func (ComplianceCheck) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("result", ProcessingResult.Type).
			Ref("checks").
			Field("result_id").
			Required().
			Unique(),
	}
}
