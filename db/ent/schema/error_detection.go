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

type ErrorDetection struct{ ent.Schema }

func (ErrorDetection) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "error_detections"},
	}
}

func (ErrorDetection) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("result_id", uuid.UUID{}),
		field.Int("seq"),
		field.String("field_name"),
		field.String("error_type").
			Validate(utils.EnumValidator("low_confidence", "format_mismatch", "out_of_dictionary", "missing_required")),
		field.String("expected_value").Optional().Nillable(),
		field.String("actual_value"),
		field.Float("confidence").Min(0).Max(1),
		field.String("suggestion").Optional().Nillable(),
		field.Time("detected_at").Default(time.Now).Immutable(),
	}
}

func (ErrorDetection) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("result", ProcessingResult.Type).
			Ref("detections").
			Field("result_id").
			Required().
			Unique(),
	}
}
