package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"

	"github.com/google/uuid"
)

type ProcessingResult struct{ ent.Schema }

func (ProcessingResult) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "processing_results"},
	}
}

func (ProcessingResult) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		field.UUID("document_id", uuid.UUID{}),
		field.JSON("normalized", map[string]any{}).
			SchemaType(map[string]string{dialect.Postgres: "jsonb"}),
		field.JSON("fields", map[string]any{}).
			SchemaType(map[string]string{dialect.Postgres: "jsonb"}),
		field.Bool("controlled_substance").Default(false),
		// Rule snapshot version the checks were evaluated against.
		field.Int64("rules_version").Default(0),
		field.Time("processed_at").Default(time.Now).Immutable(),
	}
}

func (ProcessingResult) Edges() []ent.Edge {
	return []ent.Edge{
		// MANY results -> ONE document (FK: processing_results.document_id)
		edge.From("document", Document.Type).
			Ref("results").
			Field("document_id").
			Required().
			Unique(),
		// ONE result -> MANY checks and detections
		edge.To("checks", ComplianceCheck.Type),
		edge.To("detections", ErrorDetection.Type),
	}
}
