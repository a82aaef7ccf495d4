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

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/db/ent/schema/utils"
)

type Document struct{ ent.Schema }

func (Document) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "documents"},
	}
}

func (Document) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		field.String("filename").NotEmpty(),
		field.String("file_type").NotEmpty(),
		field.Int64("file_size").Default(0),
		field.String("status").
			Validate(utils.EnumValidator("PENDING", "PROCESSING", "COMPLETED", "FAILED")).
			Default("PENDING"),
		// Raw OCR payload as received; kept verbatim for reprocessing.
		field.JSON("raw_input", map[string]any{}).
			SchemaType(map[string]string{dialect.Postgres: "jsonb"}),
		field.Time("uploaded_at").Default(time.Now).Immutable(),
	}
}

func (Document) Edges() []ent.Edge {
	return []ent.Edge{
		// ONE document -> MANY results (historical reprocessing)
		edge.To("results", ProcessingResult.Type),
	}
}
