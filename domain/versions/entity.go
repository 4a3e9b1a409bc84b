package versions

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/schemata-hq/schemata-server/pkg/model"
)

// Version is an immutable snapshot in md.versions. Rows are append-only and
// never mutated after insert; parent links form a forest walked by the
// ancestry resolver.
type Version struct {
	bun.BaseModel `bun:"table:md.versions,alias:v"`

	ID        uuid.UUID      `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	ProjectID uuid.UUID      `bun:"project_id,type:uuid,notnull"`
	BranchID  uuid.UUID      `bun:"branch_id,type:uuid,notnull"`
	ParentID  *uuid.UUID     `bun:"parent_id,type:uuid"`
	AuthorID  *uuid.UUID     `bun:"author_id,type:uuid"`
	Message   string         `bun:"message,notnull,default:''"`
	Content   model.Document `bun:"content,type:jsonb,notnull"`
	CreatedAt time.Time      `bun:"created_at,notnull,default:now()"`
}
