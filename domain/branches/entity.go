package branches

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Branch represents a branch in the md.branches table. The head is an
// explicit pointer updated atomically with every version insert, so commits
// to one branch serialize on the branch row.
type Branch struct {
	bun.BaseModel `bun:"table:md.branches,alias:b"`

	ID            uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	ProjectID     uuid.UUID  `bun:"project_id,type:uuid,notnull"`
	Name          string     `bun:"name,notnull"`
	IsDefault     bool       `bun:"is_default,notnull,default:false"`
	CreatedByID   *uuid.UUID `bun:"created_by_id,type:uuid"`
	HeadVersionID *uuid.UUID `bun:"head_version_id,type:uuid"`
	CreatedAt     time.Time  `bun:"created_at,notnull,default:now()"`
}
