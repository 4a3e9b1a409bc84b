package projects

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Project scopes branches, versions, diffs and merges. Every other resource
// in the system belongs to exactly one project.
type Project struct {
	bun.BaseModel `bun:"table:md.projects,alias:p"`

	ID        uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	CreatedAt time.Time `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:now()" json:"updated_at"`
}
