package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Actions recorded by the versioning core.
const (
	ActionCommit  = "version.commit"
	ActionRestore = "version.restore"
	ActionSeed    = "branch.seed"
	ActionMerge   = "branch.merge"
)

// Entry is an append-only audit record in md.audit_log. Entries are written
// in the same transaction as the change they describe.
type Entry struct {
	bun.BaseModel `bun:"table:md.audit_log,alias:a"`

	ID           uuid.UUID      `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	ProjectID    uuid.UUID      `bun:"project_id,type:uuid,notnull" json:"project_id"`
	ActorID      *uuid.UUID     `bun:"actor_id,type:uuid" json:"actor_id,omitempty"`
	Action       string         `bun:"action,notnull" json:"action"`
	ResourceType string         `bun:"resource_type,notnull" json:"resource_type"`
	ResourceID   *uuid.UUID     `bun:"resource_id,type:uuid" json:"resource_id,omitempty"`
	Detail       map[string]any `bun:"detail,type:jsonb,notnull,default:'{}'" json:"detail"`
	CreatedAt    time.Time      `bun:"created_at,notnull,default:now()" json:"created_at"`
}
