package merges

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/schemata-hq/schemata-server/pkg/modelmerge"
)

const (
	StatusCompleted = "COMPLETED"
	StatusConflicts = "CONFLICTS"
)

// Merge records a merge outcome. The result version always exists even when
// conflicts were found; status CONFLICTS just means the conflicts list is
// non-empty and the winning side was kept.
type Merge struct {
	bun.BaseModel `bun:"table:md.merges,alias:m"`

	ID              uuid.UUID             `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	ProjectID       uuid.UUID             `bun:"project_id,type:uuid,notnull"`
	SourceBranchID  uuid.UUID             `bun:"source_branch_id,type:uuid,notnull"`
	TargetBranchID  uuid.UUID             `bun:"target_branch_id,type:uuid,notnull"`
	SourceVersionID uuid.UUID             `bun:"source_version_id,type:uuid,notnull"`
	TargetVersionID uuid.UUID             `bun:"target_version_id,type:uuid,notnull"`
	BaseVersionID   *uuid.UUID            `bun:"base_version_id,type:uuid"`
	ResultVersionID uuid.UUID             `bun:"result_version_id,type:uuid,notnull"`
	Status          string                `bun:"status,notnull"`
	Conflicts       []modelmerge.Conflict `bun:"conflicts,type:jsonb"`
	CreatedByID     *uuid.UUID            `bun:"created_by_id,type:uuid"`
	CreatedAt       time.Time             `bun:"created_at,notnull,default:now()"`
}
