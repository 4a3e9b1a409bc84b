package diffs

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/schemata-hq/schemata-server/pkg/modeldiff"
)

// DiffReport is a cached comparison keyed by the ordered version pair.
// Repeat requests recompute and overwrite the row rather than serving it,
// so computed_at always reflects the latest request.
type DiffReport struct {
	bun.BaseModel `bun:"table:md.diff_reports,alias:dr"`

	ID            uuid.UUID        `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	ProjectID     uuid.UUID        `bun:"project_id,type:uuid,notnull"`
	FromVersionID uuid.UUID        `bun:"from_version_id,type:uuid,notnull"`
	ToVersionID   uuid.UUID        `bun:"to_version_id,type:uuid,notnull"`
	Report        modeldiff.Report `bun:"report,type:jsonb,notnull"`
	ComputedAt    time.Time        `bun:"computed_at,notnull,default:now()"`
}
