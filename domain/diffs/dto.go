package diffs

import (
	"time"

	"github.com/schemata-hq/schemata-server/pkg/modeldiff"
)

type DiffResponse struct {
	ProjectID     string           `json:"project_id"`
	FromVersionID string           `json:"from_version_id"`
	ToVersionID   string           `json:"to_version_id"`
	Report        modeldiff.Report `json:"report"`
	ComputedAt    time.Time        `json:"computed_at"`
}

func ToResponse(r *DiffReport) *DiffResponse {
	return &DiffResponse{
		ProjectID:     r.ProjectID.String(),
		FromVersionID: r.FromVersionID.String(),
		ToVersionID:   r.ToVersionID.String(),
		Report:        r.Report,
		ComputedAt:    r.ComputedAt,
	}
}
