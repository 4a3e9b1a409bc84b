package merges

import (
	"time"

	"github.com/schemata-hq/schemata-server/pkg/modelmerge"
)

type CreateMergeRequest struct {
	SourceBranchID  string  `json:"source_branch_id"`
	TargetBranchID  string  `json:"target_branch_id"`
	SourceVersionID string  `json:"source_version_id"`
	TargetVersionID string  `json:"target_version_id"`
	Message         string  `json:"message,omitempty"`
	CreatedByID     *string `json:"created_by_id,omitempty"`
}

type MergeResponse struct {
	ID              string                `json:"id"`
	ProjectID       string                `json:"project_id"`
	SourceBranchID  string                `json:"source_branch_id"`
	TargetBranchID  string                `json:"target_branch_id"`
	SourceVersionID string                `json:"source_version_id"`
	TargetVersionID string                `json:"target_version_id"`
	BaseVersionID   *string               `json:"base_version_id,omitempty"`
	ResultVersionID string                `json:"result_version_id"`
	Status          string                `json:"status"`
	Conflicts       []modelmerge.Conflict `json:"conflicts"`
	CreatedAt       time.Time             `json:"created_at"`
}

func ToResponse(m *Merge) *MergeResponse {
	resp := &MergeResponse{
		ID:              m.ID.String(),
		ProjectID:       m.ProjectID.String(),
		SourceBranchID:  m.SourceBranchID.String(),
		TargetBranchID:  m.TargetBranchID.String(),
		SourceVersionID: m.SourceVersionID.String(),
		TargetVersionID: m.TargetVersionID.String(),
		ResultVersionID: m.ResultVersionID.String(),
		Status:          m.Status,
		Conflicts:       m.Conflicts,
		CreatedAt:       m.CreatedAt,
	}
	if m.BaseVersionID != nil {
		s := m.BaseVersionID.String()
		resp.BaseVersionID = &s
	}
	if resp.Conflicts == nil {
		resp.Conflicts = []modelmerge.Conflict{}
	}
	return resp
}

func ToResponseList(list []Merge) []*MergeResponse {
	out := make([]*MergeResponse, 0, len(list))
	for i := range list {
		out = append(out, ToResponse(&list[i]))
	}
	return out
}
