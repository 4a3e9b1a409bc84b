package versions

import (
	"time"

	"github.com/google/uuid"

	"github.com/schemata-hq/schemata-server/pkg/model"
)

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

type CommitVersionRequest struct {
	BranchID string          `json:"branch_id"`
	ParentID *string         `json:"parent_id,omitempty"`
	AuthorID *string         `json:"author_id,omitempty"`
	Message  string          `json:"message"`
	Content  *model.Document `json:"content"`
}

type RestoreVersionRequest struct {
	Message  string  `json:"message,omitempty"`
	AuthorID *string `json:"author_id,omitempty"`
}

type VersionResponse struct {
	ID        string          `json:"id"`
	ProjectID string          `json:"project_id"`
	BranchID  string          `json:"branch_id"`
	ParentID  *string         `json:"parent_id,omitempty"`
	AuthorID  *string         `json:"author_id,omitempty"`
	Message   string          `json:"message"`
	Content   *model.Document `json:"content,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// VersionSummary omits the snapshot content; used for branch history
// listings where documents would bloat the payload.
type VersionSummary struct {
	ID        string    `json:"id"`
	BranchID  string    `json:"branch_id"`
	ParentID  *string   `json:"parent_id,omitempty"`
	AuthorID  *string   `json:"author_id,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func ToResponse(v *Version) *VersionResponse {
	content := v.Content
	return &VersionResponse{
		ID:        v.ID.String(),
		ProjectID: v.ProjectID.String(),
		BranchID:  v.BranchID.String(),
		ParentID:  uuidPtrString(v.ParentID),
		AuthorID:  uuidPtrString(v.AuthorID),
		Message:   v.Message,
		Content:   &content,
		CreatedAt: v.CreatedAt,
	}
}

func ToSummaryList(list []Version) []VersionSummary {
	out := make([]VersionSummary, 0, len(list))
	for i := range list {
		v := &list[i]
		out = append(out, VersionSummary{
			ID:        v.ID.String(),
			BranchID:  v.BranchID.String(),
			ParentID:  uuidPtrString(v.ParentID),
			AuthorID:  uuidPtrString(v.AuthorID),
			Message:   v.Message,
			CreatedAt: v.CreatedAt,
		})
	}
	return out
}
