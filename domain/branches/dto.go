package branches

import (
	"time"
)

// CreateBranchRequest is the request DTO for creating a branch
type CreateBranchRequest struct {
	Name          string  `json:"name"`
	FromVersionID *string `json:"from_version_id"`
	CreatedByID   *string `json:"created_by_id"`
}

// UpdateBranchRequest is the request DTO for renaming a branch
type UpdateBranchRequest struct {
	Name *string `json:"name"`
}

// HeadResponse summarizes a branch's resolved head version
type HeadResponse struct {
	VersionID string  `json:"version_id"`
	AuthorID  *string `json:"author_id,omitempty"`
	Message   string  `json:"message"`
	CreatedAt string  `json:"created_at"`
}

// BranchResponse is the response DTO for a branch
type BranchResponse struct {
	ID          string        `json:"id"`
	ProjectID   string        `json:"project_id"`
	Name        string        `json:"name"`
	IsDefault   bool          `json:"is_default"`
	CreatedByID *string       `json:"created_by_id,omitempty"`
	Head        *HeadResponse `json:"head,omitempty"`
	CreatedAt   string        `json:"created_at"`
}

// ToResponse converts a branch with head to a BranchResponse
func ToResponse(b *BranchWithHead) *BranchResponse {
	resp := &BranchResponse{
		ID:        b.ID.String(),
		ProjectID: b.ProjectID.String(),
		Name:      b.Name,
		IsDefault: b.IsDefault,
		CreatedAt: b.CreatedAt.Format(time.RFC3339Nano),
	}
	if b.CreatedByID != nil {
		id := b.CreatedByID.String()
		resp.CreatedByID = &id
	}
	if b.Head != nil {
		resp.Head = &HeadResponse{
			VersionID: b.Head.VersionID.String(),
			Message:   b.Head.Message,
			CreatedAt: b.Head.CreatedAt.Format(time.RFC3339Nano),
		}
		if b.Head.AuthorID != nil {
			id := b.Head.AuthorID.String()
			resp.Head.AuthorID = &id
		}
	}
	return resp
}

// ToResponseList converts a slice of branches to BranchResponses
func ToResponseList(branches []*BranchWithHead) []*BranchResponse {
	result := make([]*BranchResponse, len(branches))
	for i, b := range branches {
		result[i] = ToResponse(b)
	}
	return result
}
