package merges

import (
	"context"

	"github.com/google/uuid"
)

// parentLookup is the slice of the version store the resolver needs.
type parentLookup interface {
	GetParent(ctx context.Context, projectID, id uuid.UUID) (*uuid.UUID, bool, error)
}

// Resolver finds the nearest common ancestor of two versions by walking
// parent chains. The walk is capped: a chain longer than maxDepth (or a
// corrupted cyclic one) yields "no ancestor" rather than an error, and the
// merge then runs against the empty document.
type Resolver struct {
	store    parentLookup
	maxDepth int
}

func NewResolver(store parentLookup, maxDepth int) *Resolver {
	return &Resolver{store: store, maxDepth: maxDepth}
}

// Base returns the id of the nearest common ancestor of ours and theirs,
// or nil when none exists within the depth cap. A version is its own
// ancestor, so merging a branch into its fork point fast-forwards.
func (r *Resolver) Base(ctx context.Context, projectID, ours, theirs uuid.UUID) (*uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, r.maxDepth)

	cur := &ours
	for depth := 0; cur != nil && depth < r.maxDepth; depth++ {
		if _, dup := seen[*cur]; dup {
			break
		}
		seen[*cur] = struct{}{}
		parent, ok, err := r.store.GetParent(ctx, projectID, *cur)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		cur = parent
	}

	cur = &theirs
	for depth := 0; cur != nil && depth < r.maxDepth; depth++ {
		if _, hit := seen[*cur]; hit {
			id := *cur
			return &id, nil
		}
		parent, ok, err := r.store.GetParent(ctx, projectID, *cur)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		cur = parent
	}
	return nil, nil
}
