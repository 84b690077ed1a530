package ports

import (
	"context"

	"github.com/PatrickMassot/lean-gym/pkg/domain"
)

// BranchStore maps branch ids to engine snapshots.
// Insert is the only mutating operation and never touches existing bindings.
type BranchStore interface {
	// Get returns the snapshot bound to id.
	// Returns domain.ErrUnknownBranch if id was never allocated.
	Get(id domain.BranchID) (domain.StateHandle, error)

	// Insert binds state to the next free id and returns that id.
	Insert(state domain.StateHandle) domain.BranchID

	// NextID is the id the next Insert will allocate.
	NextID() domain.BranchID

	// Len returns the number of bound branches.
	Len() int
}

// TranscriptSink records session exchanges outside the process.
type TranscriptSink interface {
	Record(ctx context.Context, entry domain.TranscriptEntry) error
	Close() error
}
