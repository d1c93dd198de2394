package skilltree

import (
	"context"
	"errors"
)

var (
	ErrDuplicateEdge       = errors.New("skilltree: edge already exists")
	ErrCyclicDependency    = errors.New("skilltree: circular dependency detected")
	ErrPrerequisitesNotMet = errors.New("skilltree: prerequisites not met")
	ErrNodeNotFound        = errors.New("skilltree: node not found")
	ErrMalformedSnapshot   = errors.New("skilltree: malformed snapshot")
)

// Store defines the contract for persisting and retrieving a snapshot.
// It is read once at startup and written after every mutation.
type Store interface {
	// Load returns the stored snapshot, or nil, nil if none exists.
	Load(ctx context.Context) (*Snapshot, error)
	// Save replaces the stored snapshot.
	Save(ctx context.Context, s *Snapshot) error
}

// Result is the record handed to callers that branch on success.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ResultOf converts an engine error into a Result.
func ResultOf(err error) Result {
	switch {
	case err == nil:
		return Result{Success: true}
	case errors.Is(err, ErrDuplicateEdge):
		return Result{Error: "Edge already exists"}
	case errors.Is(err, ErrCyclicDependency):
		return Result{Error: "Circular dependency detected"}
	case errors.Is(err, ErrPrerequisitesNotMet):
		return Result{Error: "Prerequisites not met"}
	case errors.Is(err, ErrNodeNotFound):
		return Result{Error: "Node not found"}
	}
	return Result{Error: err.Error()}
}
