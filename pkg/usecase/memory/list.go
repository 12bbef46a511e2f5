package memory

import (
	"context"

	"github.com/engram-dev/engram/pkg/model"
	"github.com/engram-dev/engram/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
)

// defaultListLimit applies when the caller gives no page size
const defaultListLimit = 20

// ListInput contains pagination options
type ListInput struct {
	Cursor string
	Limit  int
}

// List retrieves one page of memories in store order. Order is
// store-defined and not guaranteed to be creation order.
func (u *UseCase) List(ctx context.Context, input *ListInput) (*repository.ListOutput, error) {
	cursor := ""
	limit := defaultListLimit
	if input != nil {
		cursor = input.Cursor
		if input.Limit > 0 {
			limit = input.Limit
		}
	}

	out, err := u.repo.ListMemories(ctx, cursor, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list memories")
	}

	return out, nil
}

// Get retrieves a single memory by ID
func (u *UseCase) Get(ctx context.Context, id model.MemoryID) (*model.Memory, error) {
	if id == "" {
		return nil, model.ValidationError("id must not be empty", "id", "")
	}

	m, err := u.repo.GetMemory(ctx, id)
	if err != nil {
		return nil, err
	}

	return m, nil
}
