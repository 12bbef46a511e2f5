package repository

import (
	"context"

	"github.com/engram-dev/engram/pkg/model"
)

// ListOutput is one page of memories plus the continuation cursor.
// NextCursor is empty when the listing is exhausted.
type ListOutput struct {
	Memories   []*model.Memory
	NextCursor string
}

// Repository defines the interface for memory persistence
type Repository interface {
	// PutMemory saves a memory to the repository
	PutMemory(ctx context.Context, memory *model.Memory) error

	// GetMemory retrieves a memory by ID
	GetMemory(ctx context.Context, id model.MemoryID) (*model.Memory, error)

	// DeleteMemory removes a memory by ID. Deleting a missing ID is not an error.
	DeleteMemory(ctx context.Context, id model.MemoryID) error

	// ListMemories retrieves up to limit memories in store order
	ListMemories(ctx context.Context, cursor string, limit int) (*ListOutput, error)
}
