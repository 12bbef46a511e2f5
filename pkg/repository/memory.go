package repository

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/engram-dev/engram/pkg/adapter"
	"github.com/engram-dev/engram/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// keyPrefix is the logical namespace for memory blobs in the store
const keyPrefix = "memories/"

// objectRepo implements Repository on top of a durable object store.
// Each memory is one JSON blob keyed by its ID, with the side-fields
// (tags, source, created_at) attached as object metadata so that
// store-side collaborators can filter without reading the blob.
type objectRepo struct {
	store adapter.ObjectStore
}

// New creates a Repository backed by the given object store
func New(store adapter.ObjectStore) Repository {
	return &objectRepo{
		store: store,
	}
}

// memoryKey derives the storage key from the ID alone, so Get and
// Delete never need anything beyond the ID.
func memoryKey(id model.MemoryID) string {
	return keyPrefix + string(id) + ".json"
}

func (r *objectRepo) PutMemory(ctx context.Context, memory *model.Memory) error {
	data, err := json.Marshal(memory)
	if err != nil {
		return goerr.Wrap(err, "failed to serialize memory", goerr.V("id", memory.ID))
	}

	metadata := map[string]string{
		"tags":       strings.Join(memory.Tags, ","),
		"source":     string(memory.Source),
		"created_at": memory.CreatedAt.Format(time.RFC3339),
	}

	if err := r.store.Put(ctx, memoryKey(memory.ID), data, metadata); err != nil {
		return goerr.Wrap(err, "failed to store memory", goerr.V("id", memory.ID))
	}

	return nil
}

func (r *objectRepo) GetMemory(ctx context.Context, id model.MemoryID) (*model.Memory, error) {
	data, err := r.store.Get(ctx, memoryKey(id))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load memory", goerr.V("id", id))
	}

	var memory model.Memory
	if err := json.Unmarshal(data, &memory); err != nil {
		return nil, goerr.Wrap(err, "failed to deserialize memory",
			goerr.T(model.ErrTagStore), goerr.V("id", id))
	}

	return &memory, nil
}

func (r *objectRepo) DeleteMemory(ctx context.Context, id model.MemoryID) error {
	if err := r.store.Delete(ctx, memoryKey(id)); err != nil {
		return goerr.Wrap(err, "failed to delete memory", goerr.V("id", id))
	}

	return nil
}

func (r *objectRepo) ListMemories(ctx context.Context, cursor string, limit int) (*ListOutput, error) {
	page, err := r.store.List(ctx, keyPrefix, cursor, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list memories")
	}

	out := &ListOutput{
		Memories:   make([]*model.Memory, 0, len(page.Items)),
		NextCursor: page.NextCursor,
	}

	for _, item := range page.Items {
		data, err := r.store.Get(ctx, item.Key)
		if err != nil {
			// A record deleted between the listing and the read is
			// not a failure of the listing itself
			if model.IsNotFound(err) {
				continue
			}
			return nil, goerr.Wrap(err, "failed to load listed memory", goerr.V("key", item.Key))
		}

		var memory model.Memory
		if err := json.Unmarshal(data, &memory); err != nil {
			return nil, goerr.Wrap(err, "failed to deserialize listed memory",
				goerr.T(model.ErrTagStore), goerr.V("key", item.Key))
		}

		out.Memories = append(out.Memories, &memory)
	}

	return out, nil
}
