package memory

import (
	"context"

	"github.com/engram-dev/engram/pkg/model"
	"github.com/engram-dev/engram/pkg/service/index"
	"github.com/m-mizutani/goerr/v2"
)

// ForgetOutput reports the sync outcome of a deletion. The record is
// gone from the store either way; disappearing from search depends
// entirely on the reindex, so its status is part of the result.
type ForgetOutput struct {
	Sync *index.SyncStatus
}

// Forget removes a memory and triggers a reindex. Deleting an ID that
// never existed succeeds; store-level delete is idempotent.
func (u *UseCase) Forget(ctx context.Context, id model.MemoryID) (*ForgetOutput, error) {
	if id == "" {
		return nil, model.ValidationError("id must not be empty", "id", "")
	}

	if err := u.repo.DeleteMemory(ctx, id); err != nil {
		return nil, goerr.Wrap(err, "failed to delete memory")
	}

	sync, err := u.idx.TriggerResync(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to trigger index sync after delete", goerr.V("id", id))
	}

	return &ForgetOutput{Sync: sync}, nil
}
