package memory

import (
	"context"

	"github.com/engram-dev/engram/pkg/model"
	"github.com/engram-dev/engram/pkg/service/index"
	"github.com/engram-dev/engram/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// RememberInput contains the fields of a new memory
type RememberInput struct {
	Content string
	Tags    []string
	Source  model.Source
}

// RememberOutput carries the stored memory and, when available, the
// outcome of the index sync triggered by the write.
type RememberOutput struct {
	Memory *model.Memory
	Sync   *index.SyncStatus
}

// Remember durably stores a new memory and then asks the provider to
// reindex. The create succeeds once the write is durable; a failed
// resync is logged and reported in the output but never fails the
// create. The new memory becomes searchable only after a later sync.
func (u *UseCase) Remember(ctx context.Context, input *RememberInput) (*RememberOutput, error) {
	if input == nil || input.Content == "" {
		return nil, model.ValidationError("content must not be empty", "content", "")
	}

	m := model.NewMemory(input.Content, input.Tags, input.Source)
	m.CreatedAt = u.now().UTC()

	if err := u.repo.PutMemory(ctx, m); err != nil {
		return nil, goerr.Wrap(err, "failed to save memory")
	}

	out := &RememberOutput{Memory: m}

	sync, err := u.idx.TriggerResync(ctx)
	if err != nil {
		// Transport failure of the follow-up sync: the memory is
		// already durable, so surface the failure as status only
		logging.From(ctx).Warn("index sync failed after create",
			"memory_id", m.ID, "error", err)
		return out, nil
	}

	out.Sync = sync
	return out, nil
}
