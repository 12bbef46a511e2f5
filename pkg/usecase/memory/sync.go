package memory

import (
	"context"

	"github.com/engram-dev/engram/pkg/service/index"
)

// Resync requests a manual reindex of the store contents
func (u *UseCase) Resync(ctx context.Context) (*index.SyncStatus, error) {
	return u.idx.TriggerResync(ctx)
}
