package index

import (
	"context"

	"github.com/engram-dev/engram/pkg/adapter"
	"github.com/engram-dev/engram/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// SyncStatus is the outcome of a reindex request. Accepted only means
// the provider took the job; completion is never awaited.
type SyncStatus struct {
	Accepted bool   `json:"accepted"`
	JobID    string `json:"job_id,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Controller asks the search provider to rebuild its index over the
// current store contents. A provider-reported rejection is a normal
// SyncStatus, never an error; only transport failures propagate.
type Controller struct {
	provider adapter.SearchProvider
}

// NewController creates a new index sync controller
func NewController(provider adapter.SearchProvider) *Controller {
	return &Controller{
		provider: provider,
	}
}

// TriggerResync requests a reindex of the store contents.
func (c *Controller) TriggerResync(ctx context.Context) (*SyncStatus, error) {
	resp, err := c.provider.RequestSync(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to request index sync")
	}

	if !resp.Success {
		reason := "unknown error"
		if len(resp.Errors) > 0 && resp.Errors[0].Message != "" {
			reason = resp.Errors[0].Message
		}

		logging.From(ctx).Warn("index sync rejected by provider", "reason", reason)

		return &SyncStatus{
			Accepted: false,
			Reason:   reason,
		}, nil
	}

	logging.From(ctx).Debug("index sync accepted", "job_id", resp.JobID)

	return &SyncStatus{
		Accepted: true,
		JobID:    resp.JobID,
	}, nil
}
