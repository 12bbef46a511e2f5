package index_test

import (
	"context"
	"testing"

	"github.com/engram-dev/engram/pkg/adapter"
	"github.com/engram-dev/engram/pkg/service/index"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

// mockProvider implements adapter.SearchProvider
type mockProvider struct {
	syncResp *adapter.SyncResponse
	syncErr  error
}

func (m *mockProvider) Search(ctx context.Context, input *adapter.SearchInput) ([]adapter.SearchResult, error) {
	return nil, nil
}

func (m *mockProvider) RequestSync(ctx context.Context) (*adapter.SyncResponse, error) {
	return m.syncResp, m.syncErr
}

func TestTriggerResyncAccepted(t *testing.T) {
	ctrl := index.NewController(&mockProvider{
		syncResp: &adapter.SyncResponse{Success: true, JobID: "job-1"},
	})

	status, err := ctrl.TriggerResync(context.Background())
	gt.NoError(t, err)
	gt.True(t, status.Accepted)
	gt.Equal(t, status.JobID, "job-1")
	gt.Equal(t, status.Reason, "")
}

func TestTriggerResyncRejected(t *testing.T) {
	ctrl := index.NewController(&mockProvider{
		syncResp: &adapter.SyncResponse{
			Success: false,
			Errors: []adapter.SyncError{
				{Message: "quota exceeded"},
				{Message: "secondary detail"},
			},
		},
	})

	status, err := ctrl.TriggerResync(context.Background())
	gt.NoError(t, err)
	gt.False(t, status.Accepted)
	gt.Equal(t, status.Reason, "quota exceeded")
}

func TestTriggerResyncRejectedWithoutDetail(t *testing.T) {
	ctrl := index.NewController(&mockProvider{
		syncResp: &adapter.SyncResponse{Success: false},
	})

	status, err := ctrl.TriggerResync(context.Background())
	gt.NoError(t, err)
	gt.False(t, status.Accepted)
	gt.Equal(t, status.Reason, "unknown error")
}

func TestTriggerResyncTransportFailure(t *testing.T) {
	ctrl := index.NewController(&mockProvider{
		syncErr: goerr.New("connection refused"),
	})

	_, err := ctrl.TriggerResync(context.Background())
	gt.Error(t, err)
}
