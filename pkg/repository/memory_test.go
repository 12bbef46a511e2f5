package repository_test

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/engram-dev/engram/pkg/adapter"
	"github.com/engram-dev/engram/pkg/model"
	"github.com/engram-dev/engram/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

// mockObjectStore is an in-memory ObjectStore with offset-based cursors
type mockObjectStore struct {
	blobs    map[string][]byte
	metadata map[string]map[string]string
}

func newMockObjectStore() *mockObjectStore {
	return &mockObjectStore{
		blobs:    make(map[string][]byte),
		metadata: make(map[string]map[string]string),
	}
}

func (m *mockObjectStore) Put(ctx context.Context, key string, data []byte, metadata map[string]string) error {
	m.blobs[key] = data
	m.metadata[key] = metadata
	return nil
}

func (m *mockObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, ok := m.blobs[key]
	if !ok {
		return nil, goerr.New("object not found", goerr.T(model.ErrTagNotFound), goerr.V("key", key))
	}
	return data, nil
}

func (m *mockObjectStore) Delete(ctx context.Context, key string) error {
	delete(m.blobs, key)
	delete(m.metadata, key)
	return nil
}

func (m *mockObjectStore) List(ctx context.Context, prefix, cursor string, limit int) (*adapter.ListResult, error) {
	var keys []string
	for k := range m.blobs {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil {
			return nil, goerr.New("invalid cursor", goerr.V("cursor", cursor))
		}
		start = n
	}

	end := start + limit
	if end > len(keys) {
		end = len(keys)
	}

	result := &adapter.ListResult{}
	for _, k := range keys[start:end] {
		result.Items = append(result.Items, adapter.ObjectRef{
			Key:      k,
			Metadata: m.metadata[k],
		})
	}
	if end < len(keys) {
		result.NextCursor = strconv.Itoa(end)
	}

	return result, nil
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMockObjectStore()
	repo := repository.New(store)

	m := model.NewMemory("prefer table-driven tests", []string{"style", "testing"}, model.SourceUser)
	gt.NoError(t, repo.PutMemory(ctx, m))

	got, err := repo.GetMemory(ctx, m.ID)
	gt.NoError(t, err)
	gt.Equal(t, got.ID, m.ID)
	gt.Equal(t, got.Content, m.Content)
	gt.Equal(t, got.Tags, m.Tags)
	gt.Equal(t, got.Source, m.Source)
	gt.True(t, got.CreatedAt.Equal(m.CreatedAt))
}

func TestMetadataSideFields(t *testing.T) {
	ctx := context.Background()
	store := newMockObjectStore()
	repo := repository.New(store)

	m := model.NewMemory("always run linters", []string{"ci", "lint"}, model.SourceAuto)
	gt.NoError(t, repo.PutMemory(ctx, m))

	key := "memories/" + string(m.ID) + ".json"
	meta := store.metadata[key]
	gt.V(t, meta).NotNil()
	gt.Equal(t, meta["tags"], "ci,lint")
	gt.Equal(t, meta["source"], "auto")

	created, err := time.Parse(time.RFC3339, meta["created_at"])
	gt.NoError(t, err)
	gt.True(t, created.Equal(m.CreatedAt.Truncate(time.Second)) || created.Equal(m.CreatedAt))
}

func TestGetNotFound(t *testing.T) {
	ctx := context.Background()
	repo := repository.New(newMockObjectStore())

	_, err := repo.GetMemory(ctx, "no-such-id")
	gt.Error(t, err)
	gt.True(t, model.IsNotFound(err))
}

func TestDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := repository.New(newMockObjectStore())

	m := model.NewMemory("temporary note", nil, "")
	gt.NoError(t, repo.PutMemory(ctx, m))

	gt.NoError(t, repo.DeleteMemory(ctx, m.ID))

	_, err := repo.GetMemory(ctx, m.ID)
	gt.True(t, model.IsNotFound(err))

	// Second delete of the same ID must also succeed
	gt.NoError(t, repo.DeleteMemory(ctx, m.ID))

	// As must deleting an ID that never existed
	gt.NoError(t, repo.DeleteMemory(ctx, "never-existed"))
}

func TestPaginationExhaustion(t *testing.T) {
	ctx := context.Background()
	repo := repository.New(newMockObjectStore())

	want := map[model.MemoryID]bool{}
	for i := 0; i < 5; i++ {
		m := model.NewMemory("note "+strconv.Itoa(i), nil, "")
		gt.NoError(t, repo.PutMemory(ctx, m))
		want[m.ID] = true
	}

	seen := map[model.MemoryID]bool{}
	cursor := ""
	pages := 0
	for {
		out, err := repo.ListMemories(ctx, cursor, 1)
		gt.NoError(t, err)
		gt.A(t, out.Memories).Length(1)

		id := out.Memories[0].ID
		gt.False(t, seen[id])
		seen[id] = true

		pages++
		gt.True(t, pages <= len(want))

		if out.NextCursor == "" {
			break
		}
		cursor = out.NextCursor
	}

	gt.Equal(t, seen, want)
}
