package adapter

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"
	"github.com/engram-dev/engram/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

// ObjectRef is one entry of a listing: the object key plus the
// queryable metadata stored alongside the blob.
type ObjectRef struct {
	Key      string
	Metadata map[string]string
}

// ListResult is one page of a listing. NextCursor is empty when the
// listing is exhausted.
type ListResult struct {
	Items      []ObjectRef
	NextCursor string
}

// ObjectStore is the interface for durable record storage
type ObjectStore interface {
	// Put writes data under key with queryable metadata attached
	Put(ctx context.Context, key string, data []byte, metadata map[string]string) error
	// Get loads the blob stored under key
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes the object under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// List returns up to limit objects under prefix, in store order
	List(ctx context.Context, prefix, cursor string, limit int) (*ListResult, error)
}

// storageClient implements ObjectStore using Cloud Storage
type storageClient struct {
	bucketName string
	client     *storage.Client
}

// NewStorage creates a new Cloud Storage client
func NewStorage(ctx context.Context, bucketName string) (ObjectStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.T(model.ErrTagStore))
	}

	return &storageClient{
		bucketName: bucketName,
		client:     client,
	}, nil
}

func (s *storageClient) Put(ctx context.Context, key string, data []byte, metadata map[string]string) error {
	obj := s.client.Bucket(s.bucketName).Object(key)

	w := obj.NewWriter(ctx)
	w.Metadata = metadata
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write object", goerr.T(model.ErrTagStore), goerr.V("key", key))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize object", goerr.T(model.ErrTagStore), goerr.V("key", key))
	}

	return nil
}

func (s *storageClient) Get(ctx context.Context, key string) ([]byte, error) {
	obj := s.client.Bucket(s.bucketName).Object(key)

	r, err := obj.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, goerr.Wrap(err, "object not found", goerr.T(model.ErrTagNotFound), goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to read object", goerr.T(model.ErrTagStore), goerr.V("key", key))
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read object body", goerr.T(model.ErrTagStore), goerr.V("key", key))
	}

	return data, nil
}

func (s *storageClient) Delete(ctx context.Context, key string) error {
	obj := s.client.Bucket(s.bucketName).Object(key)

	if err := obj.Delete(ctx); err != nil {
		// Deleting an already-absent object must stay idempotent
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return goerr.Wrap(err, "failed to delete object", goerr.T(model.ErrTagStore), goerr.V("key", key))
	}

	return nil
}

func (s *storageClient) List(ctx context.Context, prefix, cursor string, limit int) (*ListResult, error) {
	it := s.client.Bucket(s.bucketName).Objects(ctx, &storage.Query{Prefix: prefix})

	pager := iterator.NewPager(it, limit, cursor)

	var attrs []*storage.ObjectAttrs
	next, err := pager.NextPage(&attrs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list objects", goerr.T(model.ErrTagStore), goerr.V("prefix", prefix))
	}

	result := &ListResult{
		Items:      make([]ObjectRef, 0, len(attrs)),
		NextCursor: next,
	}
	for _, a := range attrs {
		result.Items = append(result.Items, ObjectRef{
			Key:      a.Name,
			Metadata: a.Metadata,
		})
	}

	return result, nil
}
