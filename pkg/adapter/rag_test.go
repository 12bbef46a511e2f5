package adapter_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/engram-dev/engram/pkg/adapter"
	"github.com/engram-dev/engram/pkg/model"
	"github.com/m-mizutani/gt"
)

func TestSearch(t *testing.T) {
	ctx := context.Background()

	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Equal(t, r.Method, http.MethodPost)
		gt.Equal(t, r.URL.Path, "/search")
		gt.Equal(t, r.Header.Get("Authorization"), "Bearer test-key")
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"result": map[string]any{
				"data": []map[string]any{
					{
						"file_id": "memories/abc.json",
						"score":   0.82,
						"content": []map[string]any{
							{"type": "text", "text": "Always use tabs"},
						},
					},
				},
			},
		})
	}))
	defer srv.Close()

	client := adapter.NewRag(srv.URL, "test-key")

	results, err := client.Search(ctx, &adapter.SearchInput{
		Query:          "tabs vs spaces",
		MaxResults:     5,
		RewriteQuery:   true,
		ScoreThreshold: 0.3,
	})
	gt.NoError(t, err)
	gt.A(t, results).Length(1)
	gt.Equal(t, results[0].FileID, "memories/abc.json")
	gt.Equal(t, results[0].Score, 0.82)
	gt.A(t, results[0].Content).Length(1)
	gt.Equal(t, results[0].Content[0].Text, "Always use tabs")

	gt.Equal(t, gotBody["query"], "tabs vs spaces")
	gt.Equal(t, gotBody["rewrite_query"], true)
	gt.Equal(t, gotBody["max_num_results"], any(float64(5)))
	ranking := gotBody["ranking_options"].(map[string]any)
	gt.Equal(t, ranking["score_threshold"], 0.3)
}

func TestRequestSyncAccepted(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Equal(t, r.Method, http.MethodPatch)
		gt.Equal(t, r.URL.Path, "/sync")

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"result":  map[string]any{"job_id": "job-42"},
		})
	}))
	defer srv.Close()

	client := adapter.NewRag(srv.URL, "test-key")

	resp, err := client.RequestSync(ctx)
	gt.NoError(t, err)
	gt.True(t, resp.Success)
	gt.Equal(t, resp.JobID, "job-42")
}

func TestRequestSyncRejected(t *testing.T) {
	ctx := context.Background()

	// A well-formed rejection is a normal response, not an error
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"errors": []map[string]any{
				{"message": "index is already rebuilding"},
			},
		})
	}))
	defer srv.Close()

	client := adapter.NewRag(srv.URL, "test-key")

	resp, err := client.RequestSync(ctx)
	gt.NoError(t, err)
	gt.False(t, resp.Success)
	gt.A(t, resp.Errors).Length(1)
	gt.Equal(t, resp.Errors[0].Message, "index is already rebuilding")
}

func TestRequestSyncTransportFailure(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := adapter.NewRag(srv.URL, "test-key")

	_, err := client.RequestSync(ctx)
	gt.Error(t, err)
	gt.True(t, model.IsTransport(err))
}

func TestSearchTransportFailure(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := adapter.NewRag(srv.URL, "test-key")

	_, err := client.Search(ctx, &adapter.SearchInput{Query: "anything", MaxResults: 5})
	gt.Error(t, err)
	gt.True(t, model.IsTransport(err))
}
