package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/engram-dev/engram/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// SearchInput is a semantic search request to the RAG service
type SearchInput struct {
	Query          string  `json:"query"`
	MaxResults     int     `json:"max_num_results"`
	RewriteQuery   bool    `json:"rewrite_query"`
	ScoreThreshold float64 `json:"score_threshold"`
}

// Chunk is one piece of content returned for a matched document
type Chunk struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SearchResult is one ranked match from the RAG service
type SearchResult struct {
	FileID  string  `json:"file_id"`
	Score   float64 `json:"score"`
	Content []Chunk `json:"content"`
}

// SyncResponse is the provider's answer to a reindex request.
// Success=false with Errors populated is a normal, well-formed
// response, not a transport failure.
type SyncResponse struct {
	Success bool
	JobID   string
	Errors  []SyncError
}

type SyncError struct {
	Message string `json:"message"`
}

// SearchProvider is the interface for the managed semantic index.
// Indexing is asynchronous on the provider side; RequestSync only
// asks for a rebuild and never waits for completion.
type SearchProvider interface {
	Search(ctx context.Context, input *SearchInput) ([]SearchResult, error)
	RequestSync(ctx context.Context) (*SyncResponse, error)
}

// ragClient implements SearchProvider against the RAG service's REST API
type ragClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// RagOption is a functional option for the RAG client
type RagOption func(*ragClient)

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(c *http.Client) RagOption {
	return func(r *ragClient) {
		r.httpClient = c
	}
}

// NewRag creates a new RAG service client
func NewRag(baseURL, apiKey string, opts ...RagOption) SearchProvider {
	r := &ragClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// envelope is the provider's common response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
	Errors  []SyncError     `json:"errors"`
}

func (r *ragClient) Search(ctx context.Context, input *SearchInput) ([]SearchResult, error) {
	body := map[string]any{
		"query":           input.Query,
		"rewrite_query":   input.RewriteQuery,
		"max_num_results": input.MaxResults,
		"ranking_options": map[string]any{
			"score_threshold": input.ScoreThreshold,
		},
	}

	env, err := r.call(ctx, http.MethodPost, "/search", body)
	if err != nil {
		return nil, err
	}

	if !env.Success {
		return nil, goerr.New("search request rejected",
			goerr.T(model.ErrTagTransport),
			goerr.V("reason", firstErrorMessage(env.Errors)))
	}

	var result struct {
		Data []SearchResult `json:"data"`
	}
	if err := json.Unmarshal(env.Result, &result); err != nil {
		return nil, goerr.Wrap(err, "failed to decode search result", goerr.T(model.ErrTagTransport))
	}

	return result.Data, nil
}

func (r *ragClient) RequestSync(ctx context.Context) (*SyncResponse, error) {
	env, err := r.call(ctx, http.MethodPatch, "/sync", nil)
	if err != nil {
		return nil, err
	}

	resp := &SyncResponse{
		Success: env.Success,
		Errors:  env.Errors,
	}

	if env.Success {
		var result struct {
			JobID string `json:"job_id"`
		}
		if err := json.Unmarshal(env.Result, &result); err != nil {
			return nil, goerr.Wrap(err, "failed to decode sync result", goerr.T(model.ErrTagTransport))
		}
		resp.JobID = result.JobID
	}

	return resp, nil
}

// call sends one request and decodes the response envelope. Any
// failure to obtain a well-formed envelope is a transport error.
func (r *ragClient) call(ctx context.Context, method, path string, body any) (*envelope, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to marshal request body")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reqBody)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request", goerr.T(model.ErrTagTransport))
	}

	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to send request", goerr.T(model.ErrTagTransport), goerr.V("path", path))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, goerr.New("RAG service returned error",
			goerr.T(model.ErrTagTransport),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(data)))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, goerr.Wrap(err, "failed to decode response", goerr.T(model.ErrTagTransport))
	}

	return &env, nil
}

func firstErrorMessage(errs []SyncError) string {
	if len(errs) == 0 {
		return ""
	}
	return errs[0].Message
}
