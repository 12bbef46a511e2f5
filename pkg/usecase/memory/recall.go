package memory

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/engram-dev/engram/pkg/adapter"
	"github.com/engram-dev/engram/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// defaultRecallLimit applies when the caller gives no limit
	defaultRecallLimit = 5
	// maxRecallLimit caps any requested limit to bound provider cost
	maxRecallLimit = 50
	// scoreThreshold drops near-zero matches at the provider
	scoreThreshold = 0.3
)

// RecallInput is a semantic search request
type RecallInput struct {
	Query string
	Limit int
}

// Recall searches the provider's index and reconstructs typed
// memories from the ranked results.
func (u *UseCase) Recall(ctx context.Context, input *RecallInput) ([]*model.ScoredMemory, error) {
	if input == nil || input.Query == "" {
		return nil, model.ValidationError("query must not be empty", "query", "")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultRecallLimit
	}
	if limit > maxRecallLimit {
		limit = maxRecallLimit
	}

	results, err := u.search.Search(ctx, &adapter.SearchInput{
		Query:          input.Query,
		MaxResults:     limit,
		RewriteQuery:   true,
		ScoreThreshold: scoreThreshold,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search memories")
	}

	memories := make([]*model.ScoredMemory, 0, len(results))
	for _, result := range results {
		memories = append(memories, u.normalize(&result))
	}

	return memories, nil
}

// normalize rebuilds a domain memory from one provider result. The
// stored blob is the serialized memory itself, so a strict decode of
// the concatenated text chunks is the expected path. Anything that
// does not decode cleanly degrades to a synthetic memory rather than
// failing the whole response.
func (u *UseCase) normalize(result *adapter.SearchResult) *model.ScoredMemory {
	var parts []string
	for _, chunk := range result.Content {
		if chunk.Type == "text" {
			parts = append(parts, chunk.Text)
		}
	}
	text := strings.Join(parts, "\n")

	if m, ok := decodeMemory(text); ok {
		return &model.ScoredMemory{
			Memory:     m,
			Score:      result.Score,
			Provenance: model.ProvenanceRecovered,
		}
	}

	// The true creation time is unrecoverable from this payload shape
	return &model.ScoredMemory{
		Memory: &model.Memory{
			ID:        model.MemoryID(result.FileID),
			Content:   text,
			Tags:      []string{},
			Source:    model.SourceAuto,
			CreatedAt: u.now().UTC(),
		},
		Score:      result.Score,
		Provenance: model.ProvenanceSynthetic,
	}
}

// decodeMemory attempts a strict decode of text as a stored memory
func decodeMemory(text string) (*model.Memory, bool) {
	var m model.Memory
	if err := json.Unmarshal([]byte(text), &m); err != nil {
		return nil, false
	}
	if m.ID == "" || m.Content == "" {
		return nil, false
	}
	if m.Tags == nil {
		m.Tags = []string{}
	}
	return &m, true
}
