package model

import (
	"time"

	"github.com/google/uuid"
)

type MemoryID string

// NewMemoryID generates a new unique MemoryID
func NewMemoryID() MemoryID {
	return MemoryID(uuid.New().String())
}

// Source records how a memory came into existence
type Source string

const (
	// SourceUser means the user explicitly asked to remember something
	SourceUser Source = "user"
	// SourceAuto means the assistant inferred the memory on its own
	SourceAuto Source = "auto"
)

// ParseSource validates a source string. Empty input defaults to SourceUser.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case "":
		return SourceUser, nil
	case SourceUser, SourceAuto:
		return Source(s), nil
	default:
		return "", ValidationError("unknown source", "source", s)
	}
}

// Memory is a single remembered note. Memories are immutable after
// creation; the only mutation is deletion.
type Memory struct {
	ID        MemoryID  `json:"id"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Source    Source    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMemory builds a Memory with a fresh ID and the current time.
// Content validation belongs to the usecase layer.
func NewMemory(content string, tags []string, source Source) *Memory {
	if tags == nil {
		tags = []string{}
	}
	if source == "" {
		source = SourceUser
	}

	return &Memory{
		ID:        NewMemoryID(),
		Content:   content,
		Tags:      tags,
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}
}

// Provenance tells whether a search result was decoded back from the
// stored record or reconstructed from raw provider text.
type Provenance string

const (
	// ProvenanceRecovered means the stored record decoded cleanly
	ProvenanceRecovered Provenance = "recovered"
	// ProvenanceSynthetic means the record was rebuilt from provider text
	ProvenanceSynthetic Provenance = "synthetic"
)

// ScoredMemory is a search result: a Memory with the provider's
// relevance score attached. Never persisted.
type ScoredMemory struct {
	Memory     *Memory    `json:"memory"`
	Score      float64    `json:"score"`
	Provenance Provenance `json:"provenance"`
}
