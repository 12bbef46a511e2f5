package memory

import (
	"time"

	"github.com/engram-dev/engram/pkg/adapter"
	"github.com/engram-dev/engram/pkg/repository"
	"github.com/engram-dev/engram/pkg/service/index"
)

// UseCase provides memory lifecycle operations. It is constructed
// once at process start and shared by every surface (REST, MCP, CLI).
type UseCase struct {
	repo   repository.Repository
	idx    *index.Controller
	search adapter.SearchProvider
	now    func() time.Time
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithNow overrides the clock, mainly for tests
func WithNow(now func() time.Time) Option {
	return func(uc *UseCase) {
		uc.now = now
	}
}

// New creates a new memory UseCase instance
func New(
	repo repository.Repository,
	idx *index.Controller,
	search adapter.SearchProvider,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		repo:   repo,
		idx:    idx,
		search: search,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
