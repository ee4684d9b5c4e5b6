package usecases

import (
	"context"
	"sync"

	"fediview/internal/domain"
)

// Session serializes resolutions for one viewing surface. Triggering a
// new resolution supersedes the previous one: its context is cancelled
// and, if it still completes, its tree is discarded on arrival rather
// than merged with newer state.
type Session struct {
	resolver *ResolveThreadUseCase

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

// NewSession creates a session around a resolver.
func NewSession(resolver *ResolveThreadUseCase) *Session {
	return &Session{resolver: resolver}
}

// Resolve resolves a chain, superseding any in-flight resolution of this
// session. The second return value is false when this call was itself
// superseded before completing; the partial tree must not be shown.
func (s *Session) Resolve(ctx context.Context, objectURI string, maxDepth int) (*domain.ResolutionNode, bool) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.generation++
	generation := s.generation
	s.mu.Unlock()

	node := s.resolver.Execute(runCtx, objectURI, maxDepth)

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return nil, false
	}
	cancel()
	s.cancel = nil
	return node, true
}
