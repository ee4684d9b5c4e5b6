package usecases

import (
	"context"
	"errors"
	"time"

	"fediview/internal/activitypub"
	"fediview/internal/adapters/fetch"
	"fediview/internal/domain"
	"fediview/internal/metrics"
	"fediview/pkg/log"
)

// DefaultMaxDepth bounds the quote chain. Nesting depth is controlled by
// the remote server, so the bound is the only thing standing between us
// and an infinite (or cyclic) chain.
const DefaultMaxDepth = 3

// Sanitizer turns untrusted markup into safe renderable markup.
type Sanitizer interface {
	Sanitize(html string) string
}

// ResolveThreadUseCase resolves an object and its chain of quoted
// objects into a depth-bounded tree of nodes. Failures never propagate
// upward: an error at depth N leaves depths 0..N-1 fully resolved.
type ResolveThreadUseCase struct {
	objects   *FetchObjectUseCase
	lookup    ActorLookup
	sanitizer Sanitizer
	metrics   *metrics.Metrics
}

// NewResolveThreadUseCase creates a new ResolveThreadUseCase.
func NewResolveThreadUseCase(objects *FetchObjectUseCase, lookup ActorLookup, sanitizer Sanitizer) *ResolveThreadUseCase {
	return &ResolveThreadUseCase{
		objects:   objects,
		lookup:    lookup,
		sanitizer: sanitizer,
		metrics:   metrics.New(),
	}
}

// Execute resolves the chain rooted at objectURI. maxDepth values below 1
// fall back to DefaultMaxDepth.
func (uc *ResolveThreadUseCase) Execute(ctx context.Context, objectURI string, maxDepth int) *domain.ResolutionNode {
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}
	return uc.resolveNode(ctx, objectURI, 0, maxDepth)
}

// resolveNode drives one node through its lifecycle and, on success,
// chains into the post's quote reference at depth+1. Depth is fixed at
// creation; a node at the bound is a terminal leaf and costs no fetch.
func (uc *ResolveThreadUseCase) resolveNode(ctx context.Context, objectURI string, depth, maxDepth int) *domain.ResolutionNode {
	node := &domain.ResolutionNode{
		Depth:     depth,
		ObjectURI: objectURI,
		State:     domain.NodeIdle,
	}
	defer func() {
		uc.metrics.ResolveNodeTotal.WithLabelValues(string(node.State)).Inc()
	}()

	if depth >= maxDepth {
		node.State = domain.NodeDepthExceeded
		return node
	}

	node.State = domain.NodeLoading

	result, err := uc.objects.Execute(ctx, objectURI)
	if err != nil {
		node.State = domain.NodeErrored
		node.Err = resolveError(err)
		log.GlobalWarnCtx(ctx, "quote fetch failed",
			"url", objectURI, "depth", depth, "code", node.Err.Code)
		return node
	}

	node.State = domain.NodeResolved

	obj := result.Object()
	if obj == nil {
		// Non-object payloads resolve to an empty view, not an error.
		return node
	}

	post := activitypub.Normalize(obj)
	if post.ContentHTML != "" && uc.sanitizer != nil {
		post.ContentHTML = uc.sanitizer.Sanitize(post.ContentHTML)
	}
	node.Post = post

	author := uc.resolveAuthor(ctx, obj, result.SignedMedia)
	node.Author = &author

	if post.QuoteRef != "" && ctx.Err() == nil {
		node.Child = uc.resolveNode(ctx, post.QuoteRef, depth+1, maxDepth)
	}

	return node
}

// resolveAuthor runs the second, non-recursive lookup for the object's
// attribution and merges the two signed-media maps; on collision the
// actor lookup's token wins.
func (uc *ResolveThreadUseCase) resolveAuthor(ctx context.Context, obj map[string]any, signedMedia map[string]string) domain.Identity {
	attributedTo := obj["attributedTo"]

	var record *domain.ActorRecord
	if actorURI := attributionURI(attributedTo); actorURI != "" && uc.lookup != nil {
		var err error
		start := time.Now()
		record, err = uc.lookup.LookupActor(ctx, actorURI)
		status := "ok"
		if err != nil {
			status = "error"
		}
		uc.metrics.FetchTotal.WithLabelValues("actor", status).Inc()
		uc.metrics.FetchDuration.WithLabelValues("actor", status).Observe(time.Since(start).Seconds())
		if err != nil {
			log.GlobalDebugCtx(ctx, "actor lookup failed", "actor", actorURI, "error", err)
			record = nil
		}
	}

	identity := activitypub.ResolveAttribution(record, attributedTo)

	merged := make(map[string]string, len(signedMedia)+len(identity.SignedMedia))
	for url, sig := range signedMedia {
		merged[url] = sig
	}
	for url, sig := range identity.SignedMedia {
		merged[url] = sig
	}
	identity.SignedMedia = merged

	return identity
}

// attributionURI pulls the actor URI out of either attribution shape.
func attributionURI(attributedTo any) string {
	switch attr := attributedTo.(type) {
	case string:
		return attr
	case map[string]any:
		id, _ := attr["id"].(string)
		return id
	}
	return ""
}

// resolveError classifies a fetch failure for per-node display: upstream
// HTTP errors keep their status and message, everything else (transport,
// parse) is surfaced as a 500.
func resolveError(err error) *domain.ResolveError {
	var statusErr *fetch.StatusError
	if errors.As(err, &statusErr) {
		return &domain.ResolveError{Code: statusErr.Code, Message: statusErr.Message}
	}
	return &domain.ResolveError{Code: 500, Message: domain.ErrFetchFailed.Error()}
}
