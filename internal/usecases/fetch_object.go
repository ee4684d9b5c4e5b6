// Package usecases orchestrates fetching and normalization into the
// view models the presentation layer consumes.
package usecases

import (
	"context"
	"time"

	"fediview/internal/adapters/fetch"
	"fediview/internal/domain"
	"fediview/internal/metrics"
	"fediview/pkg/log"
)

// ObjectFetcher fetches one federated object anonymously.
type ObjectFetcher interface {
	FetchObject(ctx context.Context, url string) (*fetch.Result, error)
}

// ActorLookup resolves an actor URI to its authoritative identity record.
type ActorLookup interface {
	LookupActor(ctx context.Context, actorURL string) (*domain.ActorRecord, error)
}

// FetchCache caches raw fetch results by object URL.
type FetchCache interface {
	Get(ctx context.Context, url string) (*fetch.Result, bool)
	Set(ctx context.Context, url string, result *fetch.Result)
}

// FetchObjectUseCase retrieves objects with a cache-first strategy.
// Only successful results are cached; errors always retry upstream.
type FetchObjectUseCase struct {
	cache   FetchCache
	fetcher ObjectFetcher
	metrics *metrics.Metrics
}

// NewFetchObjectUseCase creates a new FetchObjectUseCase.
func NewFetchObjectUseCase(cache FetchCache, fetcher ObjectFetcher) *FetchObjectUseCase {
	return &FetchObjectUseCase{
		cache:   cache,
		fetcher: fetcher,
		metrics: metrics.New(),
	}
}

// Execute retrieves an object, checking the cache first.
func (uc *FetchObjectUseCase) Execute(ctx context.Context, url string) (*fetch.Result, error) {
	if result, found := uc.cache.Get(ctx, url); found {
		log.GlobalDebugCtx(ctx, "cache hit", "url", url)
		uc.metrics.CacheTotal.WithLabelValues("hit").Inc()
		return result, nil
	}

	log.GlobalDebugCtx(ctx, "cache miss, fetching", "url", url)
	uc.metrics.CacheTotal.WithLabelValues("miss").Inc()

	start := time.Now()
	result, err := uc.fetcher.FetchObject(ctx, url)
	status := "ok"
	if err != nil {
		status = "error"
	}
	uc.metrics.FetchTotal.WithLabelValues("object", status).Inc()
	uc.metrics.FetchDuration.WithLabelValues("object", status).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	uc.cache.Set(ctx, url, result)

	return result, nil
}
