package usecases_test

import (
	"context"
	"sync"
	"testing"

	"fediview/internal/adapters/fetch"
	"fediview/internal/usecases"
	"fediview/test/fixtures"
)

// blockingFetcher parks fetches for chosen URLs until their context is
// cancelled, signalling when the fetch has started.
type blockingFetcher struct {
	inner   *stubFetcher
	mu      sync.Mutex
	blocked map[string]chan struct{}
}

func newBlockingFetcher(inner *stubFetcher) *blockingFetcher {
	return &blockingFetcher{inner: inner, blocked: make(map[string]chan struct{})}
}

func (f *blockingFetcher) blockURL(url string) chan struct{} {
	started := make(chan struct{})
	f.mu.Lock()
	f.blocked[url] = started
	f.mu.Unlock()
	return started
}

func (f *blockingFetcher) FetchObject(ctx context.Context, url string) (*fetch.Result, error) {
	f.mu.Lock()
	started := f.blocked[url]
	f.mu.Unlock()

	if started != nil {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.inner.FetchObject(ctx, url)
}

func TestSession_Resolve_ReturnsTree(t *testing.T) {
	// Arrange
	a := "https://social.example/a"
	fetcher := newStubFetcher()
	fetcher.addObject(t, a, fixtures.GenerateBasicNote())
	objects := usecases.NewFetchObjectUseCase(newMapCache(), fetcher)
	session := usecases.NewSession(usecases.NewResolveThreadUseCase(objects, &stubLookup{}, upperSanitizer{}))

	// Act
	node, current := session.Resolve(context.Background(), a, 3)

	// Assert
	if !current {
		t.Fatal("an unsuperseded resolution should be current")
	}
	if node == nil || node.Post == nil {
		t.Errorf("got %+v, want a resolved tree", node)
	}
}

func TestSession_NewResolutionSupersedesInFlightOne(t *testing.T) {
	// Arrange
	slow := "https://social.example/slow"
	quick := "https://social.example/quick"
	stub := newStubFetcher()
	stub.addObject(t, quick, fixtures.GenerateBasicNote())
	fetcher := newBlockingFetcher(stub)
	started := fetcher.blockURL(slow)

	objects := usecases.NewFetchObjectUseCase(newMapCache(), fetcher)
	session := usecases.NewSession(usecases.NewResolveThreadUseCase(objects, &stubLookup{}, upperSanitizer{}))

	firstDone := make(chan bool)
	go func() {
		_, current := session.Resolve(context.Background(), slow, 3)
		firstDone <- current
	}()
	<-started

	// Act
	_, secondCurrent := session.Resolve(context.Background(), quick, 3)
	firstCurrent := <-firstDone

	// Assert
	if !secondCurrent {
		t.Error("the newer resolution should be current")
	}
	if firstCurrent {
		t.Error("the superseded resolution must be discarded")
	}
}
