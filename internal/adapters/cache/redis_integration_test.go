//go:build integration

package cache_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"fediview/internal/adapters/cache"
	"fediview/internal/adapters/fetch"
)

// setupRedisContainer starts a Redis container and returns a connected
// client plus a cleanup function.
func setupRedisContainer(ctx context.Context, t *testing.T) (*redis.Client, func()) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("failed to get port: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", host, port.Port()),
	})

	cleanup := func() {
		client.Close()
		container.Terminate(ctx)
	}
	return client, cleanup
}

func TestRedisCache_SetAndGet_RoundTrips(t *testing.T) {
	// Arrange
	ctx := context.Background()
	client, cleanup := setupRedisContainer(ctx, t)
	defer cleanup()

	c := cache.NewRedisCache(client, 5*time.Minute)
	result := &fetch.Result{
		Success:     true,
		URL:         "https://social.example/note/1",
		StatusCode:  200,
		ContentType: "application/activity+json",
		Content:     map[string]any{"type": "Note", "content": "<p>hi</p>"},
		SignedMedia: map[string]string{"https://files.example/a.png": "tok"},
	}

	// Act
	c.Set(ctx, result.URL, result)
	got, found := c.Get(ctx, result.URL)

	// Assert
	if !found {
		t.Fatal("expected the result to be found")
	}
	if got.URL != result.URL || !got.Success {
		t.Errorf("got %+v", got)
	}
	obj := got.Object()
	if obj == nil || obj["type"] != "Note" {
		t.Errorf("content: got %v", got.Content)
	}
	if got.SignedMedia["https://files.example/a.png"] != "tok" {
		t.Errorf("signed media: got %v", got.SignedMedia)
	}
}

func TestRedisCache_GetNonExistent_ReturnsNotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	client, cleanup := setupRedisContainer(ctx, t)
	defer cleanup()

	c := cache.NewRedisCache(client, 5*time.Minute)

	// Act
	_, found := c.Get(ctx, "https://social.example/note/missing")

	// Assert
	if found {
		t.Error("expected a miss")
	}
}

func TestRedisCache_ExpiredEntry_ReturnsNotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	client, cleanup := setupRedisContainer(ctx, t)
	defer cleanup()

	c := cache.NewRedisCache(client, 50*time.Millisecond)
	c.Set(ctx, "https://social.example/note/1", &fetch.Result{Success: true})

	// Act
	time.Sleep(200 * time.Millisecond)
	_, found := c.Get(ctx, "https://social.example/note/1")

	// Assert
	if found {
		t.Error("expected the entry to have expired")
	}
}
