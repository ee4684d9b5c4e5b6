package web_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"fediview/internal/adapters/cache"
	"fediview/internal/adapters/fetch"
	"fediview/internal/adapters/web"
	"fediview/internal/media"
	"fediview/internal/sanitize"
	"fediview/internal/usecases"
	"fediview/test/fixtures"
)

// newTestApp wires the full stack against a throwaway signer and an
// in-memory cache.
func newTestApp(t *testing.T) (*fiber.App, *media.Signer) {
	t.Helper()

	signer := media.NewSigner("test-secret")
	client := fetch.NewClient(2*time.Second, signer)
	objects := usecases.NewFetchObjectUseCase(cache.NewMemoryCache(time.Minute), client)
	resolver := usecases.NewResolveThreadUseCase(objects, client, sanitize.New())
	limiter := web.NewRateLimiter(100, time.Minute)
	handlers := web.NewHandlers(objects, resolver, client, signer, limiter, 3)

	app := fiber.New()
	web.SetupRoutes(app, handlers)
	return app, signer
}

func get(t *testing.T, app *fiber.App, path string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req, 30000)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func TestHealth_ReturnsOK(t *testing.T) {
	// Arrange
	app, _ := newTestApp(t)

	// Act
	resp, body := get(t, app, "/api/health")

	// Assert
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	var payload map[string]string
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if payload["status"] != "ok" {
		t.Errorf("status field: got %q", payload["status"])
	}
}

func TestActivity_MissingURL_Returns400(t *testing.T) {
	// Arrange
	app, _ := newTestApp(t)

	// Act
	resp, body := get(t, app, "/api/activity")

	// Assert
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", resp.StatusCode)
	}
	if !strings.Contains(string(body), "URL is required") {
		t.Errorf("body: got %s", body)
	}
}

func TestActivity_FetchesAndReturnsObject(t *testing.T) {
	// Arrange
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/activity+json")
		w.Write([]byte(fixtures.GenerateSensitiveNote()))
	}))
	defer upstream.Close()
	app, _ := newTestApp(t)

	// Act
	resp, body := get(t, app, "/api/activity?url="+url.QueryEscape(upstream.URL))

	// Assert
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, body %s", resp.StatusCode, body)
	}
	var result fetch.Result
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if !result.Success || result.Object() == nil {
		t.Errorf("got %+v, want a decoded object", result)
	}
	if len(result.SignedMedia) == 0 {
		t.Error("expected signed media for the attachment")
	}
	if cc := resp.Header.Get("Cache-Control"); !strings.Contains(cc, "max-age=300") {
		t.Errorf("cache-control: got %q", cc)
	}
}

func TestActivity_UpstreamGone_ForwardsStatusAndMessage(t *testing.T) {
	// Arrange
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer upstream.Close()
	app, _ := newTestApp(t)

	// Act
	resp, body := get(t, app, "/api/activity?url="+url.QueryEscape(upstream.URL))

	// Assert
	if resp.StatusCode != http.StatusGone {
		t.Fatalf("status: got %d, want 410", resp.StatusCode)
	}
	if !strings.Contains(string(body), "Gone") {
		t.Errorf("body: got %s", body)
	}
}

func TestResolve_BuildsQuoteChainTree(t *testing.T) {
	// Arrange
	var upstream *httptest.Server
	upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/activity+json")
		switch r.URL.Path {
		case "/quoted":
			w.Write([]byte(fixtures.GenerateBasicNote()))
		default:
			w.Write([]byte(fixtures.GenerateQuoteNote(upstream.URL + "/quoted")))
		}
	}))
	defer upstream.Close()
	app, _ := newTestApp(t)

	// Act
	resp, body := get(t, app, "/api/resolve?url="+url.QueryEscape(upstream.URL+"/root"))

	// Assert
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, body %s", resp.StatusCode, body)
	}
	var node web.NodeView
	if err := json.Unmarshal(body, &node); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if node.State != "resolved" || node.Depth != 0 {
		t.Errorf("root: got %+v", node)
	}
	if node.Child == nil {
		t.Fatal("expected the quoted note as child")
	}
	if node.Child.State != "resolved" || node.Child.Depth != 1 {
		t.Errorf("child: got state %v depth %d", node.Child.State, node.Child.Depth)
	}
	if node.Child.Post == nil || !strings.Contains(node.Child.Post.ContentHTML, "Hello fediverse!") {
		t.Errorf("child post: got %+v", node.Child.Post)
	}
	if node.Child.Post.Visibility != "public" {
		t.Errorf("child visibility: got %q, want public", node.Child.Post.Visibility)
	}
}

func TestResolve_MissingURL_Returns400(t *testing.T) {
	// Arrange
	app, _ := newTestApp(t)

	// Act
	resp, _ := get(t, app, "/api/resolve")

	// Assert
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
}

func TestResolve_NonHTTPURL_Returns400(t *testing.T) {
	// Arrange
	app, _ := newTestApp(t)

	// Act
	resp, _ := get(t, app, "/api/resolve?url="+url.QueryEscape("ftp://social.example/a"))

	// Assert
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
}

func TestMedia_MissingSignature_Returns403(t *testing.T) {
	// Arrange
	app, _ := newTestApp(t)

	// Act
	resp, _ := get(t, app, "/api/media?url="+url.QueryEscape("https://files.example/a.png"))

	// Assert
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", resp.StatusCode)
	}
}

func TestMedia_InvalidSignature_Returns403(t *testing.T) {
	// Arrange
	app, _ := newTestApp(t)

	// Act
	resp, _ := get(t, app, "/api/media?url="+url.QueryEscape("https://files.example/a.png")+"&sig=forged")

	// Assert
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", resp.StatusCode)
	}
}

func TestMedia_SignedLocalTarget_Returns403(t *testing.T) {
	// Arrange
	app, signer := newTestApp(t)
	target := "http://127.0.0.1/secret.png"

	// Act
	resp, _ := get(t, app, "/api/media?url="+url.QueryEscape(target)+"&sig="+url.QueryEscape(signer.Sign(target)))

	// Assert
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", resp.StatusCode)
	}
}

func TestMedia_ValidSignature_ProxiesBytes(t *testing.T) {
	// Arrange
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	defer upstream.Close()
	app, signer := newTestApp(t)
	target := upstream.URL + "/a.png"

	// Act
	resp, body := get(t, app, "/api/media?url="+url.QueryEscape(target)+"&sig="+url.QueryEscape(signer.Sign(target)))

	// Assert
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, body %s", resp.StatusCode, body)
	}
	if string(body) != "png-bytes" {
		t.Errorf("body: got %q", body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content-type: got %q", ct)
	}
	if cc := resp.Header.Get("Cache-Control"); !strings.Contains(cc, "max-age=3600") {
		t.Errorf("cache-control: got %q", cc)
	}
}

func TestMedia_DisallowedContentType_Returns400(t *testing.T) {
	// Arrange
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html></html>"))
	}))
	defer upstream.Close()
	app, signer := newTestApp(t)
	target := upstream.URL + "/page"

	// Act
	resp, _ := get(t, app, "/api/media?url="+url.QueryEscape(target)+"&sig="+url.QueryEscape(signer.Sign(target)))

	// Assert
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
}

func TestWebfinger_MissingParams_Returns400(t *testing.T) {
	// Arrange
	app, _ := newTestApp(t)

	// Act
	resp, _ := get(t, app, "/api/webfinger")

	// Assert
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
}

func TestWebfinger_ActorURL_ReturnsIdentity(t *testing.T) {
	// Arrange
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/activity+json")
		w.Write([]byte(fixtures.GenerateActor()))
	}))
	defer upstream.Close()
	app, _ := newTestApp(t)

	// Act
	resp, body := get(t, app, "/api/webfinger?actor_url="+url.QueryEscape(upstream.URL+"/users/alice"))

	// Assert
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, body %s", resp.StatusCode, body)
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if payload["success"] != true {
		t.Errorf("success: got %v", payload["success"])
	}
	if payload["handle"] != "alice" {
		t.Errorf("handle: got %v", payload["handle"])
	}
	if _, ok := payload["_signed_media"].(map[string]any); !ok {
		t.Errorf("signed media: got %v", payload["_signed_media"])
	}
}

func TestRateLimitedEndpoint_Returns429(t *testing.T) {
	// Arrange
	signer := media.NewSigner("test-secret")
	client := fetch.NewClient(time.Second, signer)
	objects := usecases.NewFetchObjectUseCase(cache.NewMemoryCache(time.Minute), client)
	resolver := usecases.NewResolveThreadUseCase(objects, client, sanitize.New())
	handlers := web.NewHandlers(objects, resolver, client, signer, web.NewRateLimiter(0, time.Minute), 3)
	app := fiber.New()
	web.SetupRoutes(app, handlers)

	// Act
	resp, _ := get(t, app, "/api/activity?url="+url.QueryEscape("https://social.example/a"))

	// Assert
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status: got %d, want 429", resp.StatusCode)
	}
}
