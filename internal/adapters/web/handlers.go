package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"fediview/internal/adapters/fetch"
	"fediview/internal/domain"
	"fediview/internal/media"
	"fediview/internal/metrics"
	"fediview/internal/usecases"
	"fediview/pkg/log"
)

// requestTimeout bounds one resolution pass end to end.
const requestTimeout = 30 * time.Second

// proxyTimeout bounds one media proxy fetch; media bodies are larger
// than objects.
const proxyTimeout = 30 * time.Second

// Handlers contains the HTTP handlers for the viewer API.
type Handlers struct {
	objects     *usecases.FetchObjectUseCase
	resolver    *usecases.ResolveThreadUseCase
	actors      *fetch.Client
	signer      *media.Signer
	limiter     *RateLimiter
	maxDepth    int
	proxyClient *http.Client
	metrics     *metrics.Metrics
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(objects *usecases.FetchObjectUseCase, resolver *usecases.ResolveThreadUseCase, actors *fetch.Client, signer *media.Signer, limiter *RateLimiter, maxDepth int) *Handlers {
	return &Handlers{
		objects:     objects,
		resolver:    resolver,
		actors:      actors,
		signer:      signer,
		limiter:     limiter,
		maxDepth:    maxDepth,
		proxyClient: &http.Client{Timeout: proxyTimeout},
		metrics:     metrics.New(),
	}
}

// errorJSON writes the {"error": ...} shape every endpoint uses.
func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// Health reports liveness.
func (h *Handlers) Health(c *fiber.Ctx) error {
	c.Set("Cache-Control", "public, max-age=60")
	return c.JSON(fiber.Map{"status": "ok", "message": "Server is running"})
}

// Activity fetches one remote object anonymously and returns the raw
// payload plus the signed-media map. This is the low-level fetch
// surface; Resolve builds the normalized tree on top of the same path.
func (h *Handlers) Activity(c *fiber.Ctx) error {
	rawURL := strings.TrimSpace(c.Query("url"))
	if rawURL == "" {
		return errorJSON(c, fiber.StatusBadRequest, "URL is required")
	}
	if !h.limiter.Allow(c.IP()) {
		return errorJSON(c, fiber.StatusTooManyRequests, domain.ErrRateLimited.Error())
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	result, err := h.objects.Execute(ctx, rawURL)
	if err != nil {
		return h.fetchError(c, err, "Failed to fetch URL")
	}

	c.Set("Cache-Control", "public, max-age=300")
	return c.JSON(result)
}

// Webfinger resolves an actor: directly from actor_url, or through
// discovery from a resource (acct:user@domain or a URL).
func (h *Handlers) Webfinger(c *fiber.Ctx) error {
	resource := strings.TrimSpace(c.Query("resource"))
	actorURL := strings.TrimSpace(c.Query("actor_url"))
	if resource == "" && actorURL == "" {
		return errorJSON(c, fiber.StatusBadRequest, "resource or actor_url is required")
	}
	if !h.limiter.Allow(c.IP()) {
		return errorJSON(c, fiber.StatusTooManyRequests, domain.ErrRateLimited.Error())
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	var record *domain.ActorRecord
	var err error
	if actorURL != "" {
		record, err = h.actors.LookupActor(ctx, actorURL)
	} else {
		record, err = h.actors.LookupResource(ctx, resource)
	}
	if err != nil {
		if errors.Is(err, domain.ErrActorNotFound) {
			return errorJSON(c, fiber.StatusNotFound, domain.ErrActorNotFound.Error())
		}
		if errors.Is(err, domain.ErrInvalidURL) {
			return errorJSON(c, fiber.StatusBadRequest, "Invalid acct format")
		}
		return h.fetchError(c, err, "Failed to fetch webfinger")
	}

	c.Set("Cache-Control", "public, max-age=300")
	return c.JSON(webfingerResponse{
		Success:     true,
		Handle:      record.Handle,
		Nickname:    record.Nickname,
		ID:          record.ID,
		Domain:      record.Domain,
		Tag:         record.RawTags,
		Icon:        record.Icon,
		SignedMedia: record.SignedMedia,
	})
}

// webfingerResponse is the actor-lookup wire shape.
type webfingerResponse struct {
	Success     bool              `json:"success"`
	Handle      string            `json:"handle"`
	Nickname    string            `json:"nickname"`
	ID          string            `json:"id"`
	Domain      string            `json:"domain"`
	Tag         []any             `json:"tag"`
	Icon        string            `json:"icon,omitempty"`
	SignedMedia map[string]string `json:"_signed_media,omitempty"`
}

// Resolve resolves an object and its quote chain into the normalized
// tree the presentation layer renders.
func (h *Handlers) Resolve(c *fiber.Ctx) error {
	rawURL := strings.TrimSpace(c.Query("url"))
	if rawURL == "" {
		return errorJSON(c, fiber.StatusBadRequest, "URL is required")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return errorJSON(c, fiber.StatusBadRequest, domain.ErrInvalidURL.Error())
	}
	if !h.limiter.Allow(c.IP()) {
		return errorJSON(c, fiber.StatusTooManyRequests, domain.ErrRateLimited.Error())
	}

	maxDepth := h.maxDepth
	if v, err := strconv.Atoi(c.Query("depth")); err == nil && v > 0 && v <= h.maxDepth {
		maxDepth = v
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	node := h.resolver.Execute(ctx, rawURL, maxDepth)
	return c.JSON(buildNodeView(node))
}

// Media proxies remote media bytes for a signed URL. The signature is
// mandatory: the proxy only serves URLs this server itself signed.
func (h *Handlers) Media(c *fiber.Ctx) error {
	mediaURL := strings.TrimSpace(c.Query("url"))
	if mediaURL == "" {
		return errorJSON(c, fiber.StatusBadRequest, "URL parameter is required")
	}

	sig := c.Query("sig")
	if sig == "" {
		h.metrics.MediaProxyTotal.WithLabelValues("denied").Inc()
		return errorJSON(c, fiber.StatusForbidden, domain.ErrMissingSignature.Error())
	}
	if !h.signer.Verify(mediaURL, sig) {
		h.metrics.MediaProxyTotal.WithLabelValues("denied").Inc()
		return errorJSON(c, fiber.StatusForbidden, domain.ErrInvalidSignature.Error())
	}

	if err := media.ValidateProxyTarget(mediaURL); err != nil {
		h.metrics.MediaProxyTotal.WithLabelValues("denied").Inc()
		if errors.Is(err, domain.ErrLocalAddress) {
			return errorJSON(c, fiber.StatusForbidden, err.Error())
		}
		return errorJSON(c, fiber.StatusBadRequest, "Invalid URL format")
	}

	req, err := http.NewRequestWithContext(c.UserContext(), http.MethodGet, mediaURL, nil)
	if err != nil {
		h.metrics.MediaProxyTotal.WithLabelValues("error").Inc()
		return errorJSON(c, fiber.StatusBadRequest, "Invalid URL format")
	}

	resp, err := h.proxyClient.Do(req)
	if err != nil {
		h.metrics.MediaProxyTotal.WithLabelValues("error").Inc()
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch media: "+err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		h.metrics.MediaProxyTotal.WithLabelValues("error").Inc()
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch media: "+fetch.MessageFor(resp.StatusCode))
	}

	contentType := resp.Header.Get("Content-Type")
	if !media.AllowedContentType(contentType) {
		h.metrics.MediaProxyTotal.WithLabelValues("bad_type").Inc()
		return errorJSON(c, fiber.StatusBadRequest, domain.ErrBadMediaType.Error())
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		h.metrics.MediaProxyTotal.WithLabelValues("error").Inc()
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch media: "+err.Error())
	}

	h.metrics.MediaProxyTotal.WithLabelValues("ok").Inc()
	c.Set("Content-Type", contentType)
	c.Set("Cache-Control", "public, max-age=3600")
	return c.Send(body)
}

// fetchError maps a fetch failure to the response the original surface
// exposes: upstream status errors keep their code and fixed message,
// everything else is a 500 with the transport detail.
func (h *Handlers) fetchError(c *fiber.Ctx, err error, prefix string) error {
	var statusErr *fetch.StatusError
	if errors.As(err, &statusErr) {
		return errorJSON(c, statusErr.Code, statusErr.Message)
	}
	log.GlobalErrorCtx(c.UserContext(), "remote fetch failed", "error", err)
	return errorJSON(c, fiber.StatusInternalServerError, prefix+": "+err.Error())
}
