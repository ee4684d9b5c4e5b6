// Package fetch retrieves federated objects and actors anonymously over
// plain HTTP, the way an account-less viewer sees them. It knows nothing
// about normalization; it hands back the payload plus the signed-media
// map the proxy will honor.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fediview/internal/media"
)

// acceptHeader asks remote servers for the ActivityPub representation.
const acceptHeader = "application/activity+json"

// Result is the outcome of one anonymous object fetch. Content holds the
// decoded JSON document when the server returned one, or the raw body
// text otherwise.
type Result struct {
	Success     bool              `json:"success"`
	URL         string            `json:"url"`
	FinalURL    string            `json:"final_url"`
	Redirected  bool              `json:"redirected"`
	Content     any               `json:"content"`
	ContentType string            `json:"content_type"`
	StatusCode  int               `json:"status_code"`
	SignedMedia map[string]string `json:"_signed_media,omitempty"`
}

// StatusError is an upstream HTTP error carrying the display message the
// presentation layer shows per node.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.Code, e.Message)
}

// statusMessages are the fixed display messages for the statuses that
// get distinct treatment.
var statusMessages = map[int]string{
	http.StatusUnauthorized:        "Unauthorized",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not Found",
	http.StatusGone:                "Gone",
	http.StatusInternalServerError: "Internal Server Error",
	http.StatusBadGateway:          "Bad Gateway",
	http.StatusServiceUnavailable:  "Service Unavailable",
}

// MessageFor returns the display message for an upstream status code.
func MessageFor(code int) string {
	if msg, ok := statusMessages[code]; ok {
		return msg
	}
	return fmt.Sprintf("HTTP %d Error", code)
}

// Client fetches remote objects and actors.
type Client struct {
	httpClient *http.Client
	signer     *media.Signer
}

// NewClient creates a fetch client. Redirects are followed; the final
// URL is reported on the result.
func NewClient(timeout time.Duration, signer *media.Signer) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		signer:     signer,
	}
}

// isJSONContentType matches the three content types remote servers use
// for ActivityPub documents.
func isJSONContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "application/activity+json") ||
		strings.Contains(ct, "application/json") ||
		strings.Contains(ct, "application/ld+json")
}

// FetchObject retrieves one object. Upstream statuses >= 400 come back
// as a *StatusError; transport failures come back as plain errors.
// A payload that is JSON but not an object is still a success — the
// caller renders it as empty.
func (c *Client) FetchObject(ctx context.Context, rawURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &StatusError{Code: resp.StatusCode, Message: MessageFor(resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	result := &Result{
		Success:     true,
		URL:         rawURL,
		FinalURL:    finalURL,
		Redirected:  finalURL != rawURL,
		ContentType: strings.ToLower(resp.Header.Get("Content-Type")),
		StatusCode:  resp.StatusCode,
	}

	if isJSONContentType(result.ContentType) {
		var content any
		if err := json.Unmarshal(body, &content); err == nil {
			result.Content = content
			if obj, ok := content.(map[string]any); ok {
				if signed := media.CollectObjectMedia(obj, c.signer); len(signed) > 0 {
					result.SignedMedia = signed
				}
			}
			return result, nil
		}
	}

	result.Content = string(body)
	return result, nil
}

// Object returns the result's payload as a raw object, or nil when the
// payload is absent or not a JSON object.
func (r *Result) Object() map[string]any {
	obj, _ := r.Content.(map[string]any)
	return obj
}
