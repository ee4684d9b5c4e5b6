package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"fediview/internal/domain"
	"fediview/internal/media"
)

// webfingerAccept also offers jrd+json for the discovery document.
const webfingerAccept = "application/activity+json, application/jrd+json"

// webfingerLinks is the slice of the discovery document we care about.
type webfingerLinks struct {
	Links []struct {
		Type string `json:"type"`
		Href string `json:"href"`
	} `json:"links"`
}

// LookupActor fetches an actor document directly and builds the
// authoritative identity record, including signatures for its icon and
// emoji so the client can render them through the proxy.
func (c *Client) LookupActor(ctx context.Context, actorURL string) (*domain.ActorRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, actorURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", webfingerAccept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch actor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &StatusError{Code: resp.StatusCode, Message: MessageFor(resp.StatusCode)}
	}

	var actor map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&actor); err != nil {
		return nil, fmt.Errorf("decode actor: %w", err)
	}

	return c.actorRecord(actorURL, actor), nil
}

// actorRecord maps a raw actor document to an ActorRecord. The domain is
// taken from the URL the actor was fetched from.
func (c *Client) actorRecord(actorURL string, actor map[string]any) *domain.ActorRecord {
	host := ""
	if u, err := url.Parse(actorURL); err == nil {
		host = u.Host
	}

	handle, _ := actor["preferredUsername"].(string)
	nickname, _ := actor["name"].(string)
	id, _ := actor["id"].(string)
	if id == "" {
		id = actorURL
	}
	rawTags, _ := actor["tag"].([]any)
	icon := iconOf(actor)

	return &domain.ActorRecord{
		Handle:      handle,
		Nickname:    nickname,
		ID:          id,
		Domain:      host,
		Icon:        icon,
		RawTags:     rawTags,
		SignedMedia: media.CollectActorMedia(icon, rawTags, c.signer),
	}
}

// iconOf unwraps the actor's icon from either shape.
func iconOf(actor map[string]any) string {
	switch icon := actor["icon"].(type) {
	case string:
		return icon
	case map[string]any:
		u, _ := icon["url"].(string)
		return u
	}
	return ""
}

// LookupResource resolves a webfinger resource (acct:user@domain or a
// URL) to an actor record: discovery document first, then the actor
// fetch. When discovery fails and the resource itself is an http(s) URL,
// it is retried as a direct actor URL.
func (c *Client) LookupResource(ctx context.Context, resource string) (*domain.ActorRecord, error) {
	webfingerURL, err := discoveryURL(resource)
	if err != nil {
		return nil, err
	}

	actorURL, err := c.discoverActorURL(ctx, webfingerURL)
	if err != nil {
		if strings.HasPrefix(resource, "http://") || strings.HasPrefix(resource, "https://") {
			return c.LookupActor(ctx, resource)
		}
		return nil, err
	}

	return c.LookupActor(ctx, actorURL)
}

// discoveryURL builds the /.well-known/webfinger URL for a resource.
func discoveryURL(resource string) (string, error) {
	if acct, ok := strings.CutPrefix(resource, "acct:"); ok {
		parts := strings.Split(acct, "@")
		if len(parts) != 2 {
			return "", domain.ErrInvalidURL
		}
		return "https://" + parts[1] + "/.well-known/webfinger?resource=" + url.QueryEscape(resource), nil
	}

	host := resource
	if u, err := url.Parse(resource); err == nil && u.Host != "" {
		host = u.Host
	}
	return "https://" + host + "/.well-known/webfinger?resource=" + url.QueryEscape("acct:"+resource), nil
}

// discoverActorURL fetches the discovery document and picks the
// ActivityPub link out of it.
func (c *Client) discoverActorURL(ctx context.Context, webfingerURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, webfingerURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", webfingerAccept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch webfinger: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &StatusError{Code: resp.StatusCode, Message: MessageFor(resp.StatusCode)}
	}

	var doc webfingerLinks
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return "", fmt.Errorf("decode webfinger: %w", err)
	}

	for _, link := range doc.Links {
		if link.Type == "application/activity+json" && link.Href != "" {
			return link.Href, nil
		}
	}
	return "", domain.ErrActorNotFound
}
