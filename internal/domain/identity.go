package domain

// Identity is the resolved display identity of an authoring actor,
// merged from an actor lookup and the object's embedded attribution.
// Built fresh per render pass, never cached across unrelated posts.
type Identity struct {
	Handle      string `json:"handle,omitempty"` // "@user@example.social"
	DisplayName string `json:"display_name,omitempty"`
	ActorURI    string `json:"actor_uri,omitempty"`
	IconURL     string `json:"icon_url,omitempty"`

	// Fallback is a last-resort display value so the UI never shows
	// nothing: the raw attributedTo string, the embedded id, or a dump
	// of the embedded object.
	Fallback string `json:"fallback,omitempty"`

	// Tags carry display-name emoji.
	Tags []Tag `json:"tags,omitempty"`

	// SignedMedia maps media URL to its proxy signature token. The actor
	// lookup's map is merged over the object response's map; the lookup
	// wins on key collision.
	SignedMedia map[string]string `json:"-"`
}

// ActorRecord is the authoritative result of an actor lookup (webfinger
// or direct actor fetch), as delivered by the lookup collaborator.
type ActorRecord struct {
	Handle      string            `json:"handle"`
	Nickname    string            `json:"nickname"`
	ID          string            `json:"id"`
	Domain      string            `json:"domain"`
	Icon        string            `json:"icon,omitempty"`
	RawTags     []any             `json:"tag,omitempty"`
	SignedMedia map[string]string `json:"_signed_media,omitempty"`
}
