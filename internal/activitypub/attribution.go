package activitypub

import (
	"encoding/json"
	"net/url"
	"strings"

	"fediview/internal/domain"
)

// buildHandle joins a username and domain into a display handle.
// An empty domain degrades to a bare "@username".
func buildHandle(username, host string) string {
	if username == "" {
		return ""
	}
	if host == "" {
		return "@" + username
	}
	return "@" + username + "@" + host
}

// domainOf extracts the host of an actor id URI. Malformed URIs are
// swallowed: the handle then degrades to its bare form.
func domainOf(actorID string) string {
	if actorID == "" {
		return ""
	}
	u, err := url.Parse(actorID)
	if err != nil {
		return ""
	}
	return u.Host
}

// ResolveAttribution merges an actor-lookup result with the object's
// embedded attributedTo into one identity. A lookup record carrying a
// handle or display name wins outright and the embedded value is ignored;
// otherwise the embedded string or object is used, with the raw id (or a
// dump of the whole embedded object) kept as a last-resort display value.
func ResolveAttribution(lookup *domain.ActorRecord, attributedTo any) domain.Identity {
	if lookup != nil && (lookup.Handle != "" || lookup.Nickname != "") {
		return domain.Identity{
			Handle:      buildHandle(lookup.Handle, lookup.Domain),
			DisplayName: lookup.Nickname,
			ActorURI:    lookup.ID,
			IconURL:     lookup.Icon,
			Tags:        TagsFromList(lookup.RawTags),
			SignedMedia: lookup.SignedMedia,
		}
	}

	switch attr := attributedTo.(type) {
	case string:
		return domain.Identity{Fallback: attr}
	case map[string]any:
		id := stringField(attr, "id")
		fallback := id
		if fallback == "" {
			if dump, err := json.Marshal(attr); err == nil {
				fallback = string(dump)
			}
		}
		identity := domain.Identity{
			DisplayName: stringField(attr, "name"),
			ActorURI:    id,
			IconURL:     IconURL(attr["icon"]),
			Tags:        ExtractTags(attr),
			Fallback:    fallback,
		}
		if username := strings.TrimSpace(stringField(attr, "preferredUsername")); username != "" {
			identity.Handle = buildHandle(username, domainOf(id))
		}
		return identity
	}
	return domain.Identity{}
}
