package media

import (
	"strings"

	"fediview/internal/activitypub"
	"fediview/internal/domain"
)

// signable limits signing to absolute remote URLs; relative and data
// URIs never reach the proxy.
func signable(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

// addEmojiIcons signs the icon URL of every emoji tag in a raw tag list.
func addEmojiIcons(signed map[string]string, s *Signer, list []any) {
	for _, tag := range activitypub.TagsFromList(list) {
		if tag.Kind == domain.TagEmoji && signable(tag.IconURL) {
			signed[tag.IconURL] = s.Sign(tag.IconURL)
		}
	}
}

// CollectObjectMedia signs every media URL a fetched object can render:
// the embedded author's icon and emoji, the object's own emoji, and all
// attachment URLs. The result travels to the client as the _signed_media
// map of the fetch response.
func CollectObjectMedia(obj map[string]any, s *Signer) map[string]string {
	signed := make(map[string]string)

	if attr, ok := obj["attributedTo"].(map[string]any); ok {
		if icon := activitypub.IconURL(attr["icon"]); signable(icon) {
			signed[icon] = s.Sign(icon)
		}
		if tags, ok := attr["tag"].([]any); ok {
			addEmojiIcons(signed, s, tags)
		}
	}

	attachments, previews := activitypub.PartitionAttachments(obj)
	for _, att := range attachments {
		if signable(att.URL) {
			signed[att.URL] = s.Sign(att.URL)
		}
	}
	for _, preview := range previews {
		if signable(preview.URL) {
			signed[preview.URL] = s.Sign(preview.URL)
		}
	}

	if tags, ok := obj["tag"].([]any); ok {
		addEmojiIcons(signed, s, tags)
	}

	return signed
}

// CollectActorMedia signs an actor's icon and emoji tag URLs for an
// actor-lookup response.
func CollectActorMedia(iconURL string, rawTags []any, s *Signer) map[string]string {
	signed := make(map[string]string)
	if signable(iconURL) {
		signed[iconURL] = s.Sign(iconURL)
	}
	addEmojiIcons(signed, s, rawTags)
	return signed
}
