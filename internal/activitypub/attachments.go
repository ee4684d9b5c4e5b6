package activitypub

import (
	"strings"

	"fediview/internal/domain"
)

// attachmentURL resolves the URL of an attachment entry across the three
// nesting shapes remote servers use: a plain string, {url: "..."},
// {url: {href: "..."}}, or a bare href.
func attachmentURL(entry any) string {
	switch a := entry.(type) {
	case string:
		return a
	case map[string]any:
		switch u := a["url"].(type) {
		case string:
			return u
		case map[string]any:
			if href := stringField(u, "href"); href != "" {
				return href
			}
		}
		return stringField(a, "href")
	}
	return ""
}

// attachmentSensitive accepts both a boolean and the string "true".
func attachmentSensitive(entry map[string]any) bool {
	switch v := entry["sensitive"].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

// classifyMediaType buckets an attachment by its media type prefix.
func classifyMediaType(mediaType string) domain.AttachmentKind {
	switch {
	case strings.HasPrefix(mediaType, "image/"):
		return domain.AttachmentImage
	case strings.HasPrefix(mediaType, "video/"):
		return domain.AttachmentVideo
	case strings.HasPrefix(mediaType, "audio/"):
		return domain.AttachmentAudio
	default:
		return domain.AttachmentFile
	}
}

// PartitionAttachments splits the object's attachment array into media
// attachments and link previews in a single pass. The two sets are
// disjoint: a Link-typed entry (or one carrying only an href) with no
// media type becomes a preview, everything else with a resolvable URL
// becomes an attachment. Entries with no resolvable URL are dropped.
func PartitionAttachments(obj map[string]any) ([]domain.Attachment, []domain.LinkPreview) {
	list := listField(obj, "attachment")
	if list == nil {
		list = listField(obj, "attachments")
	}

	var attachments []domain.Attachment
	var previews []domain.LinkPreview
	for _, entry := range list {
		url := attachmentURL(entry)
		if url == "" {
			continue
		}

		if s, ok := entry.(string); ok {
			attachments = append(attachments, domain.Attachment{
				URL:  s,
				Kind: domain.AttachmentFile,
			})
			continue
		}

		m := entry.(map[string]any)
		mediaType := stringField(m, "mediaType")
		entryType := stringField(m, "type")
		_, hasHref := m["href"].(string)

		if mediaType == "" && (entryType == "Link" || hasHref) {
			previews = append(previews, domain.LinkPreview{
				URL:  url,
				Name: stringField(m, "name"),
			})
			continue
		}

		attachments = append(attachments, domain.Attachment{
			URL:       url,
			MediaType: mediaType,
			Name:      stringField(m, "name"),
			Sensitive: attachmentSensitive(m),
			Kind:      classifyMediaType(mediaType),
		})
	}
	return attachments, previews
}
