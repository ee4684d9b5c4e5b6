package activitypub

import (
	"strings"

	"fediview/internal/domain"
)

// ClassifyTagType maps a tag type discriminator to a TagKind. The
// discriminator may be the short form ("Emoji"), a compact prefixed form
// ("toot:Emoji"), or a fully qualified URI
// ("http://joinmastodon.org/ns#Emoji"); only the final segment counts.
func ClassifyTagType(tagType string) domain.TagKind {
	short := tagType
	if i := strings.LastIndexAny(tagType, "#/:"); i >= 0 {
		short = tagType[i+1:]
	}
	switch short {
	case "Hashtag":
		return domain.TagHashtag
	case "Mention":
		return domain.TagMention
	case "Emoji":
		return domain.TagEmoji
	default:
		return domain.TagOther
	}
}

// IconURL unwraps an icon value that is either a bare URL string or an
// object with a url field.
func IconURL(value any) string {
	switch icon := value.(type) {
	case string:
		return icon
	case map[string]any:
		return stringField(icon, "url")
	}
	return ""
}

// tagFromEntry normalizes one tag list entry, or returns false for
// entries that are not objects.
func tagFromEntry(entry any) (domain.Tag, bool) {
	m, ok := entry.(map[string]any)
	if !ok {
		return domain.Tag{}, false
	}
	return domain.Tag{
		Kind:    ClassifyTagType(stringField(m, "type")),
		Name:    stringField(m, "name"),
		Href:    stringField(m, "href"),
		IconURL: IconURL(m["icon"]),
	}, true
}

// TagsFromList normalizes a raw tag list (as delivered in an object or an
// actor lookup result).
func TagsFromList(list []any) []domain.Tag {
	var tags []domain.Tag
	for _, entry := range list {
		if tag, ok := tagFromEntry(entry); ok {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ExtractTags returns the object's normalized tag list. A singular tag
// object is coerced to a one-element list.
func ExtractTags(obj map[string]any) []domain.Tag {
	if list := listField(obj, "tag"); list != nil {
		return TagsFromList(list)
	}
	if m := mapField(obj, "tag"); m != nil {
		return TagsFromList([]any{m})
	}
	return nil
}
