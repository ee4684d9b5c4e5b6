package media

import (
	"net/url"
	"regexp"
	"strings"

	"fediview/internal/domain"
)

// ProxyPath is the local endpoint remote media is routed through.
const ProxyPath = "/api/media"

// ResolveURL maps a raw media URL to a servable one. URLs that are
// already local or embedded data URIs pass through unchanged; everything
// else is rewritten to the proxy, carrying the original URL and, when
// present, its signature token.
func ResolveURL(raw, signature string) string {
	if strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "data:") {
		return raw
	}
	resolved := ProxyPath + "?url=" + url.QueryEscape(raw)
	if signature != "" {
		resolved += "&sig=" + url.QueryEscape(signature)
	}
	return resolved
}

// Segment is one piece of emoji-substituted text: either literal text or
// an inline image reference.
type Segment struct {
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Alt      string `json:"alt,omitempty"`
}

// shortcodeRe matches :name: shortcodes; names are alphanumeric or
// underscore only.
var shortcodeRe = regexp.MustCompile(`:([A-Za-z0-9_]+):`)

// SubstituteEmoji splits text into segments, replacing every known emoji
// shortcode with an inline image reference routed through the proxy.
// Unknown shortcodes stay literal, and all non-matched text is preserved
// exactly, including anything after the last match.
func SubstituteEmoji(text string, tags []domain.Tag, signedMedia map[string]string) []Segment {
	icons := make(map[string]string)
	for _, tag := range tags {
		if tag.Kind != domain.TagEmoji || tag.IconURL == "" {
			continue
		}
		name := strings.Trim(tag.Name, ":")
		if name != "" {
			icons[name] = tag.IconURL
		}
	}

	var segments []Segment
	pending := ""
	last := 0
	for _, m := range shortcodeRe.FindAllStringSubmatchIndex(text, -1) {
		name := text[m[2]:m[3]]
		icon, known := icons[name]
		if !known {
			continue
		}
		pending += text[last:m[0]]
		if pending != "" {
			segments = append(segments, Segment{Text: pending})
			pending = ""
		}
		segments = append(segments, Segment{
			ImageURL: ResolveURL(icon, signedMedia[icon]),
			Alt:      ":" + name + ":",
		})
		last = m[1]
	}

	pending += text[last:]
	if pending != "" || len(segments) == 0 {
		segments = append(segments, Segment{Text: pending})
	}
	return segments
}
