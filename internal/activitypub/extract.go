// Package activitypub normalizes untrusted federated objects into the
// viewer's canonical model. Remote servers disagree on field names and
// shapes (string vs. object, singular vs. list), so every extraction
// helper here is total: it never panics and reports absence instead of
// failing.
package activitypub

import (
	"strings"
	"time"

	"fediview/internal/domain"
)

// stringField returns the string value under key, or "" if the value is
// missing or not a string.
func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

// mapField returns the object value under key, or nil.
func mapField(obj map[string]any, key string) map[string]any {
	m, _ := obj[key].(map[string]any)
	return m
}

// listField returns the array value under key, or nil.
func listField(obj map[string]any, key string) []any {
	l, _ := obj[key].([]any)
	return l
}

// contentFields are checked in order; the first non-empty string wins.
// _misskey_content carries the raw MFM source on Misskey-flavored servers.
var contentFields = []string{"content", "_misskey_content"}

// ExtractContent returns the object's content markup, or "" if no
// recognized field holds a non-empty string. Whitespace-only values
// count as absent.
func ExtractContent(obj map[string]any) string {
	for _, key := range contentFields {
		if s := stringField(obj, key); strings.TrimSpace(s) != "" {
			return s
		}
	}
	if src := mapField(obj, "source"); src != nil {
		if s := stringField(src, "content"); strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// quoteRefFields are the alternate names a quoted-post URI travels under
// across Misskey, Fedibird and FEP-e232 flavored objects.
var quoteRefFields = []string{"quoteUrl", "quoteUri", "_misskey_quote", "quote"}

// ExtractQuoteRef returns the first quoted-post URI found, unvalidated;
// whether it is fetchable is decided at fetch time. The value may be a
// bare URI string or a Link-style object, whose href (or id) is unwrapped.
func ExtractQuoteRef(obj map[string]any) string {
	for _, key := range quoteRefFields {
		switch v := obj[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case map[string]any:
			if href := stringField(v, "href"); href != "" {
				return href
			}
			if id := stringField(v, "id"); id != "" {
				return id
			}
		}
	}
	return ""
}

// ExtractSummary returns the content warning, or "" when absent.
func ExtractSummary(obj map[string]any) string {
	if s := stringField(obj, "summary"); strings.TrimSpace(s) != "" {
		return s
	}
	return ""
}

// ExtractPoll returns the object's poll, or nil if the object carries no
// non-empty option array. oneOf marks single-choice polls, anyOf
// multi-choice; which of the two was present becomes the Exclusive flag.
func ExtractPoll(obj map[string]any) *domain.Poll {
	options := listField(obj, "oneOf")
	exclusive := true
	if len(options) == 0 {
		options = listField(obj, "anyOf")
		exclusive = false
	}
	if len(options) == 0 {
		return nil
	}

	poll := &domain.Poll{Exclusive: exclusive}
	for _, entry := range options {
		opt, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		votes := 0
		if replies := mapField(opt, "replies"); replies != nil {
			if n, ok := replies["totalItems"].(float64); ok {
				votes = int(n)
			}
		}
		poll.Options = append(poll.Options, domain.PollOption{
			Name:  stringField(opt, "name"),
			Votes: votes,
		})
	}
	if len(poll.Options) == 0 {
		return nil
	}

	// closed is either a boolean or the closing timestamp
	switch closed := obj["closed"].(type) {
	case bool:
		poll.Closed = closed
	case string:
		poll.Closed = true
		if t, err := time.Parse(time.RFC3339, closed); err == nil {
			poll.EndTime = &t
		}
	}
	if poll.EndTime == nil {
		if t := parseTime(stringField(obj, "endTime")); t != nil {
			poll.EndTime = t
			if t.Before(time.Now()) {
				poll.Closed = true
			}
		}
	}
	if n, ok := obj["votersCount"].(float64); ok {
		count := int(n)
		poll.VoterCount = &count
	}

	return poll
}

// audienceList coerces a recipient field to a list of URIs: a bare string
// becomes a singleton, embedded actor stubs collapse to their id.
func audienceList(value any) []string {
	switch v := value.(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		var out []string
		for _, entry := range v {
			switch e := entry.(type) {
			case string:
				if e != "" {
					out = append(out, e)
				}
			case map[string]any:
				if id := stringField(e, "id"); id != "" {
					out = append(out, id)
				}
			}
		}
		return out
	}
	return nil
}

// ExtractAudience reads the four recipient lists. Returns nil, not an
// empty set, when every list is empty — "no audience metadata" and
// "public with empty lists" are different answers.
func ExtractAudience(obj map[string]any) *domain.AudienceSet {
	set := &domain.AudienceSet{
		To:  audienceList(obj["to"]),
		CC:  audienceList(obj["cc"]),
		BTo: audienceList(obj["bto"]),
		BCC: audienceList(obj["bcc"]),
	}
	if set.Empty() {
		return nil
	}
	return set
}

// parseTime parses an RFC3339 timestamp, or returns nil.
func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

// Normalize derives the canonical view model from one raw object.
// Attribution is resolved separately because it may need a network lookup.
func Normalize(obj map[string]any) *domain.NormalizedPost {
	post := &domain.NormalizedPost{
		ID:             stringField(obj, "id"),
		PublishedAt:    parseTime(stringField(obj, "published")),
		UpdatedAt:      parseTime(stringField(obj, "updated")),
		ContentHTML:    ExtractContent(obj),
		ContentWarning: ExtractSummary(obj),
		Tags:           ExtractTags(obj),
		Poll:           ExtractPoll(obj),
		QuoteRef:       ExtractQuoteRef(obj),
		Audience:       ExtractAudience(obj),
	}
	post.Attachments, post.LinkPreviews = PartitionAttachments(obj)
	return post
}
