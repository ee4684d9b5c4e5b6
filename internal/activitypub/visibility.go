package activitypub

import (
	"strings"

	"fediview/internal/domain"
)

// publicSpellings are the exact Public-collection spellings seen in the
// wild; addressing that merely contains "#Public" is accepted too.
var publicSpellings = []string{
	"https://www.w3.org/ns/activitystreams#Public",
	"as:Public",
	"Public",
}

// containsPublic reports whether a recipient list addresses the Public
// collection under any of its historical spellings.
func containsPublic(list []string) bool {
	for _, v := range list {
		for _, spelling := range publicSpellings {
			if v == spelling {
				return true
			}
		}
		if strings.Contains(v, "#Public") {
			return true
		}
	}
	return false
}

// containsFollowers reports whether a recipient list looks like it
// addresses a followers collection.
func containsFollowers(list []string) bool {
	for _, v := range list {
		if strings.Contains(v, "followers") {
			return true
		}
	}
	return false
}

// ClassifyVisibility derives the audience class from the recipient lists.
// This is a best-effort heuristic over observed server behavior, not a
// conformant ActivityPub visibility computation: Public anywhere in
// to/cc means public; a followers collection in to/cc, or any non-empty
// cc, means unlisted; anything else yields no class and the caller falls
// back to showing the recipient lists themselves.
func ClassifyVisibility(audience *domain.AudienceSet) (domain.Visibility, bool) {
	if audience == nil {
		return "", false
	}
	if containsPublic(audience.To) || containsPublic(audience.CC) {
		return domain.VisibilityPublic, true
	}
	if containsFollowers(audience.To) || containsFollowers(audience.CC) || len(audience.CC) > 0 {
		return domain.VisibilityUnlisted, true
	}
	return "", false
}
