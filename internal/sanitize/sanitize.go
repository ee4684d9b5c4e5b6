// Package sanitize implements the renderer's sanitize-then-render
// contract for remote markup.
package sanitize

import "github.com/microcosm-cc/bluemonday"

// HTML sanitizes untrusted post markup down to the subset the viewer
// renders. Built on bluemonday's UGC policy plus the markup fediverse
// servers commonly emit (mention/hashtag spans, invisible ellipsis
// wrappers).
type HTML struct {
	policy *bluemonday.Policy
}

// New creates the viewer's sanitization policy.
func New() *HTML {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("a", "span", "p")
	policy.AllowAttrs("rel").OnElements("a")
	policy.RequireNoFollowOnLinks(true)
	return &HTML{policy: policy}
}

// Sanitize returns safe renderable markup for raw remote markup.
func (s *HTML) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
