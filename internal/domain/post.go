// Package domain contains the core entities and rules of the viewer.
package domain

import "time"

// NormalizedPost is the canonical view model derived from one raw
// federated object. Every field is optional; absence means the source
// object did not carry a usable value, never that extraction failed.
type NormalizedPost struct {
	ID             string        `json:"id,omitempty"`
	PublishedAt    *time.Time    `json:"published_at,omitempty"`
	UpdatedAt      *time.Time    `json:"updated_at,omitempty"`
	ContentHTML    string        `json:"content_html,omitempty"` // never empty-but-present
	ContentWarning string        `json:"content_warning,omitempty"`
	Tags           []Tag         `json:"tags,omitempty"`
	Attachments    []Attachment  `json:"attachments,omitempty"`
	LinkPreviews   []LinkPreview `json:"link_previews,omitempty"`
	Poll           *Poll         `json:"poll,omitempty"`
	QuoteRef       string        `json:"quote_ref,omitempty"`
	Audience       *AudienceSet  `json:"audience,omitempty"`
}

// TagKind classifies a tag entry.
type TagKind string

const (
	TagHashtag TagKind = "hashtag"
	TagMention TagKind = "mention"
	TagEmoji   TagKind = "emoji"
	TagOther   TagKind = "other"
)

// Tag is one entry of an object's tag list. For emoji tags Name holds the
// shortcode including colons (":blob:") and IconURL the resolvable icon.
type Tag struct {
	Kind    TagKind `json:"kind"`
	Name    string  `json:"name,omitempty"`
	Href    string  `json:"href,omitempty"`
	IconURL string  `json:"icon_url,omitempty"`
}

// AttachmentKind classifies an attachment by its media type prefix.
type AttachmentKind string

const (
	AttachmentImage AttachmentKind = "image"
	AttachmentVideo AttachmentKind = "video"
	AttachmentAudio AttachmentKind = "audio"
	AttachmentFile  AttachmentKind = "file"
)

// Attachment is a media entry of an object's attachment list.
type Attachment struct {
	URL       string         `json:"url"`
	MediaType string         `json:"media_type,omitempty"`
	Name      string         `json:"name,omitempty"`
	Sensitive bool           `json:"sensitive,omitempty"`
	Kind      AttachmentKind `json:"kind"`
}

// LinkPreview is a Link-typed attachment entry rendered as a preview card
// instead of inline media. An attachment array entry lands in exactly one
// of Attachment or LinkPreview.
type LinkPreview struct {
	URL       string `json:"url"`
	Name      string `json:"name,omitempty"`
	MediaType string `json:"media_type,omitempty"`
}

// PollOption is one answer of a poll with its vote total.
type PollOption struct {
	Name  string `json:"name"`
	Votes int    `json:"votes"`
}

// Poll is a Question-typed object's poll data. Exclusive is true when the
// source used single-choice semantics.
type Poll struct {
	Options    []PollOption `json:"options"`
	Exclusive  bool         `json:"exclusive"`
	Closed     bool         `json:"closed"`
	EndTime    *time.Time   `json:"end_time,omitempty"`
	VoterCount *int         `json:"voter_count,omitempty"`
}

// Percentages returns the integer vote share per option. A zero total
// yields 0 for every option.
func (p *Poll) Percentages() []int {
	total := 0
	for _, o := range p.Options {
		total += o.Votes
	}

	out := make([]int, len(p.Options))
	if total == 0 {
		return out
	}
	for i, o := range p.Options {
		out[i] = o.Votes * 100 / total
	}
	return out
}

// AudienceSet holds the four recipient lists of an object. Embedded actor
// stubs are coerced to their id URI at extraction time.
type AudienceSet struct {
	To  []string `json:"to,omitempty"`
	CC  []string `json:"cc,omitempty"`
	BTo []string `json:"bto,omitempty"`
	BCC []string `json:"bcc,omitempty"`
}

// Empty reports whether all four recipient lists are empty.
func (a *AudienceSet) Empty() bool {
	return len(a.To) == 0 && len(a.CC) == 0 && len(a.BTo) == 0 && len(a.BCC) == 0
}

// Visibility is the derived audience class of a post. It is a best-effort
// heuristic over the recipient lists, not a spec-conformant computation;
// when no class can be derived the caller falls back to listing recipients.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
)
