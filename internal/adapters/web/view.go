package web

import (
	"time"

	"fediview/internal/activitypub"
	"fediview/internal/domain"
	"fediview/internal/media"
)

// NodeView is the wire shape of one resolved quote-chain node, with all
// derived presentation facts precomputed: visibility class, poll
// percentages, emoji-substituted segments and proxied media URLs.
type NodeView struct {
	Depth     int                  `json:"depth"`
	State     domain.NodeState     `json:"state"`
	ObjectURI string               `json:"object_uri,omitempty"`
	Post      *PostView            `json:"post,omitempty"`
	Author    *AuthorView          `json:"author,omitempty"`
	Error     *domain.ResolveError `json:"error,omitempty"`
	Child     *NodeView            `json:"child,omitempty"`
}

// PostView is the render-ready projection of a normalized post.
type PostView struct {
	ID              string               `json:"id,omitempty"`
	PublishedAt     *time.Time           `json:"published_at,omitempty"`
	UpdatedAt       *time.Time           `json:"updated_at,omitempty"`
	ContentHTML     string               `json:"content_html,omitempty"`
	ContentSegments []media.Segment      `json:"content_segments,omitempty"`
	ContentWarning  string               `json:"content_warning,omitempty"`
	Visibility      domain.Visibility    `json:"visibility,omitempty"`
	Audience        *domain.AudienceSet  `json:"audience,omitempty"`
	Tags            []domain.Tag         `json:"tags,omitempty"`
	Attachments     []AttachmentView     `json:"attachments,omitempty"`
	LinkPreviews    []domain.LinkPreview `json:"link_previews,omitempty"`
	Poll            *PollView            `json:"poll,omitempty"`
	QuoteRef        string               `json:"quote_ref,omitempty"`
}

// AttachmentView is an attachment with its URL routed through the proxy.
type AttachmentView struct {
	URL       string                `json:"url"`
	Kind      domain.AttachmentKind `json:"kind"`
	MediaType string                `json:"media_type,omitempty"`
	Name      string                `json:"name,omitempty"`
	Sensitive bool                  `json:"sensitive,omitempty"`
}

// PollView adds derived percentages to the poll.
type PollView struct {
	Options     []domain.PollOption `json:"options"`
	Percentages []int               `json:"percentages"`
	Exclusive   bool                `json:"exclusive"`
	Closed      bool                `json:"closed"`
	EndTime     *time.Time          `json:"end_time,omitempty"`
	VoterCount  *int                `json:"voter_count,omitempty"`
}

// AuthorView is the resolved identity with display-name emoji
// substituted and the icon routed through the proxy.
type AuthorView struct {
	Handle       string          `json:"handle,omitempty"`
	DisplayName  string          `json:"display_name,omitempty"`
	NameSegments []media.Segment `json:"name_segments,omitempty"`
	ActorURI     string          `json:"actor_uri,omitempty"`
	IconURL      string          `json:"icon_url,omitempty"`
	Fallback     string          `json:"fallback,omitempty"`
}

// buildNodeView projects a resolution node (and its chain) into wire
// shape. The author's merged signed-media map supplies signature tokens
// for every proxied URL of the node.
func buildNodeView(node *domain.ResolutionNode) *NodeView {
	if node == nil {
		return nil
	}

	view := &NodeView{
		Depth:     node.Depth,
		State:     node.State,
		ObjectURI: node.ObjectURI,
		Error:     node.Err,
		Child:     buildNodeView(node.Child),
	}

	var signed map[string]string
	if node.Author != nil {
		signed = node.Author.SignedMedia
	}

	if node.Post != nil {
		view.Post = buildPostView(node.Post, signed)
	}
	if node.Author != nil {
		view.Author = buildAuthorView(node.Author, signed)
	}
	return view
}

func buildPostView(post *domain.NormalizedPost, signed map[string]string) *PostView {
	view := &PostView{
		ID:             post.ID,
		PublishedAt:    post.PublishedAt,
		UpdatedAt:      post.UpdatedAt,
		ContentHTML:    post.ContentHTML,
		ContentWarning: post.ContentWarning,
		Audience:       post.Audience,
		Tags:           post.Tags,
		LinkPreviews:   post.LinkPreviews,
		QuoteRef:       post.QuoteRef,
	}

	if visibility, ok := activitypub.ClassifyVisibility(post.Audience); ok {
		view.Visibility = visibility
	}
	if post.ContentHTML != "" {
		view.ContentSegments = media.SubstituteEmoji(post.ContentHTML, post.Tags, signed)
	}
	for _, att := range post.Attachments {
		view.Attachments = append(view.Attachments, AttachmentView{
			URL:       media.ResolveURL(att.URL, signed[att.URL]),
			Kind:      att.Kind,
			MediaType: att.MediaType,
			Name:      att.Name,
			Sensitive: att.Sensitive,
		})
	}
	if post.Poll != nil {
		view.Poll = &PollView{
			Options:     post.Poll.Options,
			Percentages: post.Poll.Percentages(),
			Exclusive:   post.Poll.Exclusive,
			Closed:      post.Poll.Closed,
			EndTime:     post.Poll.EndTime,
			VoterCount:  post.Poll.VoterCount,
		}
	}
	return view
}

func buildAuthorView(author *domain.Identity, signed map[string]string) *AuthorView {
	view := &AuthorView{
		Handle:      author.Handle,
		DisplayName: author.DisplayName,
		ActorURI:    author.ActorURI,
		Fallback:    author.Fallback,
	}
	if author.IconURL != "" {
		view.IconURL = media.ResolveURL(author.IconURL, signed[author.IconURL])
	}
	if author.DisplayName != "" {
		view.NameSegments = media.SubstituteEmoji(author.DisplayName, author.Tags, signed)
	}
	return view
}
