package domain

// RevealState tracks the interactive sensitive-content gates for one
// rendered post: a single content-warning gate plus one gate per sensitive
// attachment, keyed by attachment position. The two layers toggle
// independently, but the content gate supersedes the media gates — while
// the warning is closed no attachment is rendered at all.
//
// A RevealState is bound to the post it was built from; when the post
// changes the state is rebuilt, never patched.
type RevealState struct {
	contentRevealed bool
	sensitive       map[int]bool
	mediaRevealed   map[int]bool
}

// NewRevealState builds the initial gate state for a post. The content
// gate starts closed whenever a content warning is present, open
// otherwise; every sensitive attachment starts hidden.
func NewRevealState(post *NormalizedPost) *RevealState {
	s := &RevealState{
		contentRevealed: post == nil || post.ContentWarning == "",
		sensitive:       make(map[int]bool),
		mediaRevealed:   make(map[int]bool),
	}
	if post != nil {
		for i, att := range post.Attachments {
			if att.Sensitive {
				s.sensitive[i] = true
				s.mediaRevealed[i] = false
			}
		}
	}
	return s
}

// ToggleContent flips the content-warning gate. Per-attachment media
// gates are unaffected.
func (s *RevealState) ToggleContent() {
	s.contentRevealed = !s.contentRevealed
}

// ToggleMedia flips the gate of the sensitive attachment at index i.
// Toggling a non-sensitive index is a no-op.
func (s *RevealState) ToggleMedia(i int) {
	if s.sensitive[i] {
		s.mediaRevealed[i] = !s.mediaRevealed[i]
	}
}

// ContentVisible reports whether the main content may be rendered.
func (s *RevealState) ContentVisible() bool {
	return s.contentRevealed
}

// MediaVisible reports whether the attachment at index i may be rendered.
// False while the content gate is closed; sensitive attachments
// additionally require their own gate to be open.
func (s *RevealState) MediaVisible(i int) bool {
	if !s.contentRevealed {
		return false
	}
	if s.sensitive[i] {
		return s.mediaRevealed[i]
	}
	return true
}
