package domain

// NodeState is the lifecycle state of one quote-chain node.
type NodeState string

const (
	NodeIdle          NodeState = "idle"
	NodeLoading       NodeState = "loading"
	NodeResolved      NodeState = "resolved"
	NodeErrored       NodeState = "errored"
	NodeDepthExceeded NodeState = "depth_exceeded"
)

// ResolveError is a per-node failure surfaced to the presentation layer.
// Code mirrors the upstream HTTP status; transport and parse failures
// are reported as 500.
type ResolveError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ResolutionNode is one node of the resolved quote chain. Depth counts up
// from the root (0) and is immutable once the node exists; a node whose
// triggering URI or depth changes is replaced, never partially reused.
// The chain is a linked list: each resolved node holds at most one child,
// created from the post's quote reference at depth+1.
type ResolutionNode struct {
	Depth     int             `json:"depth"`
	ObjectURI string          `json:"object_uri,omitempty"`
	State     NodeState       `json:"state"`
	Post      *NormalizedPost `json:"post,omitempty"`
	Author    *Identity       `json:"author,omitempty"`
	Err       *ResolveError   `json:"error,omitempty"`
	Child     *ResolutionNode `json:"child,omitempty"`
}
