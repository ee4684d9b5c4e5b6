package media

import (
	"net"
	"net/url"
	"strings"

	"fediview/internal/domain"
)

// blockedHostnames are rejected before any address parsing.
var blockedHostnames = map[string]bool{
	"localhost": true,
	"0.0.0.0":   true,
}

// reservedBlocks are IANA-reserved ranges net.IP has no predicate for:
// "this network", CGNAT, the documentation nets, benchmarking, and the
// 240/4 future-use block (which includes broadcast).
var reservedBlocks = mustCIDRs(
	"0.0.0.0/8",
	"100.64.0.0/10",
	"192.0.2.0/24",
	"198.18.0.0/15",
	"198.51.100.0/24",
	"203.0.113.0/24",
	"240.0.0.0/4",
	"2001:db8::/32",
)

func mustCIDRs(blocks ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(blocks))
	for _, block := range blocks {
		_, n, err := net.ParseCIDR(block)
		if err != nil {
			panic("media: bad reserved block " + block + ": " + err.Error())
		}
		nets = append(nets, n)
	}
	return nets
}

func inReservedBlock(ip net.IP) bool {
	for _, block := range reservedBlocks {
		if block.Contains(ip) {
			return true
		}
	}
	return false
}

// ValidateProxyTarget checks that a media URL is safe for the proxy to
// fetch: http(s) only, a real hostname, and nothing that resolves into
// the local or private network.
func ValidateProxyTarget(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return domain.ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return domain.ErrInvalidURL
	}
	hostname := strings.ToLower(u.Hostname())
	if hostname == "" {
		return domain.ErrInvalidURL
	}
	if blockedHostnames[hostname] {
		return domain.ErrLocalAddress
	}
	if ip := net.ParseIP(hostname); ip != nil {
		if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() ||
			ip.IsLinkLocalMulticast() || ip.IsMulticast() || ip.IsUnspecified() ||
			inReservedBlock(ip) {
			return domain.ErrLocalAddress
		}
	}
	return nil
}

// allowedTypePrefixes is the content-type allowlist for proxied bytes.
// Some servers omit the header entirely, which is tolerated.
var allowedTypePrefixes = []string{"image/", "video/", "audio/", "application/octet-stream"}

// AllowedContentType reports whether proxied content may be served.
func AllowedContentType(contentType string) bool {
	if contentType == "" {
		return true
	}
	ct := strings.ToLower(contentType)
	for _, prefix := range allowedTypePrefixes {
		if strings.HasPrefix(ct, prefix) {
			return true
		}
	}
	return false
}
