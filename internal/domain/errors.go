package domain

import "errors"

var (
	// ErrInvalidURL is returned when the requested object URL is missing
	// or not an http(s) URL.
	ErrInvalidURL = errors.New("invalid object URL")

	// ErrFetchFailed is returned when a remote fetch fails at the
	// transport level or the response cannot be read.
	ErrFetchFailed = errors.New("failed to fetch quote")

	// ErrActorNotFound is returned when no ActivityPub actor could be
	// discovered for a webfinger resource.
	ErrActorNotFound = errors.New("no ActivityPub actor found")

	// ErrRateLimited is returned when a client exceeds the fetch rate limit.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrMissingSignature is returned when a media proxy request carries
	// no signature token.
	ErrMissingSignature = errors.New("signature is required")

	// ErrInvalidSignature is returned when a media proxy signature does
	// not verify.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrLocalAddress is returned when a media URL targets a local or
	// private network address.
	ErrLocalAddress = errors.New("local network access is not allowed")

	// ErrBadMediaType is returned when proxied content is not a media type.
	ErrBadMediaType = errors.New("invalid content type")
)
