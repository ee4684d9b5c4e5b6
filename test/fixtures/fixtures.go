// Package fixtures provides ActivityPub JSON test fixtures.
package fixtures

// GenerateBasicNote creates a plain public Note document.
func GenerateBasicNote() string {
	return `{
  "@context": "https://www.w3.org/ns/activitystreams",
  "id": "https://social.example/users/alice/statuses/1",
  "type": "Note",
  "attributedTo": "https://social.example/users/alice",
  "content": "<p>Hello fediverse!</p>",
  "published": "2026-01-01T12:00:00Z",
  "to": ["https://www.w3.org/ns/activitystreams#Public"],
  "cc": ["https://social.example/users/alice/followers"]
}`
}

// GenerateQuoteNote creates a Note that quotes another object.
func GenerateQuoteNote(quoted string) string {
	return `{
  "@context": "https://www.w3.org/ns/activitystreams",
  "id": "https://social.example/users/bob/statuses/2",
  "type": "Note",
  "attributedTo": "https://social.example/users/bob",
  "content": "<p>Check this out</p>",
  "quoteUrl": "` + quoted + `",
  "to": ["https://www.w3.org/ns/activitystreams#Public"]
}`
}

// GenerateSensitiveNote creates a Note with a content warning and a
// sensitive image attachment.
func GenerateSensitiveNote() string {
	return `{
  "id": "https://social.example/users/alice/statuses/3",
  "type": "Note",
  "summary": "medical stuff",
  "content": "<p>Gory details inside</p>",
  "sensitive": true,
  "attachment": [
    {
      "type": "Document",
      "mediaType": "image/png",
      "url": "https://files.example/media/wound.png",
      "name": "photo of a wound",
      "sensitive": true
    }
  ]
}`
}

// GeneratePollNote creates a Question with two single-choice options.
func GeneratePollNote() string {
	return `{
  "id": "https://social.example/users/alice/statuses/4",
  "type": "Question",
  "content": "<p>Tabs or spaces?</p>",
  "oneOf": [
    {"type": "Note", "name": "Tabs", "replies": {"totalItems": 30}},
    {"type": "Note", "name": "Spaces", "replies": {"totalItems": 70}}
  ],
  "endTime": "2026-02-01T00:00:00Z",
  "votersCount": 100,
  "closed": "2026-02-01T00:00:00Z"
}`
}

// GenerateActor creates an actor document with a custom emoji in the
// display name.
func GenerateActor() string {
	return `{
  "id": "https://social.example/users/alice",
  "type": "Person",
  "preferredUsername": "alice",
  "name": "Alice :verified:",
  "icon": {"type": "Image", "url": "https://files.example/avatars/alice.png"},
  "tag": [
    {
      "type": "Emoji",
      "name": ":verified:",
      "icon": {"type": "Image", "url": "https://files.example/emoji/verified.png"}
    }
  ]
}`
}

// GenerateWebfingerDocument creates a discovery document pointing at an
// actor URL.
func GenerateWebfingerDocument(actorURL string) string {
	return `{
  "subject": "acct:alice@social.example",
  "links": [
    {"rel": "http://webfinger.net/rel/profile-page", "type": "text/html", "href": "https://social.example/@alice"},
    {"rel": "self", "type": "application/activity+json", "href": "` + actorURL + `"}
  ]
}`
}
