package activitypub_test

import (
	"testing"

	"fediview/internal/activitypub"
	"fediview/internal/domain"
)

func TestClassifyTagType_ShortAndQualifiedForms(t *testing.T) {
	cases := []struct {
		name    string
		tagType string
		want    domain.TagKind
	}{
		{"short hashtag", "Hashtag", domain.TagHashtag},
		{"short mention", "Mention", domain.TagMention},
		{"short emoji", "Emoji", domain.TagEmoji},
		{"qualified emoji", "http://joinmastodon.org/ns#Emoji", domain.TagEmoji},
		{"qualified hashtag", "https://www.w3.org/ns/activitystreams/Hashtag", domain.TagHashtag},
		{"compact emoji", "toot:Emoji", domain.TagEmoji},
		{"compact hashtag", "as:Hashtag", domain.TagHashtag},
		{"unknown", "Article", domain.TagOther},
		{"empty", "", domain.TagOther},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			kind := activitypub.ClassifyTagType(tc.tagType)

			// Assert
			if kind != tc.want {
				t.Errorf("got %v, want %v", kind, tc.want)
			}
		})
	}
}

func TestExtractTags_ListOfTags(t *testing.T) {
	// Arrange
	obj := map[string]any{
		"tag": []any{
			map[string]any{"type": "Hashtag", "name": "#golang", "href": "https://social.example/tags/golang"},
			map[string]any{
				"type": "Emoji",
				"name": ":blob:",
				"icon": map[string]any{"url": "https://files.example/emoji/blob.png"},
			},
			"not an object",
		},
	}

	// Act
	tags := activitypub.ExtractTags(obj)

	// Assert
	if len(tags) != 2 {
		t.Fatalf("tags: got %d, want 2", len(tags))
	}
	if tags[0].Kind != domain.TagHashtag || tags[0].Href == "" {
		t.Errorf("hashtag: got %+v", tags[0])
	}
	if tags[1].Kind != domain.TagEmoji || tags[1].IconURL != "https://files.example/emoji/blob.png" {
		t.Errorf("emoji: got %+v", tags[1])
	}
}

func TestExtractTags_SingularTagObjectIsCoerced(t *testing.T) {
	// Arrange
	obj := map[string]any{
		"tag": map[string]any{"type": "Mention", "name": "@bob", "href": "https://social.example/users/bob"},
	}

	// Act
	tags := activitypub.ExtractTags(obj)

	// Assert
	if len(tags) != 1 {
		t.Fatalf("tags: got %d, want 1", len(tags))
	}
	if tags[0].Kind != domain.TagMention || tags[0].Name != "@bob" {
		t.Errorf("got %+v", tags[0])
	}
}

func TestExtractTags_NoTagField_ReturnsNil(t *testing.T) {
	// Act
	tags := activitypub.ExtractTags(map[string]any{"content": "hi"})

	// Assert
	if tags != nil {
		t.Errorf("got %v, want nil", tags)
	}
}

func TestIconURL_BothShapes(t *testing.T) {
	// Act / Assert
	if got := activitypub.IconURL("https://files.example/i.png"); got != "https://files.example/i.png" {
		t.Errorf("string shape: got %q", got)
	}
	if got := activitypub.IconURL(map[string]any{"url": "https://files.example/j.png"}); got != "https://files.example/j.png" {
		t.Errorf("object shape: got %q", got)
	}
	if got := activitypub.IconURL(nil); got != "" {
		t.Errorf("nil: got %q, want empty", got)
	}
}
