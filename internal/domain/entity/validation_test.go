package entity

import (
	"errors"
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestValidateArticleInput(t *testing.T) {
	tests := []struct {
		name      string
		in        ArticleInput
		wantField string
		wantMsg   string
	}{
		{
			name: "valid without image",
			in:   ArticleInput{Title: "Derby day", Content: "Full report"},
		},
		{
			name: "valid with image",
			in:   ArticleInput{Title: "Derby day", Content: "Full report", ImageURL: strPtr("https://cdn.example.com/a.jpg")},
		},
		{
			name:      "empty title",
			in:        ArticleInput{Title: "", Content: "c"},
			wantField: "title",
			wantMsg:   "Title is required",
		},
		{
			name:      "whitespace title",
			in:        ArticleInput{Title: "   \t", Content: "c"},
			wantField: "title",
			wantMsg:   "Title is required",
		},
		{
			name:      "title too long",
			in:        ArticleInput{Title: strings.Repeat("a", MaxTitleLength+1), Content: "c"},
			wantField: "title",
			wantMsg:   "Title must be at most 255 characters",
		},
		{
			name: "title at limit counts runes",
			in:   ArticleInput{Title: strings.Repeat("é", MaxTitleLength), Content: "c"},
		},
		{
			name:      "empty content",
			in:        ArticleInput{Title: "t", Content: ""},
			wantField: "content",
			wantMsg:   "Content is required",
		},
		{
			name:      "title reported before content",
			in:        ArticleInput{},
			wantField: "title",
			wantMsg:   "Title is required",
		},
		{
			name:      "relative image url",
			in:        ArticleInput{Title: "t", Content: "c", ImageURL: strPtr("/images/a.jpg")},
			wantField: "imageUrl",
			wantMsg:   "Image URL must be a valid URL",
		},
		{
			name:      "not a url",
			in:        ArticleInput{Title: "t", Content: "c", ImageURL: strPtr("not a url")},
			wantField: "imageUrl",
			wantMsg:   "Image URL must be a valid URL",
		},
		{
			name:      "javascript scheme",
			in:        ArticleInput{Title: "t", Content: "c", ImageURL: strPtr("javascript:alert(1)")},
			wantField: "imageUrl",
			wantMsg:   "Image URL must be a valid URL",
		},
		{
			name:      "image url too long",
			in:        ArticleInput{Title: "t", Content: "c", ImageURL: strPtr("https://example.com/" + strings.Repeat("x", MaxImageURLLength))},
			wantField: "imageUrl",
			wantMsg:   "Image URL must be at most 500 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateArticleInput(tt.in)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateArticleInput() unexpected error: %v", err)
				}
				return
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("ValidateArticleInput() error = %v, want *ValidationError", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", vErr.Field, tt.wantField)
			}
			if vErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", vErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestNormalizeArticleInput(t *testing.T) {
	in := NormalizeArticleInput(ArticleInput{Title: "t", Content: "c", ImageURL: strPtr("")})
	if in.ImageURL != nil {
		t.Fatalf("empty image url should be normalized to nil, got %q", *in.ImageURL)
	}

	in = NormalizeArticleInput(ArticleInput{Title: "t", Content: "c", ImageURL: strPtr("https://a.example/x.png")})
	if in.ImageURL == nil || *in.ImageURL != "https://a.example/x.png" {
		t.Fatalf("non-empty image url must be kept, got %v", in.ImageURL)
	}

	// The empty string must pass validation once normalized.
	if err := ValidateArticleInput(NormalizeArticleInput(ArticleInput{Title: "t", Content: "c", ImageURL: strPtr("")})); err != nil {
		t.Fatalf("normalized input should be valid: %v", err)
	}
}
