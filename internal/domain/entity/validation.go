package entity

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Column limits of the sports_articles table.
const (
	MaxTitleLength    = 255
	MaxImageURLLength = 500
)

// NormalizeArticleInput returns a copy of in with an empty image URL treated as absent.
func NormalizeArticleInput(in ArticleInput) ArticleInput {
	if in.ImageURL != nil && *in.ImageURL == "" {
		in.ImageURL = nil
	}
	return in
}

// ValidateArticleInput checks the input field by field and returns the first
// failure as a *ValidationError. Whitespace-only title or content counts as empty.
// The input is expected to be normalized already.
func ValidateArticleInput(in ArticleInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Message: "Title is required"}
	}
	if utf8.RuneCountInString(in.Title) > MaxTitleLength {
		return &ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("Title must be at most %d characters", MaxTitleLength),
		}
	}
	if strings.TrimSpace(in.Content) == "" {
		return &ValidationError{Field: "content", Message: "Content is required"}
	}
	if in.ImageURL != nil {
		if err := ValidateImageURL(*in.ImageURL); err != nil {
			return err
		}
	}
	return nil
}

// ValidateImageURL validates that rawURL is a well-formed absolute http(s) URL
// that fits the image_url column.
func ValidateImageURL(rawURL string) error {
	invalid := &ValidationError{Field: "imageUrl", Message: "Image URL must be a valid URL"}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return invalid
	}
	if !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return invalid
	}
	if parsed.Host == "" || parsed.Hostname() == "" {
		return invalid
	}

	if utf8.RuneCountInString(rawURL) > MaxImageURLLength {
		return &ValidationError{
			Field:   "imageUrl",
			Message: fmt.Sprintf("Image URL must be at most %d characters", MaxImageURLLength),
		}
	}
	return nil
}
