// Package entity defines the core domain entities and validation logic for the application.
// It contains the Article entity, its input validation rules and domain-specific errors.
package entity

import "time"

// Article represents a sports article.
// DeletedAt is nil while the article is active; a non-nil value marks it soft-deleted.
type Article struct {
	ID        string
	Title     string
	Content   string
	ImageURL  *string
	CreatedAt time.Time
	DeletedAt *time.Time
}

// IsActive reports whether the article has not been soft-deleted.
func (a *Article) IsActive() bool {
	return a.DeletedAt == nil
}

// ArticleInput carries the client-editable fields of an article.
// It is shared by create and update.
type ArticleInput struct {
	Title    string
	Content  string
	ImageURL *string
}

// ArticlePage is one page of the active article list as seen by API clients.
type ArticlePage struct {
	Articles   []*Article
	TotalCount int
	HasMore    bool
}
