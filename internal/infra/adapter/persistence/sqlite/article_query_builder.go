// Package sqlite provides SQLite implementations of repository interfaces.
package sqlite

import (
	"strings"

	"sports-cms/internal/domain/entity"
)

// ArticleQueryBuilder builds multi-row statements for sports_articles
// using SQLite positional placeholders.
type ArticleQueryBuilder struct{}

// NewArticleQueryBuilder creates a new query builder instance.
func NewArticleQueryBuilder() *ArticleQueryBuilder {
	return &ArticleQueryBuilder{}
}

const articleInsertColumns = "id, title, content, created_at, deleted_at, image_url"

// BuildBatchInsert returns one INSERT statement covering all articles,
// with timestamps already encoded for storage.
func (qb *ArticleQueryBuilder) BuildBatchInsert(articles []*entity.Article) (query string, args []any) {
	if len(articles) == 0 {
		return "", nil
	}

	placeholders := make([]string, len(articles))
	args = make([]any, 0, len(articles)*6)
	for i, a := range articles {
		placeholders[i] = "(?, ?, ?, ?, ?, ?)"
		args = append(args, articleArgs(a)...)
	}

	query = "INSERT INTO sports_articles (" + articleInsertColumns + ") VALUES " +
		strings.Join(placeholders, ", ")
	return query, args
}

func articleArgs(a *entity.Article) []any {
	return []any{
		a.ID, a.Title, a.Content,
		formatTime(a.CreatedAt), formatNullTime(a.DeletedAt), nullString(a.ImageURL),
	}
}
