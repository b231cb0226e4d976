// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"fmt"
	"strings"

	"sports-cms/internal/domain/entity"
)

// ArticleQueryBuilder builds multi-row statements for sports_articles.
// It uses PostgreSQL numbered placeholders ($1, $2, etc.).
type ArticleQueryBuilder struct{}

// NewArticleQueryBuilder creates a new query builder instance.
func NewArticleQueryBuilder() *ArticleQueryBuilder {
	return &ArticleQueryBuilder{}
}

// articleInsertColumns is the column list shared by single and batch inserts.
const articleInsertColumns = "id, title, content, created_at, deleted_at, image_url"

// BuildBatchInsert returns one INSERT statement covering all articles.
// Rows are listed in slice order, so seq follows the slice.
func (qb *ArticleQueryBuilder) BuildBatchInsert(articles []*entity.Article) (query string, args []any) {
	if len(articles) == 0 {
		return "", nil
	}

	const perRow = 6
	var b strings.Builder
	b.WriteString("INSERT INTO sports_articles (" + articleInsertColumns + ") VALUES ")

	args = make([]any, 0, len(articles)*perRow)
	for i, a := range articles {
		if i > 0 {
			b.WriteString(", ")
		}
		base := i * perRow
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6)
		args = append(args, a.ID, a.Title, a.Content, a.CreatedAt, a.DeletedAt, a.ImageURL)
	}
	return b.String(), args
}
