package repository

import (
	"context"
	"time"

	"sports-cms/internal/domain/entity"
)

// ArticleRepository persists sports articles.
// Every read only sees active rows (deleted_at IS NULL) ordered by
// created_at DESC with later insertions first on equal timestamps.
type ArticleRepository interface {
	// ListActive returns at most limit active articles after skipping offset rows.
	ListActive(ctx context.Context, offset, limit int) ([]*entity.Article, error)
	// CountActive returns the number of active articles.
	CountActive(ctx context.Context) (int64, error)
	// GetActive returns the active article with the given id.
	// Returns (nil, nil) if no active article matches.
	GetActive(ctx context.Context, id string) (*entity.Article, error)
	Create(ctx context.Context, article *entity.Article) error
	// Update overwrites title, content and image_url of an active article.
	// Returns entity.ErrNotFound if no active article matches.
	Update(ctx context.Context, article *entity.Article) error
	// SoftDelete sets deleted_at on an active article.
	// Returns entity.ErrNotFound if no active article matches.
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

// ArticleSeeder is implemented by stores that support bulk loading.
type ArticleSeeder interface {
	// CreateBatch inserts all articles in a single statement.
	CreateBatch(ctx context.Context, articles []*entity.Article) error
	// DeleteAll removes every row, including soft-deleted ones.
	DeleteAll(ctx context.Context) (int64, error)
}
