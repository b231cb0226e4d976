package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sports-cms/internal/domain/entity"
	"sports-cms/internal/infra/db"
	"sports-cms/internal/observability/metrics"
	"sports-cms/internal/repository"
)

// ArticleRepo implements repository.ArticleRepository on PostgreSQL.
type ArticleRepo struct {
	db           db.Querier
	queryBuilder *ArticleQueryBuilder
}

// NewArticleRepo creates a PostgreSQL-backed article repository.
// q is usually a *sql.DB or a circuitbreaker.DBCircuitBreaker wrapping one.
func NewArticleRepo(q db.Querier) *ArticleRepo {
	return &ArticleRepo{
		db:           q,
		queryBuilder: NewArticleQueryBuilder(),
	}
}

var (
	_ repository.ArticleRepository = (*ArticleRepo)(nil)
	_ repository.ArticleSeeder     = (*ArticleRepo)(nil)
)

// ListActive returns a page of active articles, newest first.
func (repo *ArticleRepo) ListActive(ctx context.Context, offset, limit int) ([]*entity.Article, error) {
	defer metrics.TimeOperation("list_active")()

	const query = `
SELECT id, title, content, created_at, deleted_at, image_url
FROM sports_articles
WHERE deleted_at IS NULL
ORDER BY created_at DESC, seq DESC
LIMIT $1 OFFSET $2`

	rows, err := repo.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ListActive: %w", err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, limit)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("ListActive: Scan: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListActive: rows.Err: %w", err)
	}
	return articles, nil
}

// CountActive returns the number of active articles.
func (repo *ArticleRepo) CountActive(ctx context.Context) (int64, error) {
	defer metrics.TimeOperation("count_active")()

	const query = `SELECT COUNT(*) FROM sports_articles WHERE deleted_at IS NULL`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountActive: %w", err)
	}
	return count, nil
}

// GetActive returns the active article with the given id, or (nil, nil).
func (repo *ArticleRepo) GetActive(ctx context.Context, id string) (*entity.Article, error) {
	defer metrics.TimeOperation("get_active")()

	const query = `
SELECT id, title, content, created_at, deleted_at, image_url
FROM sports_articles
WHERE id = $1 AND deleted_at IS NULL
LIMIT 1`

	article, err := scanArticle(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetActive: %w", err)
	}
	return article, nil
}

func (repo *ArticleRepo) Create(ctx context.Context, article *entity.Article) error {
	defer metrics.TimeOperation("create")()

	const query = `
INSERT INTO sports_articles (` + articleInsertColumns + `)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := repo.db.ExecContext(ctx, query,
		article.ID, article.Title, article.Content,
		article.CreatedAt, article.DeletedAt, article.ImageURL)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *ArticleRepo) Update(ctx context.Context, article *entity.Article) error {
	defer metrics.TimeOperation("update")()

	const query = `
UPDATE sports_articles
SET title = $1, content = $2, image_url = $3
WHERE id = $4 AND deleted_at IS NULL`

	res, err := repo.db.ExecContext(ctx, query,
		article.Title, article.Content, article.ImageURL, article.ID)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	return requireAffected(res, "Update")
}

func (repo *ArticleRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	defer metrics.TimeOperation("soft_delete")()

	const query = `
UPDATE sports_articles
SET deleted_at = $1
WHERE id = $2 AND deleted_at IS NULL`

	res, err := repo.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("SoftDelete: %w", err)
	}
	return requireAffected(res, "SoftDelete")
}

// CreateBatch inserts all articles with a single statement.
func (repo *ArticleRepo) CreateBatch(ctx context.Context, articles []*entity.Article) error {
	defer metrics.TimeOperation("create_batch")()

	if len(articles) == 0 {
		return nil
	}
	query, args := repo.queryBuilder.BuildBatchInsert(articles)
	if _, err := repo.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("CreateBatch: %w", err)
	}
	return nil
}

// DeleteAll removes every row, soft-deleted ones included.
func (repo *ArticleRepo) DeleteAll(ctx context.Context) (int64, error) {
	defer metrics.TimeOperation("delete_all")()

	res, err := repo.db.ExecContext(ctx, `DELETE FROM sports_articles`)
	if err != nil {
		return 0, fmt.Errorf("DeleteAll: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteAll: RowsAffected: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*entity.Article, error) {
	var (
		article   entity.Article
		deletedAt sql.NullTime
		imageURL  sql.NullString
	)
	if err := row.Scan(&article.ID, &article.Title, &article.Content,
		&article.CreatedAt, &deletedAt, &imageURL); err != nil {
		return nil, err
	}
	article.CreatedAt = article.CreatedAt.UTC()
	if deletedAt.Valid {
		t := deletedAt.Time.UTC()
		article.DeletedAt = &t
	}
	if imageURL.Valid {
		article.ImageURL = &imageURL.String
	}
	return &article, nil
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: RowsAffected: %w", op, err)
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}
