package article

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sports-cms/internal/common/pagination"
	"sports-cms/internal/domain/entity"
	"sports-cms/internal/observability/logging"
	"sports-cms/internal/repository"
)

// ListInput carries optional client paging values. They are clamped, never rejected.
type ListInput struct {
	Limit  *int
	Offset *int
}

// ListResult is one page of active articles.
type ListResult struct {
	Items      []*entity.Article
	TotalCount int64
	HasMore    bool
}

// Service provides article management use cases.
// It handles business logic for article operations and delegates persistence to the repository.
type Service struct {
	Repo       repository.ArticleRepository
	Pagination pagination.Config

	// Now and NewID default to the wall clock and random UUIDs.
	Now   func() time.Time
	NewID func() string
}

// NewService creates a Service with the given repository and paging limits.
func NewService(repo repository.ArticleRepository, cfg pagination.Config) *Service {
	return &Service{Repo: repo, Pagination: cfg}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	// PostgreSQL keeps microseconds; truncate so the returned value equals the stored one.
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.New().String()
}

func (s *Service) pagingConfig() pagination.Config {
	if !s.Pagination.Valid() {
		return pagination.DefaultConfig()
	}
	return s.Pagination
}

// List retrieves a page of active articles, newest first, together with the
// active total and whether more items follow.
func (s *Service) List(ctx context.Context, in ListInput) (*ListResult, error) {
	start := time.Now()
	params := pagination.Resolve(in.Limit, in.Offset, s.pagingConfig())

	logger := logging.FromContext(ctx)

	total, err := s.Repo.CountActive(ctx)
	if err != nil {
		s.listFailed(logger, params, err)
		return nil, fmt.Errorf("count articles: %w", err)
	}

	items, err := s.Repo.ListActive(ctx, params.Offset, params.Limit)
	if err != nil {
		s.listFailed(logger, params, err)
		return nil, fmt.Errorf("list articles: %w", err)
	}

	duration := time.Since(start)
	pagination.RecordPage(params.Offset, total, duration)

	meta := pagination.NewMetadata(params, len(items), total)
	pagination.LogPage(logger, meta, len(items), duration)
	return &ListResult{
		Items:      items,
		TotalCount: meta.TotalCount,
		HasMore:    meta.HasMore,
	}, nil
}

func (s *Service) listFailed(logger *slog.Logger, params pagination.Params, err error) {
	errorType := "database"
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		errorType = "timeout"
	}
	pagination.RecordFailure(params.Offset, errorType)
	pagination.LogError(logger, params, err, errorType)
}

// Get retrieves a single active article by its ID.
// Returns ErrArticleNotFound if the ID is malformed, unknown or soft-deleted.
func (s *Service) Get(ctx context.Context, id string) (*entity.Article, error) {
	key, ok := canonicalID(id)
	if !ok {
		return nil, ErrArticleNotFound
	}

	article, err := s.Repo.GetActive(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	return article, nil
}

// Create validates the input and stores a new article.
// Returns a ValidationError if any input field is invalid.
func (s *Service) Create(ctx context.Context, in entity.ArticleInput) (*entity.Article, error) {
	in = entity.NormalizeArticleInput(in)
	if err := entity.ValidateArticleInput(in); err != nil {
		return nil, err
	}

	art := &entity.Article{
		ID:        s.newID(),
		Title:     in.Title,
		Content:   in.Content,
		ImageURL:  in.ImageURL,
		CreatedAt: s.now(),
	}

	if err := s.Repo.Create(ctx, art); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return art, nil
}

// Update overwrites title, content and imageUrl of an active article.
// Validation runs before any storage access.
// Returns ErrArticleNotFound if no active article has the ID.
func (s *Service) Update(ctx context.Context, id string, in entity.ArticleInput) (*entity.Article, error) {
	in = entity.NormalizeArticleInput(in)
	if err := entity.ValidateArticleInput(in); err != nil {
		return nil, err
	}

	key, ok := canonicalID(id)
	if !ok {
		return nil, ErrArticleNotFound
	}

	art, err := s.Repo.GetActive(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if art == nil {
		return nil, ErrArticleNotFound
	}

	art.Title = in.Title
	art.Content = in.Content
	art.ImageURL = in.ImageURL

	if err := s.Repo.Update(ctx, art); err != nil {
		// deleted between the read and the write
		if errors.Is(err, entity.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("update article: %w", err)
	}
	return art, nil
}

// Delete soft-deletes an active article.
// Returns ErrArticleNotFound if no active article has the ID, including
// one that was already deleted.
func (s *Service) Delete(ctx context.Context, id string) error {
	key, ok := canonicalID(id)
	if !ok {
		return ErrArticleNotFound
	}

	if err := s.Repo.SoftDelete(ctx, key, s.now()); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrArticleNotFound
		}
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

// canonicalID parses id as a UUID and returns its lower-case hyphenated form.
func canonicalID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
