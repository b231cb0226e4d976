package listsync

import (
	"context"
	"log/slog"

	"sports-cms/internal/domain/entity"
)

// Mutator performs article mutations against the API.
type Mutator interface {
	CreateArticle(ctx context.Context, in entity.ArticleInput) (*entity.Article, error)
	UpdateArticle(ctx context.Context, id string, in entity.ArticleInput) (*entity.Article, error)
	DeleteArticle(ctx context.Context, id string) error
}

// Editor applies mutations and then refreshes the session so the list
// reflects them. A failed refresh is recorded in the session state and
// does not fail the mutation.
type Editor struct {
	API     Mutator
	Session *Session
}

// Create creates an article and refreshes the list.
func (e *Editor) Create(ctx context.Context, in entity.ArticleInput) (*entity.Article, error) {
	a, err := e.API.CreateArticle(ctx, in)
	if err != nil {
		return nil, err
	}
	e.refresh(ctx)
	return a, nil
}

// Update updates an article and refreshes the list.
func (e *Editor) Update(ctx context.Context, id string, in entity.ArticleInput) (*entity.Article, error) {
	a, err := e.API.UpdateArticle(ctx, id, in)
	if err != nil {
		return nil, err
	}
	e.refresh(ctx)
	return a, nil
}

// Delete deletes an article and refreshes the list.
func (e *Editor) Delete(ctx context.Context, id string) error {
	if err := e.API.DeleteArticle(ctx, id); err != nil {
		return err
	}
	e.refresh(ctx)
	return nil
}

func (e *Editor) refresh(ctx context.Context) {
	if e.Session == nil {
		return
	}
	if err := e.Session.Refresh(ctx); err != nil {
		e.Session.logger.Warn("list refresh after mutation failed", slog.Any("error", err))
	}
}
