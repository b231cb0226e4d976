package gqlclient

import (
	"context"
	"fmt"
	"time"

	"sports-cms/internal/domain/entity"
)

const articleFields = `id title content createdAt deletedAt imageUrl`

type articleDTO struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	CreatedAt *string `json:"createdAt"`
	DeletedAt *string `json:"deletedAt"`
	ImageURL  *string `json:"imageUrl"`
}

func (d articleDTO) toEntity() (*entity.Article, error) {
	a := &entity.Article{ID: d.ID, Title: d.Title, Content: d.Content, ImageURL: d.ImageURL}
	if d.CreatedAt != nil {
		t, err := time.Parse(time.RFC3339, *d.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse createdAt %q: %w", *d.CreatedAt, err)
		}
		a.CreatedAt = t
	}
	if d.DeletedAt != nil {
		t, err := time.Parse(time.RFC3339, *d.DeletedAt)
		if err != nil {
			return nil, fmt.Errorf("parse deletedAt %q: %w", *d.DeletedAt, err)
		}
		a.DeletedAt = &t
	}
	return a, nil
}

func inputVars(in entity.ArticleInput) map[string]any {
	v := map[string]any{"title": in.Title, "content": in.Content}
	if in.ImageURL != nil {
		v["imageUrl"] = *in.ImageURL
	}
	return v
}

// ListArticles fetches a page of active articles, newest first.
func (c *Client) ListArticles(ctx context.Context, limit, offset int) (*entity.ArticlePage, error) {
	query := `query($limit: Int, $offset: Int) {
		articles(limit: $limit, offset: $offset) {
			articles { ` + articleFields + ` }
			totalCount
			hasMore
		}
	}`

	var result struct {
		Articles struct {
			Articles   []articleDTO `json:"articles"`
			TotalCount int          `json:"totalCount"`
			HasMore    bool         `json:"hasMore"`
		} `json:"articles"`
	}
	if err := c.do(ctx, query, map[string]any{"limit": limit, "offset": offset}, true, &result); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	page := &entity.ArticlePage{
		Articles:   make([]*entity.Article, 0, len(result.Articles.Articles)),
		TotalCount: result.Articles.TotalCount,
		HasMore:    result.Articles.HasMore,
	}
	for _, dto := range result.Articles.Articles {
		a, err := dto.toEntity()
		if err != nil {
			return nil, fmt.Errorf("list articles: %w", err)
		}
		page.Articles = append(page.Articles, a)
	}
	return page, nil
}

// GetArticle fetches one active article.
func (c *Client) GetArticle(ctx context.Context, id string) (*entity.Article, error) {
	query := `query($id: ID!) { article(id: $id) { ` + articleFields + ` } }`

	var result struct {
		Article *articleDTO `json:"article"`
	}
	if err := c.do(ctx, query, map[string]any{"id": id}, true, &result); err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if result.Article == nil {
		return nil, fmt.Errorf("get article: %w", &ResponseError{Message: "Article not found", Code: CodeNotFound})
	}
	return result.Article.toEntity()
}

// CreateArticle creates an article and returns it as stored.
func (c *Client) CreateArticle(ctx context.Context, in entity.ArticleInput) (*entity.Article, error) {
	query := `mutation($input: ArticleInput!) { createArticle(input: $input) { ` + articleFields + ` } }`

	var result struct {
		CreateArticle articleDTO `json:"createArticle"`
	}
	if err := c.do(ctx, query, map[string]any{"input": inputVars(in)}, false, &result); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return result.CreateArticle.toEntity()
}

// UpdateArticle replaces title, content and imageUrl of an article.
func (c *Client) UpdateArticle(ctx context.Context, id string, in entity.ArticleInput) (*entity.Article, error) {
	query := `mutation($id: ID!, $input: ArticleInput!) { updateArticle(id: $id, input: $input) { ` + articleFields + ` } }`

	var result struct {
		UpdateArticle articleDTO `json:"updateArticle"`
	}
	if err := c.do(ctx, query, map[string]any{"id": id, "input": inputVars(in)}, false, &result); err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}
	return result.UpdateArticle.toEntity()
}

// DeleteArticle soft-deletes an article.
func (c *Client) DeleteArticle(ctx context.Context, id string) error {
	query := `mutation($id: ID!) { deleteArticle(id: $id) }`

	var result struct {
		DeleteArticle bool `json:"deleteArticle"`
	}
	if err := c.do(ctx, query, map[string]any{"id": id}, false, &result); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}
