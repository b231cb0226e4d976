package graphql

import (
	"context"
	"math"
	"time"

	graphqlgo "github.com/graph-gophers/graphql-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"sports-cms/internal/domain/entity"
	"sports-cms/internal/observability/metrics"
	"sports-cms/internal/observability/tracing"
	"sports-cms/internal/usecase/article"
)

// TimeLayout renders timestamps as ISO-8601 UTC with millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// ArticleService is the use case surface the resolvers need.
type ArticleService interface {
	List(ctx context.Context, in article.ListInput) (*article.ListResult, error)
	Get(ctx context.Context, id string) (*entity.Article, error)
	Create(ctx context.Context, in entity.ArticleInput) (*entity.Article, error)
	Update(ctx context.Context, id string, in entity.ArticleInput) (*entity.Article, error)
	Delete(ctx context.Context, id string) error
}

// Resolver is the root resolver for Query and Mutation.
type Resolver struct {
	svc ArticleService
}

// NewResolver creates a root resolver backed by svc.
func NewResolver(svc ArticleService) *Resolver {
	return &Resolver{svc: svc}
}

type articleInput struct {
	Title    string
	Content  string
	ImageURL *string
}

func (in articleInput) toEntity() entity.ArticleInput {
	return entity.ArticleInput{Title: in.Title, Content: in.Content, ImageURL: in.ImageURL}
}

// observe opens a span for a root field and returns a function that closes
// it and records the outcome of the use case call.
func observe(ctx context.Context, field string, attrs ...attribute.KeyValue) (context.Context, func(err error)) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "graphql."+field, append(attrs, attribute.String("graphql.field", field))...)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, article.KindOf(err).String())
		}
		span.End()
		metrics.RecordGraphQLOperation(field, err == nil, time.Since(start))
	}
}

func observeMutation(ctx context.Context, field, action string, attrs ...attribute.KeyValue) (context.Context, func(err error)) {
	ctx, done := observe(ctx, field, attrs...)
	return ctx, func(err error) {
		done(err)
		result := "ok"
		if err != nil {
			result = article.KindOf(err).String()
		}
		metrics.RecordArticleMutation(action, result)
	}
}

func intPtr(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

// Articles resolves Query.articles.
func (r *Resolver) Articles(ctx context.Context, args struct {
	Limit  *int32
	Offset *int32
}) (*paginatedArticlesResolver, error) {
	ctx, done := observe(ctx, "articles")
	res, err := r.svc.List(ctx, article.ListInput{Limit: intPtr(args.Limit), Offset: intPtr(args.Offset)})
	done(err)
	if err != nil {
		return nil, toGraphQLError(ctx, "articles", err, "Failed to fetch articles")
	}
	return &paginatedArticlesResolver{res: res}, nil
}

// Article resolves Query.article. Unknown ids are reported as NOT_FOUND
// rather than a null article.
func (r *Resolver) Article(ctx context.Context, args struct{ ID graphqlgo.ID }) (*articleResolver, error) {
	ctx, done := observe(ctx, "article", attribute.String("article.id", string(args.ID)))
	a, err := r.svc.Get(ctx, string(args.ID))
	done(err)
	if err != nil {
		return nil, toGraphQLError(ctx, "article", err, "Failed to fetch article")
	}
	return &articleResolver{a: a}, nil
}

// CreateArticle resolves Mutation.createArticle.
func (r *Resolver) CreateArticle(ctx context.Context, args struct{ Input articleInput }) (*articleResolver, error) {
	ctx, done := observeMutation(ctx, "createArticle", "create")
	a, err := r.svc.Create(ctx, args.Input.toEntity())
	done(err)
	if err != nil {
		return nil, toGraphQLError(ctx, "createArticle", err, "Failed to create article")
	}
	return &articleResolver{a: a}, nil
}

// UpdateArticle resolves Mutation.updateArticle.
func (r *Resolver) UpdateArticle(ctx context.Context, args struct {
	ID    graphqlgo.ID
	Input articleInput
}) (*articleResolver, error) {
	ctx, done := observeMutation(ctx, "updateArticle", "update", attribute.String("article.id", string(args.ID)))
	a, err := r.svc.Update(ctx, string(args.ID), args.Input.toEntity())
	done(err)
	if err != nil {
		return nil, toGraphQLError(ctx, "updateArticle", err, "Failed to update article")
	}
	return &articleResolver{a: a}, nil
}

// DeleteArticle resolves Mutation.deleteArticle.
func (r *Resolver) DeleteArticle(ctx context.Context, args struct{ ID graphqlgo.ID }) (bool, error) {
	ctx, done := observeMutation(ctx, "deleteArticle", "delete", attribute.String("article.id", string(args.ID)))
	err := r.svc.Delete(ctx, string(args.ID))
	done(err)
	if err != nil {
		return false, toGraphQLError(ctx, "deleteArticle", err, "Failed to delete article")
	}
	return true, nil
}

type paginatedArticlesResolver struct {
	res *article.ListResult
}

func (p *paginatedArticlesResolver) Articles() []*articleResolver {
	out := make([]*articleResolver, len(p.res.Items))
	for i, a := range p.res.Items {
		out[i] = &articleResolver{a: a}
	}
	return out
}

// TotalCount saturates at the largest GraphQL Int.
func (p *paginatedArticlesResolver) TotalCount() int32 {
	return int32(min(p.res.TotalCount, math.MaxInt32))
}

func (p *paginatedArticlesResolver) HasMore() bool { return p.res.HasMore }

type articleResolver struct {
	a *entity.Article
}

func (r *articleResolver) ID() graphqlgo.ID { return graphqlgo.ID(r.a.ID) }

func (r *articleResolver) Title() string { return r.a.Title }

func (r *articleResolver) Content() string { return r.a.Content }

func (r *articleResolver) ImageURL() *string { return r.a.ImageURL }

func (r *articleResolver) CreatedAt() *string {
	if r.a.CreatedAt.IsZero() {
		return nil
	}
	s := r.a.CreatedAt.UTC().Format(TimeLayout)
	return &s
}

func (r *articleResolver) DeletedAt() *string {
	if r.a.DeletedAt == nil {
		return nil
	}
	s := r.a.DeletedAt.UTC().Format(TimeLayout)
	return &s
}
