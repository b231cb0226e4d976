package graphql_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sports-cms/internal/common/pagination"
	"sports-cms/internal/domain/entity"
	"sports-cms/internal/handler/graphql"
	"sports-cms/internal/infra/adapter/persistence/sqlite"
	"sports-cms/internal/infra/db"
	"sports-cms/internal/observability/logging"
	"sports-cms/internal/usecase/article"
)

/* ────────────────────────────  helpers  ──────────────────────────── */

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message    string         `json:"message"`
		Extensions map[string]any `json:"extensions"`
	} `json:"errors"`
}

type articleJSON struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	CreatedAt *string `json:"createdAt"`
	DeletedAt *string `json:"deletedAt"`
	ImageURL  *string `json:"imageUrl"`
}

type pageJSON struct {
	Articles   []articleJSON `json:"articles"`
	TotalCount int           `json:"totalCount"`
	HasMore    bool          `json:"hasMore"`
}

const articleFields = `id title content createdAt deletedAt imageUrl`

type testServer struct {
	handler http.Handler
	repo    *sqlite.ArticleRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	database, err := sql.Open(db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	database.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, db.MigrateUp(context.Background(), database, db.DriverSQLite))

	repo := sqlite.NewArticleRepo(database)
	svc := article.NewService(repo, pagination.DefaultConfig())
	return &testServer{
		handler: graphql.NewHandler(graphql.NewSchema(svc, 0), slog.New(slog.DiscardHandler)),
		repo:    repo,
	}
}

func post(t *testing.T, h http.Handler, query string, vars map[string]any) gqlResponse {
	t.Helper()
	body, err := json.Marshal(map[string]any{"query": query, "variables": vars})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp gqlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func decodeField(t *testing.T, resp gqlResponse, field string, v any) {
	t.Helper()
	require.Empty(t, resp.Errors)
	var data map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NoError(t, json.Unmarshal(data[field], v))
}

func requireCode(t *testing.T, resp gqlResponse, code, message string) {
	t.Helper()
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, code, resp.Errors[0].Extensions["code"])
	assert.Equal(t, message, resp.Errors[0].Message)
}

func (s *testServer) create(t *testing.T, title string) articleJSON {
	t.Helper()
	var a articleJSON
	decodeField(t, post(t, s.handler,
		`mutation($input: ArticleInput!) { createArticle(input: $input) { `+articleFields+` } }`,
		map[string]any{"input": map[string]any{"title": title, "content": "Body of " + title}},
	), "createArticle", &a)
	return a
}

func (s *testServer) list(t *testing.T, limit, offset *int) pageJSON {
	t.Helper()
	var p pageJSON
	decodeField(t, post(t, s.handler,
		`query($limit: Int, $offset: Int) { articles(limit: $limit, offset: $offset) { articles { id title } totalCount hasMore } }`,
		map[string]any{"limit": limit, "offset": offset},
	), "articles", &p)
	return p
}

func (s *testServer) seed(t *testing.T, n int) []*entity.Article {
	t.Helper()
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	articles := make([]*entity.Article, n)
	for i := range articles {
		articles[i] = &entity.Article{
			ID:        uuid.NewString(),
			Title:     fmt.Sprintf("Match report %d", i),
			Content:   "content",
			CreatedAt: t0.Add(time.Duration(i) * time.Minute),
		}
	}
	require.NoError(t, s.repo.CreateBatch(context.Background(), articles))
	return articles
}

func intPtr(n int) *int { return &n }

/* ────────────────────────────  queries and mutations  ──────────────────────────── */

var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`)

func TestCreateThenGet(t *testing.T) {
	s := newTestServer(t)
	created := s.create(t, "Cup final")

	require.NotNil(t, created.CreatedAt)
	assert.Regexp(t, timestampPattern, *created.CreatedAt)
	assert.Nil(t, created.DeletedAt)
	assert.Nil(t, created.ImageURL)

	var got articleJSON
	decodeField(t, post(t, s.handler,
		`query($id: ID!) { article(id: $id) { `+articleFields+` } }`,
		map[string]any{"id": created.ID},
	), "article", &got)
	assert.Equal(t, created, got)
}

func TestCreate_EmptyImageURLIsNull(t *testing.T) {
	s := newTestServer(t)

	var a articleJSON
	decodeField(t, post(t, s.handler,
		`mutation { createArticle(input: {title: "t", content: "c", imageUrl: ""}) { imageUrl } }`, nil,
	), "createArticle", &a)
	assert.Nil(t, a.ImageURL)
}

func TestCreate_ValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     map[string]any
		wantField string
		wantMsg   string
	}{
		{
			name:      "empty title",
			input:     map[string]any{"title": "", "content": "c"},
			wantField: "title",
			wantMsg:   "Title is required",
		},
		{
			name:      "blank content",
			input:     map[string]any{"title": "t", "content": "   "},
			wantField: "content",
			wantMsg:   "Content is required",
		},
		{
			name:      "bad image url",
			input:     map[string]any{"title": "t", "content": "c", "imageUrl": "ftp://host/a.png"},
			wantField: "imageUrl",
			wantMsg:   "Image URL must be a valid URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			resp := post(t, s.handler,
				`mutation($input: ArticleInput!) { createArticle(input: $input) { id } }`,
				map[string]any{"input": tt.input})

			requireCode(t, resp, graphql.CodeBadUserInput, tt.wantMsg)
			assert.Equal(t, tt.wantField, resp.Errors[0].Extensions["field"])
			assert.Equal(t, 0, s.list(t, nil, nil).TotalCount)
		})
	}
}

func TestArticle_NotFound(t *testing.T) {
	s := newTestServer(t)

	for _, id := range []string{uuid.NewString(), "not-a-uuid", ""} {
		resp := post(t, s.handler, `query($id: ID!) { article(id: $id) { id } }`, map[string]any{"id": id})
		requireCode(t, resp, graphql.CodeNotFound, "Article not found")
	}
}

func TestUpdate(t *testing.T) {
	s := newTestServer(t)
	created := s.create(t, "Before")

	var updated articleJSON
	decodeField(t, post(t, s.handler,
		`mutation($id: ID!, $input: ArticleInput!) { updateArticle(id: $id, input: $input) { `+articleFields+` } }`,
		map[string]any{"id": created.ID, "input": map[string]any{
			"title": "After", "content": "New body", "imageUrl": "https://cdn.example.com/a.jpg",
		}},
	), "updateArticle", &updated)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "After", updated.Title)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	require.NotNil(t, updated.ImageURL)
	assert.Equal(t, "https://cdn.example.com/a.jpg", *updated.ImageURL)
}

func TestUpdate_EmptyTitleLeavesStorageUnchanged(t *testing.T) {
	s := newTestServer(t)
	created := s.create(t, "Original")

	resp := post(t, s.handler,
		`mutation($id: ID!) { updateArticle(id: $id, input: {title: "", content: "x"}) { id } }`,
		map[string]any{"id": created.ID})
	requireCode(t, resp, graphql.CodeBadUserInput, "Title is required")
	assert.Equal(t, "title", resp.Errors[0].Extensions["field"])

	var got articleJSON
	decodeField(t, post(t, s.handler,
		`query($id: ID!) { article(id: $id) { `+articleFields+` } }`,
		map[string]any{"id": created.ID},
	), "article", &got)
	assert.Equal(t, created, got)
}

func TestUpdate_NotFound(t *testing.T) {
	s := newTestServer(t)
	resp := post(t, s.handler,
		`mutation($id: ID!) { updateArticle(id: $id, input: {title: "t", content: "c"}) { id } }`,
		map[string]any{"id": uuid.NewString()})
	requireCode(t, resp, graphql.CodeNotFound, "Article not found")
}

func TestDelete(t *testing.T) {
	s := newTestServer(t)
	keep := s.create(t, "Keep")
	gone := s.create(t, "Gone")

	const del = `mutation($id: ID!) { deleteArticle(id: $id) }`
	var ok bool
	decodeField(t, post(t, s.handler, del, map[string]any{"id": gone.ID}), "deleteArticle", &ok)
	assert.True(t, ok)

	requireCode(t, post(t, s.handler, `query($id: ID!) { article(id: $id) { id } }`, map[string]any{"id": gone.ID}),
		graphql.CodeNotFound, "Article not found")
	requireCode(t, post(t, s.handler, del, map[string]any{"id": gone.ID}),
		graphql.CodeNotFound, "Article not found")

	page := s.list(t, nil, nil)
	assert.Equal(t, 1, page.TotalCount)
	require.Len(t, page.Articles, 1)
	assert.Equal(t, keep.ID, page.Articles[0].ID)
}

/* ────────────────────────────  pagination  ──────────────────────────── */

func TestArticles_NewestFirst(t *testing.T) {
	s := newTestServer(t)
	a := s.create(t, "A")
	b := s.create(t, "B")

	page := s.list(t, nil, nil)
	require.Len(t, page.Articles, 2)
	assert.Equal(t, []string{b.ID, a.ID}, []string{page.Articles[0].ID, page.Articles[1].ID})
	assert.Equal(t, 2, page.TotalCount)
	assert.False(t, page.HasMore)
}

func TestArticles_FifteenArticles(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, 15)

	first := s.list(t, intPtr(10), intPtr(0))
	assert.Len(t, first.Articles, 10)
	assert.Equal(t, 15, first.TotalCount)
	assert.True(t, first.HasMore)
	assert.Equal(t, "Match report 14", first.Articles[0].Title)

	second := s.list(t, intPtr(10), intPtr(10))
	assert.Len(t, second.Articles, 5)
	assert.False(t, second.HasMore)
	assert.Equal(t, "Match report 0", second.Articles[4].Title)
}

func TestArticles_LimitClamping(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, 60)

	tests := []struct {
		name   string
		limit  *int
		offset *int
		want   int
	}{
		{name: "unset limit uses default", want: 10},
		{name: "limit above max is clamped", limit: intPtr(100), want: 50},
		{name: "zero limit uses default", limit: intPtr(0), want: 10},
		{name: "negative offset starts at zero", limit: intPtr(5), offset: intPtr(-3), want: 5},
		{name: "offset past the end", offset: intPtr(60), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := s.list(t, tt.limit, tt.offset)
			assert.Len(t, page.Articles, tt.want)
			assert.Equal(t, 60, page.TotalCount)
		})
	}
}

/* ────────────────────────────  internal errors  ──────────────────────────── */

type failingService struct{ err error }

func (f failingService) List(context.Context, article.ListInput) (*article.ListResult, error) {
	return nil, f.err
}
func (f failingService) Get(context.Context, string) (*entity.Article, error) { return nil, f.err }
func (f failingService) Create(context.Context, entity.ArticleInput) (*entity.Article, error) {
	return nil, f.err
}
func (f failingService) Update(context.Context, string, entity.ArticleInput) (*entity.Article, error) {
	return nil, f.err
}
func (f failingService) Delete(context.Context, string) error { return f.err }

func TestInternalErrorsAreMasked(t *testing.T) {
	cause := errors.New("list articles: dial postgres://cms:hunter2@db:5432/cms: connection refused")

	var logs bytes.Buffer
	h := graphql.NewHandler(graphql.NewSchema(failingService{err: cause}, 0), logging.New(&logs, slog.LevelInfo))

	tests := []struct {
		query   string
		wantMsg string
	}{
		{`{ articles { totalCount } }`, "Failed to fetch articles"},
		{`{ article(id: "x") { id } }`, "Failed to fetch article"},
		{`mutation { createArticle(input: {title: "t", content: "c"}) { id } }`, "Failed to create article"},
		{`mutation { updateArticle(id: "x", input: {title: "t", content: "c"}) { id } }`, "Failed to update article"},
		{`mutation { deleteArticle(id: "x") }`, "Failed to delete article"},
	}

	for _, tt := range tests {
		t.Run(tt.wantMsg, func(t *testing.T) {
			logs.Reset()
			resp := post(t, h, tt.query, nil)

			requireCode(t, resp, graphql.CodeInternal, tt.wantMsg)
			assert.NotContains(t, string(resp.Data), "hunter2")
			assert.Contains(t, logs.String(), "cms:****@db")
			assert.NotContains(t, logs.String(), "hunter2")
		})
	}
}

/* ────────────────────────────  transport  ──────────────────────────── */

func TestHandler_GETQuery(t *testing.T) {
	s := newTestServer(t)
	s.create(t, "Via GET")

	target := "/graphql?" + url.Values{
		"query":     {`query($limit: Int) { articles(limit: $limit) { totalCount } }`},
		"variables": {`{"limit": 1}`},
	}.Encode()
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"articles":{"totalCount":1}}}`, rec.Body.String())
}

func TestHandler_RejectsBadRequests(t *testing.T) {
	s := newTestServer(t)

	mutation := url.Values{"query": {"mutation {\n deleteArticle(id: \"x\")\n}"}}.Encode()
	mixed := url.Values{
		"query":         {`query A { articles { totalCount } } mutation B { deleteArticle(id: "x") }`},
		"operationName": {"B"},
	}.Encode()
	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		wantCode int
	}{
		{name: "mutation over GET", method: http.MethodGet, target: "/graphql?" + mutation, wantCode: http.StatusMethodNotAllowed},
		{name: "named mutation after a query over GET", method: http.MethodGet, target: "/graphql?" + mixed, wantCode: http.StatusMethodNotAllowed},
		{name: "anonymous one-line mutation over GET", method: http.MethodGet, target: "/graphql?query=" + url.QueryEscape(`{ articles { totalCount } } mutation{deleteArticle(id:"x")}`), wantCode: http.StatusMethodNotAllowed},
		{name: "unsupported method", method: http.MethodPut, target: "/graphql", wantCode: http.StatusMethodNotAllowed},
		{name: "malformed JSON", method: http.MethodPost, target: "/graphql", body: `{"query":`, wantCode: http.StatusBadRequest},
		{name: "missing query", method: http.MethodPost, target: "/graphql", body: `{}`, wantCode: http.StatusBadRequest},
		{name: "bad variables", method: http.MethodGet, target: "/graphql?query=%7Barticles%7BtotalCount%7D%7D&variables=oops", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.wantCode, rec.Code)
			var body gqlResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Errors)
		})
	}
}

func TestHandler_GetRunsQueryFromMixedDocument(t *testing.T) {
	s := newTestServer(t)

	target := "/graphql?" + url.Values{
		"query":         {`query A { articles { totalCount } } mutation B { deleteArticle(id: "x") }`},
		"operationName": {"A"},
	}.Encode()
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body gqlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Errors)
}

func TestSchema_MaxDepth(t *testing.T) {
	h := graphql.NewHandler(graphql.NewSchema(failingService{}, 1), nil)

	resp := post(t, h, `{ articles { articles { id } } }`, nil)
	assert.NotEmpty(t, resp.Errors)
}
