package article_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sports-cms/internal/common/pagination"
	"sports-cms/internal/domain/entity"
	artUC "sports-cms/internal/usecase/article"
)

/* ───────── スタブ実装 ───────── */

// 最小限のインメモリ ArticleRepository
type stubRepo struct {
	mu    sync.Mutex
	rows  []*entity.Article // 挿入順
	err   error             // 強制的にエラーを返したいとき用
	calls int
}

func newStub() *stubRepo { return &stubRepo{} }

func clone(a *entity.Article) *entity.Article {
	c := *a
	return &c
}

func (s *stubRepo) active() []*entity.Article {
	var out []*entity.Article
	for i := len(s.rows) - 1; i >= 0; i-- { // 後から挿入したものが先
		if s.rows[i].DeletedAt == nil {
			out = append(out, s.rows[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *stubRepo) find(id string) *entity.Article {
	for _, r := range s.rows {
		if r.ID == id && r.DeletedAt == nil {
			return r
		}
	}
	return nil
}

func (s *stubRepo) ListActive(_ context.Context, offset, limit int) ([]*entity.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	all := s.active()
	if offset >= len(all) {
		return []*entity.Article{}, nil
	}
	end := min(offset+limit, len(all))
	out := make([]*entity.Article, 0, end-offset)
	for _, a := range all[offset:end] {
		out = append(out, clone(a))
	}
	return out, nil
}

func (s *stubRepo) CountActive(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return int64(len(s.active())), nil
}

func (s *stubRepo) GetActive(_ context.Context, id string) (*entity.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if a := s.find(id); a != nil {
		return clone(a), nil
	}
	return nil, nil
}

func (s *stubRepo) Create(_ context.Context, a *entity.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.rows = append(s.rows, clone(a))
	return nil
}

func (s *stubRepo) Update(_ context.Context, a *entity.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}
	row := s.find(a.ID)
	if row == nil {
		return entity.ErrNotFound
	}
	row.Title, row.Content, row.ImageURL = a.Title, a.Content, a.ImageURL
	return nil
}

func (s *stubRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}
	row := s.find(id)
	if row == nil {
		return entity.ErrNotFound
	}
	row.DeletedAt = &at
	return nil
}

/* ───────── ヘルパー ───────── */

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// newService returns a service whose clock advances one second per call.
func newService(repo *stubRepo) *artUC.Service {
	svc := artUC.NewService(repo, pagination.DefaultConfig())
	var tick int
	svc.Now = func() time.Time {
		tick++
		return t0.Add(time.Duration(tick) * time.Second)
	}
	return svc
}

func input(title, content string) entity.ArticleInput {
	return entity.ArticleInput{Title: title, Content: content}
}

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }

func titles(items []*entity.Article) []string {
	out := make([]string, len(items))
	for i, a := range items {
		out[i] = a.Title
	}
	return out
}

/* ───────── 1. Create / Get ───────── */

func TestService_CreateThenGet(t *testing.T) {
	svc := newService(newStub())
	ctx := context.Background()

	created, err := svc.Create(ctx, entity.ArticleInput{
		Title: "Cup final", Content: "Report", ImageURL: strPtr("https://img.example.com/f.jpg"),
	})
	require.NoError(t, err)

	_, err = uuid.Parse(created.ID)
	require.NoError(t, err, "id must be a UUID")
	assert.Nil(t, created.DeletedAt)
	assert.Equal(t, t0.Add(time.Second), created.CreatedAt)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(created, got); diff != "" {
		t.Fatalf("Get mismatch (-created +got):\n%s", diff)
	}
}

func TestService_Create_EmptyImageURLIsAbsent(t *testing.T) {
	svc := newService(newStub())

	created, err := svc.Create(context.Background(), entity.ArticleInput{
		Title: "t", Content: "c", ImageURL: strPtr(""),
	})
	require.NoError(t, err)
	assert.Nil(t, created.ImageURL)
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name      string
		in        entity.ArticleInput
		wantField string
	}{
		{"empty title", input("", "c"), "title"},
		{"whitespace content", input("t", "  "), "content"},
		{"bad image url", entity.ArticleInput{Title: "t", Content: "c", ImageURL: strPtr("nope")}, "imageUrl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newStub()
			svc := newService(repo)

			_, err := svc.Create(context.Background(), tt.in)

			var vErr *entity.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.Equal(t, artUC.KindValidation, artUC.KindOf(err))
			assert.Zero(t, repo.calls, "storage must not be touched")
		})
	}
}

func TestService_Get_NotFound(t *testing.T) {
	repo := newStub()
	svc := newService(repo)

	for _, id := range []string{"", "not-a-uuid", uuid.NewString()} {
		_, err := svc.Get(context.Background(), id)
		assert.ErrorIs(t, err, artUC.ErrArticleNotFound, "id %q", id)
		assert.Equal(t, artUC.KindNotFound, artUC.KindOf(err))
	}
	assert.Equal(t, 1, repo.calls, "malformed ids never reach storage")
}

func TestService_Get_AcceptsUppercaseID(t *testing.T) {
	svc := newService(newStub())
	ctx := context.Background()

	created, err := svc.Create(ctx, input("t", "c"))
	require.NoError(t, err)

	got, err := svc.Get(ctx, strings.ToUpper(created.ID))
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestService_RepoError_IsInternal(t *testing.T) {
	repo := newStub()
	repo.err = errors.New("db down")
	svc := newService(repo)
	ctx := context.Background()

	_, err := svc.List(ctx, artUC.ListInput{})
	assert.Equal(t, artUC.KindInternal, artUC.KindOf(err))

	_, err = svc.Get(ctx, uuid.NewString())
	assert.Equal(t, artUC.KindInternal, artUC.KindOf(err))

	_, err = svc.Create(ctx, input("t", "c"))
	assert.Equal(t, artUC.KindInternal, artUC.KindOf(err))

	err = svc.Delete(ctx, uuid.NewString())
	assert.Equal(t, artUC.KindInternal, artUC.KindOf(err))
	assert.ErrorContains(t, err, "db down")
}

/* ───────── 2. Update ───────── */

func TestService_Update(t *testing.T) {
	svc := newService(newStub())
	ctx := context.Background()

	created, err := svc.Create(ctx, entity.ArticleInput{Title: "old", Content: "old", ImageURL: strPtr("https://a.example/x.png")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, input("new", "new body"))
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Title)
	assert.Nil(t, updated.ImageURL, "omitted imageUrl clears it")
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "new body", got.Content)
}

func TestService_Update_EmptyTitleLeavesStorageUnchanged(t *testing.T) {
	repo := newStub()
	svc := newService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, input("keep", "body"))
	require.NoError(t, err)
	callsBefore := repo.calls

	_, err = svc.Update(ctx, created.ID, input("", "changed"))

	var vErr *entity.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "title", vErr.Field)
	assert.Equal(t, callsBefore, repo.calls)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Title)
	assert.Equal(t, "body", got.Content)
}

func TestService_Update_NotFound(t *testing.T) {
	svc := newService(newStub())
	ctx := context.Background()

	_, err := svc.Update(ctx, uuid.NewString(), input("t", "c"))
	assert.ErrorIs(t, err, artUC.ErrArticleNotFound)

	_, err = svc.Update(ctx, "bogus", input("t", "c"))
	assert.ErrorIs(t, err, artUC.ErrArticleNotFound)

	created, err := svc.Create(ctx, input("t", "c"))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Update(ctx, created.ID, input("t2", "c2"))
	assert.ErrorIs(t, err, artUC.ErrArticleNotFound)
}

/* ───────── 3. Delete ───────── */

func TestService_Delete(t *testing.T) {
	svc := newService(newStub())
	ctx := context.Background()

	a, err := svc.Create(ctx, input("A", "c"))
	require.NoError(t, err)
	b, err := svc.Create(ctx, input("B", "c"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, a.ID))

	_, err = svc.Get(ctx, a.ID)
	assert.ErrorIs(t, err, artUC.ErrArticleNotFound)

	res, err := svc.List(ctx, artUC.ListInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, titles(res.Items))
	assert.Equal(t, int64(1), res.TotalCount)
	assert.Equal(t, b.ID, res.Items[0].ID)

	assert.ErrorIs(t, svc.Delete(ctx, a.ID), artUC.ErrArticleNotFound, "second delete")
	assert.ErrorIs(t, svc.Delete(ctx, "bogus"), artUC.ErrArticleNotFound)
}

/* ───────── 4. List / pagination ───────── */

func TestService_List_NewestFirst(t *testing.T) {
	svc := newService(newStub())
	ctx := context.Background()

	_, err := svc.Create(ctx, input("A", "c"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, input("B", "c"))
	require.NoError(t, err)

	res, err := svc.List(ctx, artUC.ListInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, titles(res.Items))
	assert.Equal(t, int64(2), res.TotalCount)
	assert.False(t, res.HasMore)
}

func TestService_List_FifteenArticles(t *testing.T) {
	svc := newService(newStub())
	ctx := context.Background()

	for i := 1; i <= 15; i++ {
		_, err := svc.Create(ctx, input(fmt.Sprintf("a%02d", i), "c"))
		require.NoError(t, err)
	}

	first, err := svc.List(ctx, artUC.ListInput{Limit: intPtr(10), Offset: intPtr(0)})
	require.NoError(t, err)
	assert.Len(t, first.Items, 10)
	assert.Equal(t, int64(15), first.TotalCount)
	assert.True(t, first.HasMore)
	assert.Equal(t, "a15", first.Items[0].Title)

	second, err := svc.List(ctx, artUC.ListInput{Limit: intPtr(10), Offset: intPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, []string{"a05", "a04", "a03", "a02", "a01"}, titles(second.Items))
	assert.Equal(t, int64(15), second.TotalCount)
	assert.False(t, second.HasMore)

	past, err := svc.List(ctx, artUC.ListInput{Offset: intPtr(100)})
	require.NoError(t, err)
	assert.Empty(t, past.Items)
	assert.False(t, past.HasMore)
}

func TestService_List_LimitClamping(t *testing.T) {
	svc := newService(newStub())
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		_, err := svc.Create(ctx, input(fmt.Sprintf("a%02d", i), "c"))
		require.NoError(t, err)
	}

	tests := []struct {
		name string
		in   artUC.ListInput
		want int
		more bool
	}{
		{"unset", artUC.ListInput{}, 10, true},
		{"zero", artUC.ListInput{Limit: intPtr(0)}, 10, true},
		{"negative", artUC.ListInput{Limit: intPtr(-5)}, 10, true},
		{"above max", artUC.ListInput{Limit: intPtr(1000)}, 50, true},
		{"negative offset", artUC.ListInput{Limit: intPtr(5), Offset: intPtr(-3)}, 5, true},
		{"tail", artUC.ListInput{Limit: intPtr(50), Offset: intPtr(50)}, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.List(ctx, tt.in)
			require.NoError(t, err)
			assert.Len(t, res.Items, tt.want)
			assert.Equal(t, int64(60), res.TotalCount)
			assert.Equal(t, tt.more, res.HasMore)
		})
	}
}

func TestService_List_CustomConfig(t *testing.T) {
	repo := newStub()
	svc := newService(repo)
	svc.Pagination = pagination.Config{DefaultLimit: 2, MaxLimit: 3}
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, input(fmt.Sprintf("a%d", i), "c"))
		require.NoError(t, err)
	}

	res, err := svc.List(ctx, artUC.ListInput{})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)

	res, err = svc.List(ctx, artUC.ListInput{Limit: intPtr(9)})
	require.NoError(t, err)
	assert.Len(t, res.Items, 3)
}

/* ───────── 5. KindOf ───────── */

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want artUC.Kind
	}{
		{&entity.ValidationError{Field: "title", Message: "Title is required"}, artUC.KindValidation},
		{fmt.Errorf("wrapped: %w", &entity.ValidationError{Field: "content"}), artUC.KindValidation},
		{artUC.ErrArticleNotFound, artUC.KindNotFound},
		{fmt.Errorf("get: %w", artUC.ErrArticleNotFound), artUC.KindNotFound},
		{errors.New("boom"), artUC.KindInternal},
		{entity.ErrNotFound, artUC.KindInternal},
	}
	for _, tt := range tests {
		if got := artUC.KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
