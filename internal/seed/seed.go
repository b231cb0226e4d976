// Package seed loads sports articles from a CSV export into the article store.
//
// The CSV must start with a header row naming the columns
// id, title, content, createdAt and imageUrl in any order; unknown columns
// are ignored. Rows with an empty title or content are skipped.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"sports-cms/internal/domain/entity"
	"sports-cms/internal/repository"
)

// DateLayout is the createdAt format accepted in seed files.
const DateLayout = "2006-01-02"

// DefaultBatchSize is the number of rows inserted per statement.
const DefaultBatchSize = 100

var requiredColumns = []string{"title", "content"}

// Stats summarizes one parse.
type Stats struct {
	Rows    int
	Skipped int // empty title or content
	Invalid int // rejected by article validation
	// Duplicates counts rows whose id repeated an earlier row and was
	// replaced with a fresh one.
	Duplicates int
}

// Parser turns CSV rows into articles. Zero values of Now and NewID fall
// back to time.Now and uuid.NewString.
type Parser struct {
	Now   func() time.Time
	NewID func() string
}

// Parse reads every row of r. Rows without a parsable createdAt get the
// time of the parse; ids that are not UUIDs or that repeat an earlier row
// are replaced with fresh ones.
// Rows the API itself would reject are dropped and counted as Invalid.
func (p Parser) Parse(r io.Reader) ([]*entity.Article, Stats, error) {
	now := p.Now
	if now == nil {
		now = time.Now
	}
	newID := p.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, Stats{}, errors.New("seed file is empty")
	}
	if err != nil {
		return nil, Stats{}, fmt.Errorf("read header: %w", err)
	}
	cols := indexColumns(header)
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, Stats{}, fmt.Errorf("missing column %q", name)
		}
	}

	fallback := now().UTC()
	var (
		articles []*entity.Article
		stats    Stats
		seen     = make(map[string]bool)
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read row %d: %w", stats.Rows+1, err)
		}
		stats.Rows++

		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		title, content := get("title"), get("content")
		if title == "" || content == "" {
			stats.Skipped++
			continue
		}

		a := &entity.Article{
			ID:        get("id"),
			Title:     title,
			Content:   content,
			CreatedAt: fallback,
		}
		if id, err := uuid.Parse(a.ID); err != nil {
			a.ID = newID()
		} else {
			a.ID = id.String()
			if seen[a.ID] {
				stats.Duplicates++
				a.ID = newID()
			}
		}
		if d, err := time.Parse(DateLayout, get("createdat")); err == nil {
			a.CreatedAt = d
		}
		if u := get("imageurl"); u != "" {
			a.ImageURL = &u
		}
		if err := entity.ValidateArticleInput(entity.ArticleInput{
			Title: a.Title, Content: a.Content, ImageURL: a.ImageURL,
		}); err != nil {
			stats.Invalid++
			continue
		}
		seen[a.ID] = true
		articles = append(articles, a)
	}
	return articles, stats, nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	return cols
}

// Loader writes parsed articles to a store in batches.
type Loader struct {
	Store       repository.ArticleSeeder
	BatchSize   int
	Parallelism int
	Logger      *slog.Logger
}

// Reset removes every existing row.
func (l *Loader) Reset(ctx context.Context) error {
	n, err := l.Store.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	l.logger().Info("cleared existing articles", slog.Int64("deleted", n))
	return nil
}

// Load inserts articles batch by batch. The first failing batch cancels the
// remaining ones and its error is returned.
func (l *Loader) Load(ctx context.Context, articles []*entity.Article) (int, error) {
	size := l.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	batches := split(articles, size)
	logger := l.logger()

	eg, egCtx := errgroup.WithContext(ctx)
	if l.Parallelism > 0 {
		eg.SetLimit(l.Parallelism)
	}
	for i, batch := range batches {
		eg.Go(func() error {
			if err := l.Store.CreateBatch(egCtx, batch); err != nil {
				return fmt.Errorf("batch %d/%d: %w", i+1, len(batches), err)
			}
			logger.Info("inserted batch",
				slog.Int("batch", i+1),
				slog.Int("batches", len(batches)),
				slog.Int("rows", len(batch)))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, err
	}
	return len(articles), nil
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

func split(articles []*entity.Article, size int) [][]*entity.Article {
	var batches [][]*entity.Article
	for start := 0; start < len(articles); start += size {
		end := min(start+size, len(articles))
		batches = append(batches, articles[start:end])
	}
	return batches
}
