// Package listsync keeps a client-side copy of the article list in step with
// the API: initial load, append-only "load more", full refresh after
// mutations and reset on navigation.
package listsync

import (
	"context"
	"log/slog"
	"sync"

	"sports-cms/internal/domain/entity"
)

// DefaultPageSize is the number of articles requested per page.
const DefaultPageSize = 10

// Phase is the lifecycle position of a Session.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLoading
	PhaseReady
	PhaseLoadingMore
	PhaseRefreshing
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseLoadingMore:
		return "loading_more"
	case PhaseRefreshing:
		return "refreshing"
	default:
		return "uninitialized"
	}
}

// State is a snapshot of the list held by a Session.
type State struct {
	Items       []*entity.Article
	HasMore     bool
	TotalCount  int
	Initialized bool
	Phase       Phase
	// Err is the last fetch failure; it is cleared by the next successful fetch.
	Err error
}

// Lister fetches one page of the article list.
type Lister interface {
	ListArticles(ctx context.Context, limit, offset int) (*entity.ArticlePage, error)
}

// Session owns one list view. It is safe for concurrent use; fetches run
// without holding the lock.
type Session struct {
	api      Lister
	pageSize int
	logger   *slog.Logger

	mu    sync.Mutex
	state State
	// seq numbers every request; applied is the seq of the last response
	// that changed state. Responses with seq <= applied are stale.
	seq     uint64
	applied uint64
	// generation changes whenever the whole list is replaced.
	generation uint64
	// loadingMoreSeq is the seq of the load-more in flight, zero when none.
	loadingMoreSeq uint64

	subs    map[int]func(State)
	nextSub int
}

// NewSession creates an uninitialized session. A non-positive pageSize
// selects DefaultPageSize.
func NewSession(api Lister, pageSize int, logger *slog.Logger) *Session {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		api:      api,
		pageSize: pageSize,
		logger:   logger,
		subs:     make(map[int]func(State)),
	}
}

// PageSize returns the number of articles requested per page.
func (s *Session) PageSize() int { return s.pageSize }

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() State {
	st := s.state
	st.Items = append([]*entity.Article(nil), s.state.Items...)
	return st
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned function removes the subscription.
func (s *Session) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// commitLocked snapshots the state for subscribers. The caller must call
// the returned function after releasing the lock.
func (s *Session) commitLocked() func() {
	st := s.snapshotLocked()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn(st)
		}
	}
}

// Seed initializes the session from a page fetched elsewhere, such as a
// server-rendered first page. It replaces any existing list.
func (s *Session) Seed(page *entity.ArticlePage) {
	s.mu.Lock()
	s.seq++
	s.applied = s.seq
	s.replaceLocked(page)
	notify := s.commitLocked()
	s.mu.Unlock()
	notify()
}

func (s *Session) replaceLocked(page *entity.ArticlePage) {
	s.generation++
	s.state.Items = append([]*entity.Article(nil), page.Articles...)
	s.state.HasMore = page.HasMore
	s.state.TotalCount = page.TotalCount
	s.state.Initialized = true
	s.state.Phase = PhaseReady
	s.state.Err = nil
}

// Load fetches the first page and replaces the list with it.
func (s *Session) Load(ctx context.Context) error {
	return s.fetchFirstPage(ctx, PhaseLoading)
}

// Refresh refetches the first page and replaces the whole list, discarding
// any pages loaded beyond it. It is the resync step after a mutation.
func (s *Session) Refresh(ctx context.Context) error {
	return s.fetchFirstPage(ctx, PhaseRefreshing)
}

func (s *Session) fetchFirstPage(ctx context.Context, phase Phase) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	// pages appended from here on would be overwritten by this response
	s.generation++
	s.state.Phase = phase
	notify := s.commitLocked()
	s.mu.Unlock()
	notify()

	page, err := s.api.ListArticles(ctx, s.pageSize, 0)

	s.mu.Lock()
	if seq <= s.applied {
		s.mu.Unlock()
		s.logger.Debug("discarding stale list response", slog.Uint64("seq", seq))
		return nil
	}
	s.applied = seq
	if err != nil {
		s.state.Err = err
		s.state.Phase = s.stablePhaseLocked()
	} else {
		s.replaceLocked(page)
	}
	notify = s.commitLocked()
	s.mu.Unlock()
	notify()
	return err
}

// stablePhaseLocked is the phase to return to after a failed fetch.
func (s *Session) stablePhaseLocked() Phase {
	if s.state.Initialized {
		return PhaseReady
	}
	return PhaseUninitialized
}

// LoadMore fetches the page after the loaded items and appends it.
// It does nothing while another load-more is in flight, before the session
// is ready, or when the server reported no further items.
func (s *Session) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	if s.loadingMoreSeq != 0 || s.state.Phase != PhaseReady || !s.state.HasMore {
		s.mu.Unlock()
		return nil
	}
	s.seq++
	seq := s.seq
	s.loadingMoreSeq = seq
	gen := s.generation
	offset := len(s.state.Items)
	s.state.Phase = PhaseLoadingMore
	notify := s.commitLocked()
	s.mu.Unlock()
	notify()

	page, err := s.api.ListArticles(ctx, s.pageSize, offset)

	s.mu.Lock()
	// after Reset another load-more may own the guard
	owner := s.loadingMoreSeq == seq
	if owner {
		s.loadingMoreSeq = 0
	}
	if seq <= s.applied || gen != s.generation {
		if owner && s.state.Phase == PhaseLoadingMore {
			s.state.Phase = s.stablePhaseLocked()
		}
		s.mu.Unlock()
		s.logger.Debug("discarding stale load-more response", slog.Uint64("seq", seq))
		return nil
	}
	s.applied = seq
	if err != nil {
		s.state.Err = err
	} else {
		s.state.Items = append(s.state.Items, page.Articles...)
		s.state.HasMore = page.HasMore
		s.state.TotalCount = page.TotalCount
		s.state.Err = nil
	}
	s.state.Phase = PhaseReady
	notify = s.commitLocked()
	s.mu.Unlock()
	notify()
	return err
}

// Reset returns the session to its uninitialized state. Responses to
// requests issued before Reset are discarded.
func (s *Session) Reset() {
	s.mu.Lock()
	s.applied = s.seq
	s.generation++
	s.loadingMoreSeq = 0
	s.state = State{}
	notify := s.commitLocked()
	s.mu.Unlock()
	notify()
}
