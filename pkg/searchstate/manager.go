package searchstate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/kvstore"
	pkglog "github.com/GrandEmpereur/Bookish-sub000/pkg/log"
	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchapi"
)

const (
	historyTimeout = 2 * time.Second
	historyQueue   = 32
)

// API is the part of the Search API the manager depends on.
type API interface {
	Search(ctx context.Context, p searchapi.Params) (*searchapi.Page, error)
}

// Manager owns one search state and runs the effects of its transitions.
// All methods are safe for concurrent use.
type Manager struct {
	api       API
	store     kvstore.Store
	logger    zerolog.Logger
	debouncer *Debouncer

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	history chan string

	mu          sync.Mutex
	state       State
	cancelFetch context.CancelFunc
	changed     chan struct{}
	listeners   map[int]func(State)
	nextID      int
	closed      bool

	notifyMu  sync.Mutex
	historyMu sync.Mutex
}

// New creates a Manager searching through api.
func New(api API, opts ...Option) *Manager {
	o := options{debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(&o)
	}
	if o.store == nil {
		o.store = kvstore.NewMemoryStore()
	}
	logger := pkglog.L()
	if o.logger != nil {
		logger = *o.logger
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		api:       api,
		store:     o.store,
		logger:    logger.With().Str("component", "searchstate").Logger(),
		debouncer: NewDebouncer(o.debounce),
		ctx:       ctx,
		cancel:    cancel,
		state:     NewState(o.cfg),
		changed:   make(chan struct{}),
		listeners: make(map[int]func(State)),
		history:   make(chan string, historyQueue),
	}

	m.wg.Add(1)
	go m.historyWorker()
	return m
}

// State returns the current snapshot.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SetQuery updates the query and restarts the debounce window. An empty
// query resets the results at once.
func (m *Manager) SetQuery(text string) { m.dispatch(QueryChanged{Text: text}) }

// Submit sets the query and searches immediately.
func (m *Manager) Submit(text string) { m.dispatch(Submitted{Text: text}) }

// ChangeCategory switches the active facet.
func (m *Manager) ChangeCategory(c searchapi.Category) { m.dispatch(CategoryChanged{Category: c}) }

// LoadMore fetches the next page when one is available.
func (m *Manager) LoadMore() { m.dispatch(LoadMoreRequested{}) }

// Refresh re-runs the current search from the first page.
func (m *Manager) Refresh() { m.dispatch(RefreshRequested{}) }

// Clear resets query, results and errors. The category is kept.
func (m *Manager) Clear() { m.dispatch(Cleared{}) }

// OnChange registers fn to receive every new snapshot, in order. fn runs
// on the goroutine that caused the change and must not call back into the
// Manager. The returned function unregisters it.
func (m *Manager) OnChange(fn func(State)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// WaitIdle blocks until no debounce timer or request is pending.
func (m *Manager) WaitIdle(ctx context.Context) error {
	for {
		m.mu.Lock()
		busy := m.state.Busy()
		ch := m.changed
		m.mu.Unlock()

		if !busy {
			return nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close cancels pending work and waits for background goroutines. Later
// calls on the Manager are ignored.
func (m *Manager) Close() {
	m.dispatch(Disposed{})

	m.mu.Lock()
	if !m.closed {
		m.closed = true
		close(m.history)
	}
	m.mu.Unlock()

	m.debouncer.Cancel()
	m.cancel()
	m.wg.Wait()
}

// RecentSearches returns the recent queries, most recent first.
func (m *Manager) RecentSearches(ctx context.Context) ([]string, error) {
	m.historyMu.Lock()
	defer m.historyMu.Unlock()
	return loadHistory(ctx, m.store)
}

// ClearHistory forgets the recent queries.
func (m *Manager) ClearHistory(ctx context.Context) error {
	m.historyMu.Lock()
	defer m.historyMu.Unlock()
	return m.store.Delete(ctx, HistoryKey)
}

func (m *Manager) dispatch(ev Event) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}

	prev := m.state
	next, effects := Reduce(prev, ev)
	if next.version == prev.version {
		m.mu.Unlock()
		return
	}
	m.state = next

	// Effects never block, so they run under the lock in transition order.
	for _, eff := range effects {
		m.run(eff)
	}

	close(m.changed)
	m.changed = make(chan struct{})

	listeners := make([]func(State), 0, len(m.listeners))
	for _, fn := range m.listeners {
		listeners = append(listeners, fn)
	}

	m.notifyMu.Lock()
	m.mu.Unlock()
	defer m.notifyMu.Unlock()

	if next.Phase != prev.Phase {
		m.logger.Debug().
			Str(pkglog.FieldPhase, next.Phase.String()).
			Str(pkglog.FieldQuery, next.Query).
			Str(pkglog.FieldCategory, string(next.Category)).
			Int(pkglog.FieldResults, len(next.Results)).
			Msg("search state changed")
	}
	for _, fn := range listeners {
		fn(next)
	}
}

// run executes one effect. Callers hold m.mu.
func (m *Manager) run(eff Effect) {
	switch e := eff.(type) {
	case ScheduleDebounce:
		fired := TimerFired{Text: e.Text, Seq: e.Seq}
		m.debouncer.Debounce(func() { m.dispatch(fired) })

	case CancelDebounce:
		m.debouncer.Cancel()

	case CancelFetch:
		if m.cancelFetch != nil {
			m.cancelFetch()
			m.cancelFetch = nil
		}

	case Fetch:
		if m.cancelFetch != nil {
			m.cancelFetch()
		}
		ctx, cancel := context.WithCancel(m.ctx)
		m.cancelFetch = cancel
		m.wg.Add(1)
		go m.fetch(ctx, cancel, e.Request)

	case RecordHistory:
		select {
		case m.history <- e.Query:
		default:
			m.logger.Warn().Str(pkglog.FieldQuery, e.Query).Msg("recent searches queue full, dropping entry")
		}
	}
}

func (m *Manager) fetch(ctx context.Context, cancel context.CancelFunc, req Request) {
	defer m.wg.Done()
	defer cancel()

	l := m.logger.With().
		Uint64(pkglog.FieldToken, req.Token).
		Str(pkglog.FieldQuery, req.Params.Query).
		Str(pkglog.FieldCategory, string(req.Params.Category)).
		Int(pkglog.FieldPage, req.Params.Page).
		Logger()

	page, err := m.api.Search(ctx, req.Params)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			l.Debug().Msg("search request canceled")
		} else {
			l.Warn().Err(err).Msg("search request failed")
		}
		m.dispatch(ResponseFailed{Token: req.Token, Err: err})
		return
	}

	if page != nil {
		l.Debug().Int(pkglog.FieldResults, len(page.Items)).Bool("success", page.Success).Msg("search page received")
	}
	m.dispatch(ResponseReceived{Token: req.Token, Page: page})
}

// historyWorker saves recent searches one at a time, in response order.
// Entries queued before Close are still written.
func (m *Manager) historyWorker() {
	defer m.wg.Done()
	for q := range m.history {
		m.recordHistory(q)
	}
}

func (m *Manager) recordHistory(q string) {
	if q == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()

	m.historyMu.Lock()
	defer m.historyMu.Unlock()

	list, err := loadHistory(ctx, m.store)
	if err != nil {
		m.logger.Warn().Err(err).Msg("failed to load recent searches")
		list = nil
	}
	if err := kvstore.SetJSON(ctx, m.store, HistoryKey, pushHistory(list, q)); err != nil {
		m.logger.Warn().Err(err).Msg("failed to save recent searches")
	}
}
