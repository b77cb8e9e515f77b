package directory

import (
	"context"
	"sync"
	"time"

	"glsalliance/utils"

	"go.uber.org/zap"
)

// Change is a set of filter edits. Nil fields are left alone.
type Change struct {
	Country    *string  `json:"country"`
	City       *string  `json:"city"`
	Keyword    *string  `json:"keyword"`
	CategoryID *string  `json:"categoryId"`
	Sort       *SortKey `json:"sort"`
}

// Snapshot is the engine state handed to the browser.
type Snapshot struct {
	Filter     Filter `json:"filter"`
	Rows       []Row  `json:"rows"`
	LastPage   *int   `json:"lastPage"`
	Total      *int   `json:"total"`
	Loading    bool   `json:"loading"`
	Message    string `json:"message,omitempty"`
	CanPrev    bool   `json:"canPrev"`
	CanNext    bool   `json:"canNext"`
	HasFilters bool   `json:"hasFilters"`
	Generation uint64 `json:"generation"`
}

// Engine is a stateful directory browser for one visitor and one directory.
// Every dispatched fetch bumps the generation and cancels the previous one;
// a response is applied only when its generation is still current.
type Engine struct {
	svc *Service

	mu sync.Mutex
	// filter.Keyword is what was typed; keyword is the settled value queried.
	filter   Filter
	keyword  string
	rows     []Row
	fetched  int
	lastPage *int
	total    *int
	loading  bool
	message  string

	gen      uint64
	cancel   context.CancelFunc
	timer    *time.Timer
	timerGen uint64

	idle       chan struct{}
	idleClosed bool
	closed     bool
}

func NewEngine(svc *Service, kind Kind) *Engine {
	e := &Engine{
		svc:    svc,
		filter: Filter{Kind: kind, Sort: kind.DefaultSort(), Page: 1},
		rows:   []Row{},
		idle:   make(chan struct{}),
	}
	close(e.idle)
	e.idleClosed = true
	return e
}

// Load fetches the current page, typically once when the engine is created.
func (e *Engine) Load() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dispatchLocked()
}

// Apply edits the filter. Country, city and category changes reset the page
// and fetch at once; keyword changes are debounced. Sorting never fetches.
func (e *Engine) Apply(c Change) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}

	if c.Sort != nil && c.Sort.Valid() {
		e.filter.Sort = *c.Sort
	}

	changed := false
	setIf := func(dst *string, v *string) {
		if v != nil && *dst != *v {
			*dst = *v
			changed = true
		}
	}
	setIf(&e.filter.Country, c.Country)
	setIf(&e.filter.City, c.City)
	if e.filter.Kind == KindImporterExporter {
		setIf(&e.filter.CategoryID, c.CategoryID)
	}

	keywordChanged := c.Keyword != nil && *c.Keyword != e.filter.Keyword
	if keywordChanged {
		e.filter.Keyword = *c.Keyword
	}

	switch {
	case changed:
		// The fetch fires now; take whatever has been typed with it.
		e.stopTimerLocked()
		e.keyword = e.filter.Keyword
		e.filter.Page = 1
		e.dispatchLocked()
	case keywordChanged:
		e.scheduleKeywordLocked()
	}
}

func (e *Engine) SetCountry(v string)  { e.Apply(Change{Country: &v}) }
func (e *Engine) SetCity(v string)     { e.Apply(Change{City: &v}) }
func (e *Engine) SetKeyword(v string)  { e.Apply(Change{Keyword: &v}) }
func (e *Engine) SetCategory(v string) { e.Apply(Change{CategoryID: &v}) }
func (e *Engine) SetSort(v SortKey)    { e.Apply(Change{Sort: &v}) }

// NextPage advances when the snapshot allows it.
func (e *Engine) NextPage() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || !e.canNextLocked() {
		return false
	}
	e.filter.Page++
	e.dispatchLocked()
	return true
}

func (e *Engine) PrevPage() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || !e.canPrevLocked() {
		return false
	}
	e.filter.Page--
	e.dispatchLocked()
	return true
}

// Reset clears every filter, restores the default sort and reloads page 1.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.stopTimerLocked()
	kind := e.filter.Kind
	e.filter = Filter{Kind: kind, Sort: kind.DefaultSort(), Page: 1}
	e.keyword = ""
	e.message = ""
	e.dispatchLocked()
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Filter:     e.filter,
		Rows:       SortRows(e.rows, e.filter.Sort),
		LastPage:   e.lastPage,
		Total:      e.total,
		Loading:    e.loading,
		Message:    e.message,
		CanPrev:    e.canPrevLocked(),
		CanNext:    e.canNextLocked(),
		HasFilters: e.filter.HasFilters(),
		Generation: e.gen,
	}
}

// Wait blocks until no fetch or debounce is pending, or ctx ends.
func (e *Engine) Wait(ctx context.Context) error {
	e.mu.Lock()
	idle := e.idle
	e.mu.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels pending work. A closed engine ignores further changes.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.stopTimerLocked()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.loading = false
	e.settleLocked()
}

func (e *Engine) canPrevLocked() bool {
	return !e.loading && e.filter.Page > 1
}

func (e *Engine) canNextLocked() bool {
	if e.loading {
		return false
	}
	if e.lastPage != nil {
		return e.filter.Page < *e.lastPage
	}
	return e.fetched == e.svc.perPage
}

func (e *Engine) busyLocked() {
	if e.idleClosed {
		e.idle = make(chan struct{})
		e.idleClosed = false
	}
}

func (e *Engine) settleLocked() {
	if e.loading || e.timer != nil || e.idleClosed {
		return
	}
	close(e.idle)
	e.idleClosed = true
}

func (e *Engine) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.timerGen++
}

func (e *Engine) scheduleKeywordLocked() {
	e.stopTimerLocked()
	e.busyLocked()
	gen := e.timerGen
	e.timer = time.AfterFunc(e.svc.debounce, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed || gen != e.timerGen {
			return
		}
		e.timer = nil
		if e.keyword == e.filter.Keyword {
			e.settleLocked()
			return
		}
		e.keyword = e.filter.Keyword
		e.filter.Page = 1
		e.dispatchLocked()
	})
}

func (e *Engine) dispatchLocked() {
	if e.cancel != nil {
		e.cancel()
	}
	e.gen++
	gen := e.gen
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.loading = true
	e.message = ""
	e.busyLocked()

	f := e.filter
	f.Keyword = e.keyword
	go e.fetch(ctx, gen, f)
}

func (e *Engine) fetch(ctx context.Context, gen uint64, f Filter) {
	page, err := e.svc.load(ctx, f)

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || e.closed {
		utils.DirectoryStaleResponses.Inc()
		return
	}
	e.cancel()
	e.cancel = nil
	e.loading = false

	if err != nil {
		e.svc.logger.Warn("Directory query failed",
			zap.String("kind", string(f.Kind)), zap.Int("page", f.Page), zap.Error(err))
		e.rows = []Row{}
		e.fetched = 0
		e.lastPage = nil
		e.total = nil
		e.message = FailureMessage
	} else {
		e.rows = page.Rows
		e.fetched = page.Fetched
		e.lastPage = page.LastPage
		e.total = page.Total
	}
	e.settleLocked()
}
