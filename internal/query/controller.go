package query

import (
	"context"
	"sync"
	"time"
)

// ViewState is the single enumerated display state of a list view, replacing
// the loading/showMessage/isFiltered boolean combinations of the dashboard.
type ViewState string

const (
	StateIdle      ViewState = "idle"
	StateLoading   ViewState = "loading"
	StateEmpty     ViewState = "empty"
	StatePopulated ViewState = "populated"
	StateError     ViewState = "error"
)

// DefaultPageSize is used when a request does not pick a page size.
const DefaultPageSize = 10

// Filters is the field->value map composed from the view's filter controls.
type Filters map[string]string

// Query is what one fetch asks the backend for.
type Query struct {
	Filters  Filters
	Page     int
	PageSize int
}

// Request is one user action against the view: an explicit filter, or a
// page/page-size change. A filtered request replaces the stored filter set
// with exactly the one it carries, so submitting cleared filter controls
// returns the view to unfiltered; stale filter fragments are never inherited.
// An unfiltered request is a plain page change and leaves stored filters alone.
type Request struct {
	Filters  Filters
	Page     int
	PageSize int
	Filtered bool
}

// FetchFunc retrieves one page of records and the total item count.
// Implementations must map a not-found backend response to an empty page and
// a nil error, so the view renders an empty state instead of a failure.
type FetchFunc[T any] func(ctx context.Context, q Query) ([]T, int, error)

// Snapshot is the view's state after a fetch settled (or was superseded).
type Snapshot[T any] struct {
	Data            []T       `json:"data"`
	State           ViewState `json:"state"`
	TotalItems      int       `json:"totalItems"`
	Page            int       `json:"page"`
	PageSize        int       `json:"pageSize"`
	IsFiltered      bool      `json:"isFiltered"`
	ShowEmptyPrompt bool      `json:"showEmptyPrompt"`
}

// Controller drives one list view's filter and pagination state. Fetches
// carry a monotonic generation number; when requests overlap, only the most
// recently issued request's response is applied, so a slow early response can
// never overwrite a later one.
type Controller[T any] struct {
	mu         sync.Mutex
	fetch      FetchFunc[T]
	filters    Filters
	data       []T
	state      ViewState
	page       int
	pageSize   int
	totalItems int
	isFiltered bool
	generation uint64
}

// NewController creates an idle controller over the given fetcher.
func NewController[T any](fetch FetchFunc[T]) *Controller[T] {
	return &Controller[T]{
		fetch:    fetch,
		state:    StateIdle,
		page:     1,
		pageSize: DefaultPageSize,
	}
}

// Load performs the initial unfiltered fetch of page 1.
func (c *Controller[T]) Load(ctx context.Context) (Snapshot[T], error) {
	return c.Refresh(ctx, Request{Page: 1})
}

// Refresh applies one user action and refetches. The returned error is the
// fetch error, if any; the snapshot reflects it as StateError with the
// previous data retained.
//
// A filtered request replaces the stored filter map with the request's map;
// an empty map is an explicit clear and returns the view to unfiltered. An
// unfiltered request pages within whatever filter state the view already has.
func (c *Controller[T]) Refresh(ctx context.Context, req Request) (Snapshot[T], error) {
	c.mu.Lock()

	if req.Page > 0 {
		c.page = req.Page
	}
	if req.PageSize > 0 {
		c.pageSize = req.PageSize
	}
	if req.Filtered {
		c.filters = cloneFilters(req.Filters)
		c.isFiltered = len(c.filters) > 0
	}

	c.generation++
	gen := c.generation
	c.state = StateLoading
	q := Query{Filters: cloneFilters(c.filters), Page: c.page, PageSize: c.pageSize}

	c.mu.Unlock()

	data, total, err := c.fetch(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	// A newer request was issued while this fetch was in flight; its result
	// wins and this one is discarded.
	if gen != c.generation {
		return c.snapshotLocked(), nil
	}

	switch {
	case err != nil:
		c.state = StateError
	case len(data) == 0:
		c.data = nil
		c.totalItems = 0
		c.state = StateEmpty
	default:
		c.data = data
		c.totalItems = total
		c.state = StatePopulated
	}

	return c.snapshotLocked(), err
}

// Reset returns the controller to its initial unfiltered, idle state.
func (c *Controller[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.filters = nil
	c.data = nil
	c.state = StateIdle
	c.page = 1
	c.pageSize = DefaultPageSize
	c.totalItems = 0
	c.isFiltered = false
}

// Snapshot returns the current view state without fetching.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller[T]) snapshotLocked() Snapshot[T] {
	data := c.data
	if data == nil {
		data = []T{}
	}
	return Snapshot[T]{
		Data:       data,
		State:      c.state,
		TotalItems: c.totalItems,
		Page:       c.page,
		PageSize:   c.pageSize,
		IsFiltered: c.isFiltered,
		// The empty prompt is only shown when no filter was ever applied;
		// a filtered query with zero matches is a distinct display state.
		ShowEmptyPrompt: c.state == StateEmpty && !c.isFiltered,
	}
}

func cloneFilters(f Filters) Filters {
	if len(f) == 0 {
		return nil
	}
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Registry bounds. Keys derive from client-supplied tokens, so idle
// controllers expire and the map is capped.
const (
	registryTTL        = 30 * time.Minute
	registryMaxEntries = 1024
)

type registryEntry[T any] struct {
	controller *Controller[T]
	lastUsed   time.Time
}

// Registry hands out one controller per view key (a session/view pair), so
// concurrent requests from the same dashboard view share fetch-generation
// state. Entries idle past the TTL are evicted, and at the size cap the least
// recently used entry is dropped before a new one is admitted.
type Registry[T any] struct {
	mu         sync.Mutex
	entries    map[string]*registryEntry[T]
	fetch      FetchFunc[T]
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewRegistry creates an empty registry over the given fetcher.
func NewRegistry[T any](fetch FetchFunc[T]) *Registry[T] {
	return &Registry[T]{
		entries:    make(map[string]*registryEntry[T]),
		fetch:      fetch,
		ttl:        registryTTL,
		maxEntries: registryMaxEntries,
		now:        time.Now,
	}
}

// For returns the controller for the given key, creating it on first use.
func (r *Registry[T]) For(key string) *Controller[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for k, e := range r.entries {
		if k != key && now.Sub(e.lastUsed) > r.ttl {
			delete(r.entries, k)
		}
	}

	e, ok := r.entries[key]
	if !ok {
		if len(r.entries) >= r.maxEntries {
			r.evictOldestLocked()
		}
		e = &registryEntry[T]{controller: NewController(r.fetch)}
		r.entries[key] = e
	}
	e.lastUsed = now
	return e.controller
}

func (r *Registry[T]) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for k, e := range r.entries {
		if oldestKey == "" || e.lastUsed.Before(oldest) {
			oldestKey = k
			oldest = e.lastUsed
		}
	}
	if oldestKey != "" {
		delete(r.entries, oldestKey)
	}
}
