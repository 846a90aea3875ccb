// Package pager accumulates a paged, filterable collection for infinite scroll.
//
// A Controller is driven from a single event loop. Reset and LoadMore decide
// what to fetch and move the state machine into a loading state; Fetch does
// the I/O and may run anywhere; Commit applies the result back on the loop.
// Every request carries the controller generation it was issued under, and
// Commit drops results from an older generation.
package pager

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/mmcdole/gamedeck/internal/domain"
)

// ErrSuperseded is returned by Refresh and More when a newer request
// replaced theirs before it completed.
var ErrSuperseded = errors.New("request superseded")

// State is the controller's loading state
type State int

const (
	Idle State = iota
	RefreshLoading
	AppendLoading
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case RefreshLoading:
		return "refresh-loading"
	case AppendLoading:
		return "append-loading"
	default:
		return "unknown"
	}
}

// Kind says whether a request replaces or extends the items
type Kind int

const (
	KindReset Kind = iota
	KindAppend
)

// Page is one normalized page from a Source
type Page[T any] struct {
	Items []T
	Total int
	Hint  domain.PageHint
}

// Source fetches a page for a filter. page starts at 1.
type Source[F, T any] interface {
	FetchPage(ctx context.Context, filter F, page int) (Page[T], error)
}

// SourceFunc adapts a function to Source
type SourceFunc[F, T any] func(ctx context.Context, filter F, page int) (Page[T], error)

// FetchPage implements Source
func (f SourceFunc[F, T]) FetchPage(ctx context.Context, filter F, page int) (Page[T], error) {
	return f(ctx, filter, page)
}

// Request is a fetch the controller asked for
type Request[F any] struct {
	Gen    uint64
	Kind   Kind
	Filter F
	Page   int
}

// Result is a completed Request
type Result[F, T any] struct {
	Request[F]
	Page Page[T]
	Err  error
}

// Outcome reports what Commit did with a Result
type Outcome struct {
	Kind    Kind
	Applied bool // false when the result was stale and dropped
	Added   int  // items added after de-duplication
	Err     error
}

// Option configures a Controller
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the controller logger
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Controller owns the accumulated result set for one list.
// F is the filter value, T the item, K the item identity.
type Controller[F, T any, K comparable] struct {
	source Source[F, T]
	key    func(T) K
	logger *slog.Logger

	mu      sync.Mutex
	state   State
	gen     uint64
	filter  F
	items   []T
	seen    map[K]struct{}
	cursor  int // next page to request
	total   int
	hasMore bool
	err     error
}

// New creates an idle, empty controller
func New[F, T any, K comparable](source Source[F, T], key func(T) K, opts ...Option) *Controller[F, T, K] {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller[F, T, K]{
		source: source,
		key:    key,
		logger: o.logger,
		seen:   make(map[K]struct{}),
		cursor: 1,
	}
}

// Reset starts a new fetch cycle for filter from any state.
// Any request still in flight becomes stale.
func (c *Controller[F, T, K]) Reset(filter F) Request[F] {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.state = RefreshLoading
	c.filter = filter
	c.err = nil
	return Request[F]{Gen: c.gen, Kind: KindReset, Filter: filter, Page: 1}
}

// LoadMore requests the next page. It returns false, and changes nothing,
// unless the controller is idle and more pages are known to exist.
func (c *Controller[F, T, K]) LoadMore() (Request[F], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Idle || !c.hasMore {
		return Request[F]{}, false
	}
	c.state = AppendLoading
	c.err = nil
	return Request[F]{Gen: c.gen, Kind: KindAppend, Filter: c.filter, Page: c.cursor}, true
}

// Fetch performs the request against the source. It does not touch
// controller state.
func (c *Controller[F, T, K]) Fetch(ctx context.Context, req Request[F]) Result[F, T] {
	page, err := c.source.FetchPage(ctx, req.Filter, req.Page)
	return Result[F, T]{Request: req, Page: page, Err: err}
}

// Commit applies a fetch result and returns the controller to Idle.
// Results from an older generation are dropped.
func (c *Controller[F, T, K]) Commit(res Result[F, T]) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := Outcome{Kind: res.Kind}
	if res.Gen != c.gen || c.state != loadingState(res.Kind) {
		c.logger.Debug("dropping stale page", "gen", res.Gen, "current", c.gen, "page", res.Request.Page)
		return out
	}
	out.Applied = true
	c.state = Idle

	if res.Err != nil {
		c.err = res.Err
		out.Err = res.Err
		if res.Kind == KindReset {
			// the kept items belong to the previous filter, so there is
			// nothing valid to append to until a reset succeeds
			c.hasMore = false
		}
		c.logger.Error("page fetch failed", "kind", res.Kind, "page", res.Request.Page, "error", res.Err)
		return out
	}

	if res.Kind == KindReset {
		c.items = make([]T, 0, len(res.Page.Items))
		clear(c.seen)
		c.cursor = 1
	}
	for _, item := range res.Page.Items {
		k := c.key(item)
		if _, dup := c.seen[k]; dup {
			continue
		}
		c.seen[k] = struct{}{}
		c.items = append(c.items, item)
		out.Added++
	}
	c.cursor++
	c.total = res.Page.Total
	c.hasMore = c.computeHasMore(res.Page)
	c.err = nil

	c.logger.Debug("page committed",
		"kind", res.Kind,
		"page", res.Request.Page,
		"added", out.Added,
		"items", len(c.items),
		"total", c.total,
		"has_more", c.hasMore,
	)
	return out
}

func (c *Controller[F, T, K]) computeHasMore(page Page[T]) bool {
	if len(page.Items) == 0 {
		return false
	}
	switch page.Hint {
	case domain.HintMore:
		return true
	case domain.HintDone:
		return false
	default:
		return len(c.items) < page.Total
	}
}

func loadingState(k Kind) State {
	if k == KindAppend {
		return AppendLoading
	}
	return RefreshLoading
}

// Refresh runs a full reset cycle synchronously
func (c *Controller[F, T, K]) Refresh(ctx context.Context, filter F) error {
	out := c.Commit(c.Fetch(ctx, c.Reset(filter)))
	if !out.Applied {
		return ErrSuperseded
	}
	return out.Err
}

// More loads the next page synchronously. It reports whether a request
// was issued.
func (c *Controller[F, T, K]) More(ctx context.Context) (bool, error) {
	req, ok := c.LoadMore()
	if !ok {
		return false, nil
	}
	out := c.Commit(c.Fetch(ctx, req))
	if !out.Applied {
		return true, ErrSuperseded
	}
	return true, out.Err
}

// Abandon invalidates any in-flight request and returns to Idle.
// Items are kept.
func (c *Controller[F, T, K]) Abandon() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.state = Idle
}

// State returns the loading state
func (c *Controller[F, T, K]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a fetch is in flight
func (c *Controller[F, T, K]) Busy() bool {
	return c.State() != Idle
}

// Items returns a copy of the accumulated items in display order
func (c *Controller[F, T, K]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Len returns the number of accumulated items
func (c *Controller[F, T, K]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Controller[F, T, K]) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

func (c *Controller[F, T, K]) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// Cursor returns the next page number LoadMore would request
func (c *Controller[F, T, K]) Cursor() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// Err returns the error of the last completed fetch, if it failed
func (c *Controller[F, T, K]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Filter returns the filter of the current cycle
func (c *Controller[F, T, K]) Filter() F {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Generation returns the current request generation
func (c *Controller[F, T, K]) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}
