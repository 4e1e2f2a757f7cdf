package searchclient

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// DefaultDebounce is the idle time after the last keystroke before a search runs.
const DefaultDebounce = 300 * time.Millisecond

const minQueryLength = 2

// State of the search box.
type State int

const (
	Idle State = iota
	Pending
	Showing
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Showing:
		return "showing"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Fetcher runs a search against the backend.
type Fetcher interface {
	Fetch(ctx context.Context, query string) (ResultSet, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, query string) (ResultSet, error)

func (f FetcherFunc) Fetch(ctx context.Context, query string) (ResultSet, error) {
	return f(ctx, query)
}

// Timer is the part of *time.Timer the controller needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it through an adapter.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Options configures a Controller. Fetcher is required.
type Options struct {
	Fetcher   Fetcher
	Cache     *Cache
	Debounce  time.Duration
	AfterFunc AfterFunc
	// Navigate receives the target path of a selected item.
	Navigate func(target string)
	// Context bounds fetches; defaults to context.Background.
	Context context.Context
}

// View is a consistent snapshot of the search box.
type View struct {
	State     State
	Query     string
	Open      bool
	Loading   bool
	Results   ResultSet
	Items     []Item
	Highlight int
	// EmptyMessage is set when results are shown and there are none.
	EmptyMessage string
}

// Controller drives the search box: debounced input, cache-first lookup,
// stale response dropping and keyboard selection. All methods are safe for
// concurrent use; the cache is only touched while holding mu.
type Controller struct {
	mu        sync.Mutex
	fetcher   Fetcher
	cache     *Cache
	debounce  time.Duration
	afterFunc AfterFunc
	navigate  func(string)
	ctx       context.Context

	state     State
	query     string
	token     uint64
	timer     Timer
	results   ResultSet
	items     []Item
	highlight int
}

func NewController(opts Options) *Controller {
	c := &Controller{
		fetcher:   opts.Fetcher,
		cache:     opts.Cache,
		debounce:  opts.Debounce,
		afterFunc: opts.AfterFunc,
		navigate:  opts.Navigate,
		ctx:       opts.Context,
		highlight: -1,
	}
	if c.cache == nil {
		c.cache = NewCache()
	}
	if c.debounce <= 0 {
		c.debounce = DefaultDebounce
	}
	if c.afterFunc == nil {
		c.afterFunc = realAfterFunc
	}
	if c.ctx == nil {
		c.ctx = context.Background()
	}
	return c
}

// Input handles a change of the query text.
func (c *Controller) Input(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.query = text
	c.token++
	c.stopTimer()

	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minQueryLength {
		c.state = Idle
		c.setResults(ResultSet{})
		return
	}

	token := c.token
	c.state = Pending
	c.timer = c.afterFunc(c.debounce, func() { c.fire(token, trimmed) })
}

// fire runs when the debounce timer for token elapses.
func (c *Controller) fire(token uint64, query string) {
	c.mu.Lock()
	if token != c.token {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	if data, ok := c.cache.Lookup(query); ok {
		c.apply(data)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	data, err := c.fetcher.Fetch(c.ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		// Failures collapse to an empty result and are not cached.
		if token == c.token {
			c.apply(ResultSet{})
		}
		return
	}
	c.cache.Store(query, data)
	if token != c.token {
		return
	}
	c.apply(data)
}

// apply installs results for the current query. A closed box keeps its
// results for Focus but stays closed.
func (c *Controller) apply(data ResultSet) {
	c.setResults(data)
	if c.state == Pending {
		c.state = Showing
	}
}

// Escape closes the dropdown.
func (c *Controller) Escape() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.close()
}

// ClickOutside closes the dropdown.
func (c *Controller) ClickOutside() {
	c.Escape()
}

// Focus reopens a closed box that still holds results for a valid query.
func (c *Controller) Focus() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Closed && utf8.RuneCountInString(strings.TrimSpace(c.query)) >= minQueryLength && len(c.items) > 0 {
		c.state = Showing
	}
}

// ArrowDown moves the highlight forward, wrapping to the first item.
func (c *Controller) ArrowDown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Showing || len(c.items) == 0 {
		return
	}
	if c.highlight < len(c.items)-1 {
		c.highlight++
	} else {
		c.highlight = 0
	}
}

// ArrowUp moves the highlight backward, wrapping to the last item.
func (c *Controller) ArrowUp() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Showing || len(c.items) == 0 {
		return
	}
	if c.highlight > 0 {
		c.highlight--
	} else {
		c.highlight = len(c.items) - 1
	}
}

// Enter navigates to the highlighted item. It returns the target and true
// when a navigation happened.
func (c *Controller) Enter() (string, bool) {
	c.mu.Lock()
	if c.state != Showing || c.highlight < 0 || c.highlight >= len(c.items) {
		c.mu.Unlock()
		return "", false
	}
	return c.selectLocked(c.highlight)
}

// Select navigates to item i of the flattened list, as a mouse pick does.
func (c *Controller) Select(i int) (string, bool) {
	c.mu.Lock()
	if c.state != Showing || i < 0 || i >= len(c.items) {
		c.mu.Unlock()
		return "", false
	}
	return c.selectLocked(i)
}

// selectLocked is entered with mu held and releases it before calling the
// navigate callback.
func (c *Controller) selectLocked(i int) (string, bool) {
	target := Target(c.items[i])
	c.close()
	c.query = ""
	c.token++
	c.setResults(ResultSet{})
	navigate := c.navigate
	c.mu.Unlock()

	if navigate != nil {
		navigate(target)
	}
	return target, true
}

// View returns a snapshot of the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		State:     c.state,
		Query:     c.query,
		Open:      c.state == Pending || c.state == Showing,
		Loading:   c.state == Pending,
		Results:   c.results,
		Items:     append([]Item(nil), c.items...),
		Highlight: c.highlight,
	}
	if c.state == Showing && len(c.items) == 0 {
		v.EmptyMessage = `No results found for "` + strings.TrimSpace(c.query) + `"`
	}
	return v
}

// Cache exposes the controller's cache for inspection. Callers must not
// mutate it while the controller is in use.
func (c *Controller) Cache() *Cache {
	return c.cache
}

func (c *Controller) close() {
	c.stopTimer()
	c.state = Closed
	c.highlight = -1
}

func (c *Controller) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) setResults(data ResultSet) {
	c.results = data
	c.items = data.Flatten()
	c.highlight = -1
}
