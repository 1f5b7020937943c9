package cart

import (
	"context"
	"log"
	"sync"

	"boutique-storefront/internal/domain"
)

// Persister mirrors the cart to durable storage. Load must fail open.
type Persister interface {
	Load(ctx context.Context) []domain.CartLine
	Save(ctx context.Context, lines []domain.CartLine) error
}

// Snapshot is an immutable view of the cart at one point in time.
type Snapshot struct {
	Lines    []domain.CartLine `json:"items"`
	Count    int               `json:"count"`
	Subtotal float64           `json:"subtotal"`
	IsOpen   bool              `json:"isOpen"`
}

// Container owns the cart lines of one session. It starts empty; Hydrate
// loads the persisted copy once, and from then on every mutation rewrites it.
type Container struct {
	mu        sync.Mutex
	lines     []domain.CartLine
	isOpen    bool
	persister Persister
	hydrated  bool
	logger    *log.Logger

	nextSub   int
	listeners map[int]func(Snapshot)
}

// New returns an empty, not yet hydrated container.
func New(logger *log.Logger) *Container {
	return &Container{logger: logger, listeners: make(map[int]func(Snapshot))}
}

// Hydrate loads the stored lines and binds the container to p. Only the first
// call has any effect.
func (c *Container) Hydrate(ctx context.Context, p Persister) {
	c.mu.Lock()
	if c.hydrated {
		c.mu.Unlock()
		return
	}
	c.persister = p
	c.hydrated = true
	c.lines = sanitize(p.Load(ctx))
	snap := c.snapshotLocked()
	subs := c.listenersLocked()
	c.mu.Unlock()

	notify(subs, snap)
}

func (c *Container) Hydrated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hydrated
}

// AddItem merges by key: a repeated product/size/color accumulates quantity.
// It also opens the cart affordance.
func (c *Container) AddItem(ctx context.Context, in domain.LineInput) {
	line := in.Line()
	c.mutate(ctx, func() {
		for i := range c.lines {
			if c.lines[i].Key == line.Key {
				c.lines[i].Qty += line.Qty
				c.isOpen = true
				return
			}
		}
		c.lines = append(c.lines, line)
		c.isOpen = true
	})
}

func (c *Container) RemoveItem(ctx context.Context, key string) {
	c.RemoveByKeys(ctx, []string{key})
}

// RemoveByKeys drops every line whose key is listed. Unknown keys are ignored.
func (c *Container) RemoveByKeys(ctx context.Context, keys []string) {
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}
	c.mutate(ctx, func() {
		kept := c.lines[:0:0]
		for _, l := range c.lines {
			if _, ok := drop[l.Key]; !ok {
				kept = append(kept, l)
			}
		}
		c.lines = kept
	})
}

// SetQty sets the quantity of a line, never below 1.
func (c *Container) SetQty(ctx context.Context, key string, qty int) {
	if qty < 1 {
		qty = 1
	}
	c.mutate(ctx, func() {
		for i := range c.lines {
			if c.lines[i].Key == key {
				c.lines[i].Qty = qty
				return
			}
		}
	})
}

func (c *Container) Clear(ctx context.Context) {
	c.mutate(ctx, func() { c.lines = nil })
}

func (c *Container) Open() {
	c.setOpen(true)
}

func (c *Container) Close() {
	c.setOpen(false)
}

func (c *Container) setOpen(open bool) {
	c.mu.Lock()
	changed := c.isOpen != open
	c.isOpen = open
	snap := c.snapshotLocked()
	subs := c.listenersLocked()
	c.mu.Unlock()
	if changed {
		notify(subs, snap)
	}
}

func (c *Container) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneLines(c.lines)
}

func (c *Container) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

func (c *Container) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Count(c.lines)
}

func (c *Container) Subtotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Subtotal(c.lines)
}

// IsWholesale reports whether the current piece count reaches threshold.
// A non-positive threshold disables the notice.
func (c *Container) IsWholesale(threshold int) bool {
	return threshold > 0 && c.Count() >= threshold
}

func (c *Container) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned func removes the subscription.
func (c *Container) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.listeners[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// Subscribers reports how many subscriptions are attached.
func (c *Container) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.listeners)
}

func (c *Container) mutate(ctx context.Context, fn func()) {
	c.mu.Lock()
	fn()
	if c.hydrated && c.persister != nil {
		if err := c.persister.Save(ctx, c.lines); err != nil && c.logger != nil {
			c.logger.Printf("persist cart: %v", err)
		}
	}
	snap := c.snapshotLocked()
	subs := c.listenersLocked()
	c.mu.Unlock()

	notify(subs, snap)
}

func (c *Container) snapshotLocked() Snapshot {
	return Snapshot{
		Lines:    cloneLines(c.lines),
		Count:    Count(c.lines),
		Subtotal: Subtotal(c.lines),
		IsOpen:   c.isOpen,
	}
}

func (c *Container) listenersLocked() []func(Snapshot) {
	if len(c.listeners) == 0 {
		return nil
	}
	out := make([]func(Snapshot), 0, len(c.listeners))
	for _, fn := range c.listeners {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}

// Count sums quantities.
func Count(lines []domain.CartLine) int {
	total := 0
	for _, l := range lines {
		total += l.Qty
	}
	return total
}

// Subtotal sums numeric price times quantity.
func Subtotal(lines []domain.CartLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += domain.PriceValue(l.Price) * float64(l.Qty)
	}
	return sum
}

func cloneLines(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, len(lines))
	copy(out, lines)
	return out
}

// sanitize applies the line invariants to stored data, which may predate them.
func sanitize(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(lines))
	seen := make(map[string]int, len(lines))
	for _, l := range lines {
		l.Key = domain.LineKey(l.ProductID, l.Size, l.Color)
		if l.Qty < 1 {
			l.Qty = 1
		}
		if idx, ok := seen[l.Key]; ok {
			out[idx].Qty += l.Qty
			continue
		}
		seen[l.Key] = len(out)
		out = append(out, l)
	}
	return out
}
