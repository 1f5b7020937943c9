// Package session binds one cart container and one order flow to each
// browser session.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"boutique-storefront/internal/repository/cartblob"
	"boutique-storefront/internal/service/cart"
	"boutique-storefront/internal/service/order"
	"github.com/google/uuid"
)

// Session is the per-browser state. Notices and the last confirmation link
// are kept so the browser can read them after an order action.
type Session struct {
	ID   string
	Cart *cart.Container
	Flow *order.Flow

	mu       sync.Mutex
	lastSeen time.Time
	notices  []string
	lastLink string
}

// TakeNotices returns and clears the pending notices.
func (s *Session) TakeNotices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notices
	s.notices = nil
	return out
}

func (s *Session) LastLink() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastLink
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

type Options struct {
	Store         cartblob.Store
	StoragePrefix string
	TTL           time.Duration
	OrderAPI      order.API
	LinkSettings  func(ctx context.Context) order.LinkSettings
	Logger        *log.Logger
}

// Manager keeps sessions in memory; evicted sessions are re-hydrated from the
// store on their next request.
type Manager struct {
	opts Options
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(opts Options) *Manager {
	return &Manager{opts: opts, now: time.Now, sessions: make(map[string]*Session)}
}

// NewID issues a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an id issued by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Get returns the session for id, creating and hydrating it on first use.
func (m *Manager) Get(ctx context.Context, id string) *Session {
	now := m.now()

	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		s = m.newSession(id)
		m.sessions[id] = s
	}
	m.mu.Unlock()

	s.touch(now)
	// Empty first, personalized second: the container is observable before
	// the stored cart replaces it.
	if !s.Cart.Hydrated() {
		key := cartblob.StorageKey(m.opts.StoragePrefix, id)
		s.Cart.Hydrate(ctx, cartblob.NewAccessor(m.opts.Store, key, m.opts.Logger))
	}
	return s
}

func (m *Manager) newSession(id string) *Session {
	s := &Session{ID: id, Cart: cart.New(m.opts.Logger)}
	s.Flow = order.NewFlow(order.Deps{
		API:  m.opts.OrderAPI,
		Cart: s.Cart,
		Navigator: order.NavigatorFunc(func(link string) {
			s.mu.Lock()
			s.lastLink = link
			s.mu.Unlock()
		}),
		Notifier: order.NotifierFunc(func(notice string) {
			s.mu.Lock()
			s.notices = append(s.notices, notice)
			s.mu.Unlock()
		}),
		Settings: m.opts.LinkSettings,
		Logger:   m.opts.Logger,
	})
	return s
}

func (s *Session) pinned() bool {
	if s.Flow.Placing() || s.Cart.Subscribers() > 0 {
		return true
	}
	p := s.Flow.Prompt()
	return p.Open || p.Loading
}

// Len reports how many sessions are resident.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Evict drops sessions idle for longer than the TTL. A session is kept while
// an order action is in flight, while its recovery prompt is open (the reorder
// key lives only in memory) and while an event stream is attached to its cart.
// It returns how many were dropped.
func (m *Manager) Evict() int {
	if m.opts.TTL <= 0 {
		return 0
	}
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for id, s := range m.sessions {
		if s.idleSince(now) <= m.opts.TTL || s.pinned() {
			continue
		}
		delete(m.sessions, id)
		evicted++
	}
	return evicted
}

// Run evicts idle sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Evict(); n > 0 && m.opts.Logger != nil {
				m.opts.Logger.Printf("evicted %d idle sessions", n)
			}
		}
	}
}
