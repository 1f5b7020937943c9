package storeapi

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"boutique-storefront/internal/domain"
	"golang.org/x/sync/singleflight"
)

// SettingsCache serves GET /settings merged over local defaults. Any upstream
// failure yields the defaults; concurrent refreshes share one request.
type SettingsCache struct {
	client   *Client
	defaults domain.ShopSettings
	ttl      time.Duration
	logger   *log.Logger
	now      func() time.Time

	group     singleflight.Group
	mu        sync.RWMutex
	cached    domain.ShopSettings
	fetchedAt time.Time
	valid     bool
}

func NewSettingsCache(client *Client, defaults domain.ShopSettings, ttl time.Duration, logger *log.Logger) *SettingsCache {
	return &SettingsCache{
		client:   client,
		defaults: defaults,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *SettingsCache) Get(ctx context.Context) domain.ShopSettings {
	s.mu.RLock()
	if s.valid && s.now().Sub(s.fetchedAt) < s.ttl {
		out := s.cached
		s.mu.RUnlock()
		return out
	}
	s.mu.RUnlock()

	// Shared by every waiting caller; detached from the first caller's cancel.
	fetchCtx := context.WithoutCancel(ctx)
	v, _, _ := s.group.Do("settings", func() (interface{}, error) {
		settings, err := s.client.Settings(fetchCtx, s.defaults)
		if err != nil {
			if s.logger != nil {
				s.logger.Printf("fetch settings: %v", err)
			}
			// Defaults are not cached so the next call tries again.
			return s.defaults, nil
		}
		s.mu.Lock()
		s.cached = settings
		s.fetchedAt = s.now()
		s.valid = true
		s.mu.Unlock()
		return settings, nil
	})
	return v.(domain.ShopSettings)
}

// Settings fetches /settings and overlays the fields it returns on defaults.
func (c *Client) Settings(ctx context.Context, defaults domain.ShopSettings) (domain.ShopSettings, error) {
	var raw map[string]json.RawMessage
	if err := c.get(ctx, "/settings", nil, &raw); err != nil {
		return defaults, err
	}

	out := defaults
	overlayString(raw, "whatsapp", &out.WhatsApp)
	overlayString(raw, "facebook", &out.Facebook)
	overlayString(raw, "instagram", &out.Instagram)
	overlayString(raw, "contact_us_email", &out.ContactUsEmail)
	if v, ok := raw["wholesale_at"]; ok {
		var n float64
		if err := json.Unmarshal(v, &n); err == nil {
			out.WholesaleAt = int(n)
		}
	}
	return out, nil
}

func overlayString(raw map[string]json.RawMessage, key string, dst *string) {
	v, ok := raw[key]
	if !ok {
		return
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		*dst = s
	}
}
