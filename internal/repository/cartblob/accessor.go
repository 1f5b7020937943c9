package cartblob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"boutique-storefront/internal/domain"
)

// Accessor reads and writes the cart blob of exactly one storage key.
type Accessor struct {
	store  Store
	key    string
	logger *log.Logger
}

func NewAccessor(store Store, key string, logger *log.Logger) *Accessor {
	return &Accessor{store: store, key: key, logger: logger}
}

func (a *Accessor) Key() string {
	return a.key
}

// Load returns the stored lines. A missing, unreadable or corrupt blob yields
// an empty cart; the failure is only logged.
func (a *Accessor) Load(ctx context.Context) []domain.CartLine {
	raw, err := a.store.Get(ctx, a.key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			a.logf("load cart %s: %v", a.key, err)
		}
		return nil
	}
	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		a.logf("decode cart %s: %v", a.key, err)
		return nil
	}
	return lines
}

// Save overwrites the blob with the full line list.
func (a *Accessor) Save(ctx context.Context, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := a.store.Set(ctx, a.key, raw); err != nil {
		return fmt.Errorf("save cart %s: %w", a.key, err)
	}
	return nil
}

func (a *Accessor) logf(format string, args ...interface{}) {
	if a.logger != nil {
		a.logger.Printf(format, args...)
	}
}
