package cartblob

import (
	"context"
)

// Store persists opaque cart blobs under a storage key. Get returns
// domain.ErrNotFound when nothing has been written for the key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, blob []byte) error
}

// Pinger is implemented by stores backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StorageKey scopes a blob to one browser session.
func StorageKey(prefix, sessionID string) string {
	return prefix + ":" + sessionID
}
