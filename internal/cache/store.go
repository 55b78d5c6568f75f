package cache

import "context"

// Store is a TTL-bounded key→JSON payload store.
//
// Get returns the payload and true on a hit. A missing entry, an entry older
// than the TTL, an unparseable payload and a read error all look identical to
// the caller: (nil, false). Callers never distinguish these cases; any miss
// triggers a fresh fetch.
//
// Set always overwrites the entry and refreshes its timestamp. Write errors
// propagate so the caller can decide whether stale downstream state matters.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte) error
}
