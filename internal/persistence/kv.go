package persistence

import "context"

// Well-known keys for the three durable collections. The layout mirrors the
// original client-side store: each key holds one UTF-8 JSON document.
const (
	KeyUsers       = "civic-rights-users"
	KeyCurrentUser = "civic-rights-current-user"
	KeyComplaints  = "civic-rights-complaints"
)

// KV is a durable local key-value layer. Get returns false when the key has
// never been written or has been deleted; Set overwrites unconditionally.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
