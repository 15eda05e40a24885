package addresscache

import (
	"context"
	"errors"
	"time"

	"github.com/taxbridge/taxbridge-api/internal/types/business"
)

// ErrNotFound indicates the cache holds no fresh entry for the hash.
var ErrNotFound = errors.New("verified address not cached")

// Repository is the verified-address cache, keyed by the content hash of the
// unverified address. Entries are write-once; a colliding Put simply
// overwrites with an equivalent value.
type Repository interface {
	Get(ctx context.Context, hash string, maxAge time.Duration) (*business.Address, error)
	Put(ctx context.Context, hash string, addr business.Address) error
}
