package order

import (
	"context"
	"errors"
	"time"

	"github.com/taxbridge/taxbridge-api/internal/types/business"
)

// ErrNotFound indicates no tax record exists for the requested order.
var ErrNotFound = errors.New("order tax record not found")

// Record is the persisted tax state of one order: the lifecycle record plus
// the host-order snapshot it was computed from.
type Record struct {
	Order     business.TaxOrder
	Snapshot  business.OrderSnapshot
	UpdatedAt time.Time
}

type Repository interface {
	Get(ctx context.Context, orderID string) (*Record, error)
	Save(ctx context.Context, rec *Record) error

	// ListForReconciliation pages through records whose schema version and
	// status mark them as candidates for the reconciliation job.
	ListForReconciliation(ctx context.Context, schemaVersion string, status business.TaxStatus, limit int32) ([]Record, error)
	CountForReconciliation(ctx context.Context, schemaVersion string, status business.TaxStatus) (int64, error)
}
