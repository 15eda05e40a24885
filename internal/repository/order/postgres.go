package order

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/taxbridge/taxbridge-api/internal/types/business"
)

// Postgres implements Repository on a pgx connection pool. Saved package
// lists are stored as a versioned JSON blob; legacy-shaped blobs are
// migrated once on read by business.DecodePackages.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Repository = (*Postgres)(nil)

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const getQuery = `
SELECT order_id, status, certificate_id, single_purchase_certificate,
       snapshot, packages, removed_packages, schema_version, updated_at
FROM order_tax_records
WHERE order_id = $1`

func (p *Postgres) Get(ctx context.Context, orderID string) (*Record, error) {
	row := p.pool.QueryRow(ctx, getQuery, orderID)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get order tax record")
	}
	return rec, nil
}

const saveQuery = `
INSERT INTO order_tax_records
    (order_id, status, certificate_id, single_purchase_certificate,
     snapshot, packages, removed_packages, schema_version, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (order_id) DO UPDATE SET
    status = EXCLUDED.status,
    certificate_id = EXCLUDED.certificate_id,
    single_purchase_certificate = EXCLUDED.single_purchase_certificate,
    snapshot = EXCLUDED.snapshot,
    packages = EXCLUDED.packages,
    removed_packages = EXCLUDED.removed_packages,
    schema_version = EXCLUDED.schema_version,
    updated_at = EXCLUDED.updated_at`

func (p *Postgres) Save(ctx context.Context, rec *Record) error {
	packages, err := business.EncodePackages(rec.Order.Packages)
	if err != nil {
		return errors.Wrap(err, "encode packages")
	}
	removed, err := business.EncodePackages(rec.Order.RemovedPackages)
	if err != nil {
		return errors.Wrap(err, "encode removed packages")
	}
	snapshot, err := json.Marshal(rec.Snapshot)
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}

	var inlineCert []byte
	if rec.Order.SinglePurchaseCertificate != nil {
		inlineCert, err = json.Marshal(rec.Order.SinglePurchaseCertificate)
		if err != nil {
			return errors.Wrap(err, "encode inline certificate")
		}
	}

	_, err = p.pool.Exec(ctx, saveQuery,
		rec.Order.OrderID,
		string(rec.Order.Status),
		rec.Order.CertificateID,
		inlineCert,
		snapshot,
		[]byte(packages),
		[]byte(removed),
		rec.Order.SchemaVersion,
		time.Now().UTC(),
	)
	return errors.Wrap(err, "save order tax record")
}

const listForReconciliationQuery = `
SELECT order_id, status, certificate_id, single_purchase_certificate,
       snapshot, packages, removed_packages, schema_version, updated_at
FROM order_tax_records
WHERE schema_version = $1 AND status = $2
ORDER BY order_id
LIMIT $3`

func (p *Postgres) ListForReconciliation(ctx context.Context, schemaVersion string, status business.TaxStatus, limit int32) ([]Record, error) {
	rows, err := p.pool.Query(ctx, listForReconciliationQuery, schemaVersion, string(status), limit)
	if err != nil {
		return nil, errors.Wrap(err, "list orders for reconciliation")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan order tax record")
		}
		records = append(records, *rec)
	}
	return records, errors.Wrap(rows.Err(), "iterate order tax records")
}

const countForReconciliationQuery = `
SELECT COUNT(*) FROM order_tax_records
WHERE schema_version = $1 AND status = $2`

func (p *Postgres) CountForReconciliation(ctx context.Context, schemaVersion string, status business.TaxStatus) (int64, error) {
	var count int64
	err := p.pool.QueryRow(ctx, countForReconciliationQuery, schemaVersion, string(status)).Scan(&count)
	return count, errors.Wrap(err, "count orders for reconciliation")
}

func scanRecord(row pgx.Row) (*Record, error) {
	var (
		rec        Record
		status     string
		inlineCert []byte
		snapshot   []byte
		packages   []byte
		removed    []byte
	)
	err := row.Scan(
		&rec.Order.OrderID,
		&status,
		&rec.Order.CertificateID,
		&inlineCert,
		&snapshot,
		&packages,
		&removed,
		&rec.Order.SchemaVersion,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Order.Status = business.TaxStatus(status)
	if len(inlineCert) > 0 {
		var cert business.ExemptionCertificate
		if err := json.Unmarshal(inlineCert, &cert); err != nil {
			return nil, errors.Wrap(err, "decode inline certificate")
		}
		rec.Order.SinglePurchaseCertificate = &cert
	}
	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &rec.Snapshot); err != nil {
			return nil, errors.Wrap(err, "decode snapshot")
		}
	}
	if rec.Order.Packages, err = business.DecodePackages(packages); err != nil {
		return nil, errors.Wrap(err, "decode packages")
	}
	if rec.Order.RemovedPackages, err = business.DecodePackages(removed); err != nil {
		return nil, errors.Wrap(err, "decode removed packages")
	}
	return &rec, nil
}
