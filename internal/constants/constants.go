package constants

// Environments
const (
	ProdEnvironment = "prod"
)

// Taxability information codes submitted to the compliance service.
const (
	TICGeneral  = "00000"
	TICShipping = "11010"
	TICFee      = "10010"
)

// Schema versions stored on each order's tax record. Orders still tagged
// with SchemaVersionDuplicatePackages are candidates for the reconciliation
// job; the job bumps them to SchemaVersionCurrent once repaired.
const (
	SchemaVersionDuplicatePackages = "2.4"
	SchemaVersionCurrent           = "2.5"
)

// Refund identifier for shipping charges. Carrier-specific method labels
// such as "UPS - Ground" all normalize down to this token.
const ShippingRefundKey = "SHIPPING"

// CertificateIDSinglePurchase marks an order whose exemption certificate is
// stored inline on the order rather than referenced by ID.
const CertificateIDSinglePurchase = "single-purchase"
