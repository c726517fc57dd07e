package enum

// InvoiceStatus tracks e-invoice issuance independently of payment. A failed
// issuance never rolls back a completed payment.
type InvoiceStatus string

const (
	InvoiceStatusNotIssued InvoiceStatus = "not_issued"
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusIssued    InvoiceStatus = "issued"
	InvoiceStatusError     InvoiceStatus = "error"
)
