package domain

// POStatus is the lifecycle state of a purchase order.
type POStatus string

const (
	POStatusOpen      POStatus = "open"
	POStatusClosed    POStatus = "closed"
	POStatusCancelled POStatus = "cancelled"
)

// Valid reports whether s is a known PO status.
func (s POStatus) Valid() bool {
	switch s {
	case POStatusOpen, POStatusClosed, POStatusCancelled:
		return true
	}
	return false
}

// ChallanStatus is derived from the presence of an invoice link.
type ChallanStatus string

const (
	ChallanStatusPending  ChallanStatus = "pending"
	ChallanStatusInvoiced ChallanStatus = "invoiced"
)

// DateLayout is the wire and storage format of document dates.
const DateLayout = "2006-01-02"
