package tax

import (
	"github.com/shopspring/decimal"
)

// RateSelector picks the GST rate for an invoice line and decides between the
// intrastate (CGST+SGST) and interstate (IGST) split.
type RateSelector struct {
	lookup      *HSNLookup
	sellerState string
	defaultCGST decimal.Decimal
	defaultSGST decimal.Decimal
	defaultIGST decimal.Decimal
}

// NewRateSelector builds a selector. lookup may be nil.
func NewRateSelector(lookup *HSNLookup, sellerState string, cgst, sgst, igst decimal.Decimal) *RateSelector {
	return &RateSelector{
		lookup:      lookup,
		sellerState: sellerState,
		defaultCGST: cgst,
		defaultSGST: sgst,
		defaultIGST: igst,
	}
}

// Interstate reports whether a sale to buyerState crosses state lines.
// Unknown states on either side are treated as intrastate.
func (s *RateSelector) Interstate(buyerState string) bool {
	return s.sellerState != "" && buyerState != "" && buyerState != s.sellerState
}

// Apply computes the tax on taxable for one line. snapshot is the rate captured
// on the DC line, if any; otherwise the HSN master, then the configured defaults.
func (s *RateSelector) Apply(taxable decimal.Decimal, hsnCode string, snapshot decimal.NullDecimal, buyerState string) Breakdown {
	gross, ok := s.grossRate(hsnCode, snapshot)
	interstate := s.Interstate(buyerState)

	if !ok {
		if interstate {
			return ComputeInterstate(taxable, s.defaultIGST)
		}
		return Compute(taxable, s.defaultCGST, s.defaultSGST)
	}
	if interstate {
		return ComputeInterstate(taxable, gross)
	}
	half := gross.Div(decimal.NewFromInt(2))
	return Compute(taxable, half, half)
}

func (s *RateSelector) grossRate(hsnCode string, snapshot decimal.NullDecimal) (decimal.Decimal, bool) {
	if snapshot.Valid && snapshot.Decimal.IsPositive() {
		return snapshot.Decimal, true
	}
	if rate, ok := s.lookup.SingleRate(hsnCode); ok {
		return rate, true
	}
	return decimal.Zero, false
}
