// Package tax computes GST amounts. All money leaves this package rounded to
// two places, half away from zero, through Round.
package tax

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Round is the single rounding policy for money: two places, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineAmount returns round(quantity * rate).
func LineAmount(quantity, rate decimal.Decimal) decimal.Decimal {
	return Round(quantity.Mul(rate))
}

// Breakdown is the tax split of one taxable amount.
type Breakdown struct {
	Taxable  decimal.Decimal `json:"taxable_value"`
	CGSTRate decimal.Decimal `json:"cgst_rate"`
	CGST     decimal.Decimal `json:"cgst"`
	SGSTRate decimal.Decimal `json:"sgst_rate"`
	SGST     decimal.Decimal `json:"sgst"`
	IGSTRate decimal.Decimal `json:"igst_rate"`
	IGST     decimal.Decimal `json:"igst"`
	Total    decimal.Decimal `json:"total"`
}

// Compute splits an intrastate taxable value into CGST and SGST.
func Compute(taxable, cgstRate, sgstRate decimal.Decimal) Breakdown {
	taxable = Round(taxable)
	cgst := percentOf(taxable, cgstRate)
	sgst := percentOf(taxable, sgstRate)
	return Breakdown{
		Taxable:  taxable,
		CGSTRate: cgstRate,
		CGST:     cgst,
		SGSTRate: sgstRate,
		SGST:     sgst,
		IGSTRate: decimal.Zero,
		IGST:     decimal.Zero,
		Total:    Round(taxable.Add(cgst).Add(sgst)),
	}
}

// ComputeInterstate applies a single IGST rate; CGST and SGST are zero.
func ComputeInterstate(taxable, igstRate decimal.Decimal) Breakdown {
	taxable = Round(taxable)
	igst := percentOf(taxable, igstRate)
	return Breakdown{
		Taxable:  taxable,
		CGSTRate: decimal.Zero,
		CGST:     decimal.Zero,
		SGSTRate: decimal.Zero,
		SGST:     decimal.Zero,
		IGSTRate: igstRate,
		IGST:     igst,
		Total:    Round(taxable.Add(igst)),
	}
}

func percentOf(amount, rate decimal.Decimal) decimal.Decimal {
	return Round(amount.Mul(rate).Div(hundred))
}

// Totals accumulates already-rounded line breakdowns (round-then-sum).
type Totals struct {
	Taxable decimal.Decimal
	CGST    decimal.Decimal
	SGST    decimal.Decimal
	IGST    decimal.Decimal
	Total   decimal.Decimal
}

// Add folds one line into the running totals.
func (t *Totals) Add(b Breakdown) {
	t.Taxable = t.Taxable.Add(b.Taxable)
	t.CGST = t.CGST.Add(b.CGST)
	t.SGST = t.SGST.Add(b.SGST)
	t.IGST = t.IGST.Add(b.IGST)
	t.Total = t.Total.Add(b.Total)
}
