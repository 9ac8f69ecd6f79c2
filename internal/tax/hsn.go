package tax

import (
	"github.com/shopspring/decimal"

	"senstosales/internal/domain"
)

// HSNLookup answers GST rate questions against the HSN/SAC master.
// It is immutable after construction and safe for concurrent access.
type HSNLookup struct {
	byCode map[string][]decimal.Decimal
}

// NewHSNLookup indexes master rows by code. Duplicate rates for a code collapse.
func NewHSNLookup(entries []domain.HSNCode) *HSNLookup {
	m := make(map[string][]decimal.Decimal, len(entries))
	for idx := range entries {
		e := &entries[idx]
		if !containsRate(m[e.Code], e.GSTRate) {
			m[e.Code] = append(m[e.Code], e.GSTRate)
		}
	}
	return &HSNLookup{byCode: m}
}

func containsRate(rates []decimal.Decimal, r decimal.Decimal) bool {
	for _, existing := range rates {
		if existing.Equal(r) {
			return true
		}
	}
	return false
}

// Len is the number of distinct codes loaded.
func (h *HSNLookup) Len() int {
	if h == nil {
		return 0
	}
	return len(h.byCode)
}

// Rates returns the GST rates for code, falling back from 8 to 6 to 4 digit prefixes.
func (h *HSNLookup) Rates(code string) []decimal.Decimal {
	if h == nil || len(h.byCode) == 0 || code == "" {
		return nil
	}
	if rates, ok := h.byCode[code]; ok {
		return rates
	}
	for _, prefixLen := range []int{6, 4} {
		if len(code) > prefixLen {
			if rates, ok := h.byCode[code[:prefixLen]]; ok {
				return rates
			}
		}
	}
	return nil
}

// SingleRate returns the rate for code when the master lists exactly one.
// Codes with conditional rates are ambiguous and report false.
func (h *HSNLookup) SingleRate(code string) (decimal.Decimal, bool) {
	rates := h.Rates(code)
	if len(rates) != 1 {
		return decimal.Zero, false
	}
	return rates[0], true
}
