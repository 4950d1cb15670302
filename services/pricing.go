package services

import (
	"github.com/shopspring/decimal"

	"catering-backend/models"
)

var (
	specialRangeMin = decimal.NewFromInt(3000)
	specialRangeMax = decimal.NewFromInt(3500)
	depositRate     = decimal.RequireFromString("0.30")
)

// PricingRules are the package terms a price is computed from.
type PricingRules struct {
	PricePerTable  decimal.Decimal
	IncludedCount  int
	ExtraMenuPrice decimal.Decimal
}

// Quote is the breakdown of a booking price.
type Quote struct {
	BasePrice     decimal.Decimal `json:"base_price"`
	IncludedCount int             `json:"included_count"`
	MaxSelections int             `json:"max_selections"`
	SelectedCount int             `json:"selected_count"`
	ExtraCount    int             `json:"extra_count"`
	ExtraCharge   decimal.Decimal `json:"extra_charge"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

func RulesFromPackage(p *models.MenuPackage) PricingRules {
	return PricingRules{
		PricePerTable:  p.PricePerTable,
		IncludedCount:  p.IncludedCount(),
		ExtraMenuPrice: p.ExtraPrice(),
	}
}

func RulesFromSnapshot(s models.PackageSnapshot) PricingRules {
	r := PricingRules{
		PricePerTable:  s.PricePerTable,
		IncludedCount:  s.MaxSelections,
		ExtraMenuPrice: s.ExtraMenuPrice,
	}
	return r.normalized()
}

func (r PricingRules) normalized() PricingRules {
	if r.IncludedCount <= 0 {
		r.IncludedCount = models.DefaultIncludedMenus
	}
	if !r.ExtraMenuPrice.IsPositive() {
		r.ExtraMenuPrice = models.DefaultExtraMenuPrice
	}
	return r
}

// SelectionCeiling is the hard limit on distinct menu selections.
// Packages priced 3000-3500 (inclusive) allow three extra picks, every other package two.
func SelectionCeiling(r PricingRules) int {
	r = r.normalized()
	if r.PricePerTable.GreaterThanOrEqual(specialRangeMin) && r.PricePerTable.LessThanOrEqual(specialRangeMax) {
		return r.IncludedCount + 3
	}
	return r.IncludedCount + 2
}

// CheckSelection rejects a selection above the ceiling.
func CheckSelection(r PricingRules, selected int) error {
	r = r.normalized()
	max := SelectionCeiling(r)
	if selected > max {
		return ValidationError("booking.selectionExceeded", map[string]any{
			"max":      max,
			"included": r.IncludedCount,
			"selected": selected,
		})
	}
	return nil
}

// CalculatePrice computes base price plus overage for selected distinct menus.
func CalculatePrice(r PricingRules, tableCount, selected int) (Quote, error) {
	r = r.normalized()
	if tableCount < 1 {
		return Quote{}, ValidationError("booking.tableCountInvalid", nil)
	}
	if err := CheckSelection(r, selected); err != nil {
		return Quote{}, err
	}

	tables := decimal.NewFromInt(int64(tableCount))
	q := Quote{
		BasePrice:     r.PricePerTable.Mul(tables),
		IncludedCount: r.IncludedCount,
		MaxSelections: SelectionCeiling(r),
		SelectedCount: selected,
		ExtraCharge:   decimal.Zero,
	}
	if selected > r.IncludedCount {
		q.ExtraCount = selected - r.IncludedCount
		q.ExtraCharge = decimal.NewFromInt(int64(q.ExtraCount)).Mul(r.ExtraMenuPrice).Mul(tables)
	}
	q.TotalPrice = q.BasePrice.Add(q.ExtraCharge)
	return q, nil
}

// DefaultDeposit is 30% of the total, rounded to a whole currency unit.
func DefaultDeposit(total decimal.Decimal) decimal.Decimal {
	return total.Mul(depositRate).Round(0)
}
