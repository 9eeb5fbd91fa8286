// Package depreciation computes linear AfA with pro-rata-temporis in the
// year of purchase.
package depreciation

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/hauptbuch/internal/model"
)

// Schedule is the depreciation state of one asset in one calendar year.
type Schedule struct {
	Year           int
	CurrentAfA     decimal.Decimal
	AccumulatedAfA decimal.Decimal // including CurrentAfA
	BookValue      decimal.Decimal // cost minus AccumulatedAfA
}

// Compute returns the schedule of a in year.
//
// The purchase month counts as a full month, so the first year
// depreciates 13 - purchaseMonth twelfths of the yearly rate. Accumulated
// depreciation is rounded to cents at every year end and never exceeds
// the depreciable base (cost minus residual value); the yearly amounts
// therefore sum exactly to the base. Assets with no useful life are not
// depreciated.
func Compute(a model.Asset, year int) Schedule {
	s := Schedule{
		Year:           year,
		CurrentAfA:     decimal.Zero,
		AccumulatedAfA: decimal.Zero,
		BookValue:      a.Cost,
	}
	if a.UsefulLifeYears <= 0 || year < a.PurchaseDate.Year() {
		return s
	}
	prior := accumulated(a, year-1)
	s.AccumulatedAfA = accumulated(a, year)
	s.CurrentAfA = s.AccumulatedAfA.Sub(prior)
	s.BookValue = a.Cost.Sub(s.AccumulatedAfA)
	return s
}

// accumulated returns the depreciation accumulated at the end of year.
func accumulated(a model.Asset, year int) decimal.Decimal {
	py := a.PurchaseDate.Year()
	if year < py {
		return decimal.Zero
	}
	base := a.DepreciableBase()
	months := int64(13 - int(a.PurchaseDate.Month()) + 12*(year-py))
	total := int64(a.UsefulLifeYears) * 12
	if months >= total {
		return base
	}
	acc := base.Mul(decimal.NewFromInt(months)).Div(decimal.NewFromInt(total)).Round(2)
	if acc.GreaterThan(base) {
		return base
	}
	return acc
}

// YearlyRate returns the full-year AfA of a.
func YearlyRate(a model.Asset) decimal.Decimal {
	if a.UsefulLifeYears <= 0 {
		return decimal.Zero
	}
	return a.DepreciableBase().Div(decimal.NewFromInt(int64(a.UsefulLifeYears))).Round(2)
}

// Plan returns the schedules from the purchase year through the last
// year with depreciation. Non-depreciable assets get a single entry.
func Plan(a model.Asset) []Schedule {
	py := a.PurchaseDate.Year()
	if a.UsefulLifeYears <= 0 {
		return []Schedule{Compute(a, py)}
	}
	last := py + a.UsefulLifeYears
	if a.PurchaseDate.Month() == 1 {
		last-- // a January purchase completes within UsefulLifeYears calendar years
	}
	plan := make([]Schedule, 0, last-py+1)
	for y := py; y <= last; y++ {
		plan = append(plan, Compute(a, y))
	}
	return plan
}
