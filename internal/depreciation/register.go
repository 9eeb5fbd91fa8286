package depreciation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/hauptbuch/internal/model"
)

// Group is one line of the summarized asset register: all assets
// sharing a GL account.
type Group struct {
	GLAccountID    string
	Assets         int
	Cost           decimal.Decimal
	CurrentAfA     decimal.Decimal
	AccumulatedAfA decimal.Decimal
	BookValue      decimal.Decimal
}

// GroupByAccount aggregates the schedules of year per GL account, sorted
// by account. Disposed assets and assets bought after year are left out.
func GroupByAccount(assets []model.Asset, year int) []Group {
	groups := make(map[string]*Group)
	for _, a := range assets {
		if !inRegister(a, year) {
			continue
		}
		g, ok := groups[a.GLAccountID]
		if !ok {
			g = &Group{
				GLAccountID:    a.GLAccountID,
				Cost:           decimal.Zero,
				CurrentAfA:     decimal.Zero,
				AccumulatedAfA: decimal.Zero,
				BookValue:      decimal.Zero,
			}
			groups[a.GLAccountID] = g
		}
		s := Compute(a, year)
		g.Assets++
		g.Cost = g.Cost.Add(a.Cost)
		g.CurrentAfA = g.CurrentAfA.Add(s.CurrentAfA)
		g.AccumulatedAfA = g.AccumulatedAfA.Add(s.AccumulatedAfA)
		g.BookValue = g.BookValue.Add(s.BookValue)
	}

	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GLAccountID < out[j].GLAccountID })
	return out
}

func inRegister(a model.Asset, year int) bool {
	if a.Status == model.AssetDisposed {
		return false
	}
	return a.PurchaseDate.Year() <= year
}
