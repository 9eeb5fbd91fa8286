package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetStatus is the lifecycle state of a fixed asset.
type AssetStatus string

const (
	AssetActive   AssetStatus = "ACTIVE"
	AssetDisposed AssetStatus = "DISPOSED"
)

// Asset is one entry of the fixed-asset register.
type Asset struct {
	ID              string
	Name            string
	GLAccountID     string
	PurchaseDate    time.Time
	Cost            decimal.Decimal
	UsefulLifeYears int // 0 = not depreciable
	ResidualValue   decimal.Decimal
	Status          AssetStatus
}

// DepreciableBase returns cost minus residual value, never below zero.
func (a Asset) DepreciableBase() decimal.Decimal {
	base := a.Cost.Sub(a.ResidualValue)
	if base.IsNegative() {
		return decimal.Zero
	}
	return base
}
