package statement

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/hauptbuch/internal/ledger"
	"github.com/cleared-dev/hauptbuch/internal/model"
)

// VATConfig selects the accounts of a VAT return by code prefix.
type VATConfig struct {
	StandardPrefix string // revenue at the standard rate
	StandardRate   decimal.Decimal
	ReducedPrefix  string // revenue at the reduced rate
	ReducedRate    decimal.Decimal
	InputTaxPrefix string // Vorsteuer
}

// DefaultVATConfig returns the SKR03 prefixes with the German rates of
// 19 % and 7 %.
func DefaultVATConfig() VATConfig {
	return VATConfig{
		StandardPrefix: "84",
		StandardRate:   decimal.New(19, -2),
		ReducedPrefix:  "83",
		ReducedRate:    decimal.New(7, -2),
		InputTaxPrefix: "157",
	}
}

// VATReturn holds the UStVA figures of a period. Bases and input tax are
// turnover sums; taxes are rounded to cents.
type VATReturn struct {
	From, To     time.Time
	StandardBase decimal.Decimal // Kz 81
	StandardTax  decimal.Decimal
	ReducedBase  decimal.Decimal // Kz 86
	ReducedTax   decimal.Decimal
	InputTax     decimal.Decimal // Kz 66
	Payable      decimal.Decimal // Kz 83, negative means refund
}

// OutputTax returns the VAT due on revenue.
func (v VATReturn) OutputTax() decimal.Decimal {
	return v.StandardTax.Add(v.ReducedTax)
}

// BuildVATReturn computes the VAT return for postings dated within
// [from, to].
func BuildVATReturn(accounts []model.Account, idx *ledger.Index, from, to time.Time, cfg VATConfig) VATReturn {
	v := VATReturn{
		From:         ledger.Day(from),
		To:           ledger.Day(to),
		StandardBase: decimal.Zero,
		ReducedBase:  decimal.Zero,
		InputTax:     decimal.Zero,
	}
	for _, acct := range accounts {
		debit, credit := idx.Turnover(acct.ID, from, to)
		switch {
		case acct.Type == model.AccountTypeRevenue && hasPrefix(acct, cfg.StandardPrefix):
			v.StandardBase = v.StandardBase.Add(credit.Sub(debit))
		case acct.Type == model.AccountTypeRevenue && hasPrefix(acct, cfg.ReducedPrefix):
			v.ReducedBase = v.ReducedBase.Add(credit.Sub(debit))
		case acct.Type == model.AccountTypeAsset && hasPrefix(acct, cfg.InputTaxPrefix):
			v.InputTax = v.InputTax.Add(debit.Sub(credit))
		}
	}
	v.StandardTax = v.StandardBase.Mul(cfg.StandardRate).Round(2)
	v.ReducedTax = v.ReducedBase.Mul(cfg.ReducedRate).Round(2)
	v.Payable = v.OutputTax().Sub(v.InputTax)
	return v
}

func hasPrefix(acct model.Account, prefix string) bool {
	code := acct.Code
	if code == "" {
		code = acct.ID
	}
	return prefix != "" && strings.HasPrefix(code, prefix)
}
