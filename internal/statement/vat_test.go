package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/hauptbuch/internal/ledger"
	"github.com/cleared-dev/hauptbuch/internal/model"
)

func TestBuildVATReturn(t *testing.T) {
	txns := []model.Transaction{
		{
			ID:   "B-2025-01-001",
			Date: date(2025, 1, 10),
			Lines: []model.JournalLine{
				{AccountID: "1400", Debit: dec("1190")},
				{AccountID: "8400", Credit: dec("1000")},
				{AccountID: "1776", Credit: dec("190")},
			},
		},
		{
			ID:   "B-2025-01-002",
			Date: date(2025, 1, 12),
			Lines: []model.JournalLine{
				{AccountID: "1400", Debit: dec("107")},
				{AccountID: "8300", Credit: dec("100")},
				{AccountID: "1771", Credit: dec("7")},
			},
		},
		{
			ID:   "B-2025-01-003",
			Date: date(2025, 1, 20),
			Lines: []model.JournalLine{
				{AccountID: "4930", Debit: dec("200")},
				{AccountID: "1576", Debit: dec("38")},
				{AccountID: "1600", Credit: dec("238")},
			},
		},
		post("B-2025-02-001", date(2025, 2, 1), "1400", "8400", "5000"),
	}
	v := BuildVATReturn(chart, ledger.NewIndex(txns), date(2025, 1, 1), date(2025, 1, 31), DefaultVATConfig())

	assert.Equal(t, "1000", v.StandardBase.String())
	assert.Equal(t, "190", v.StandardTax.String())
	assert.Equal(t, "100", v.ReducedBase.String())
	assert.Equal(t, "7", v.ReducedTax.String())
	assert.Equal(t, "38", v.InputTax.String())
	assert.Equal(t, "197", v.OutputTax().String())
	assert.Equal(t, "159", v.Payable.String())
}

func TestBuildVATReturn_RoundsTax(t *testing.T) {
	txns := []model.Transaction{post("B-2025-01-001", date(2025, 1, 10), "1400", "8400", "10.05")}
	v := BuildVATReturn(chart, ledger.NewIndex(txns), date(2025, 1, 1), date(2025, 1, 31), DefaultVATConfig())

	// 10.05 * 0.19 = 1.9095
	assert.Equal(t, "1.91", v.StandardTax.StringFixed(2))
}

func TestBuildVATReturn_Refund(t *testing.T) {
	txns := []model.Transaction{{
		ID:   "B-2025-01-001",
		Date: date(2025, 1, 20),
		Lines: []model.JournalLine{
			{AccountID: "0420", Debit: dec("1000")},
			{AccountID: "1576", Debit: dec("190")},
			{AccountID: "1600", Credit: dec("1190")},
		},
	}}
	v := BuildVATReturn(chart, ledger.NewIndex(txns), date(2025, 1, 1), date(2025, 1, 31), DefaultVATConfig())
	assert.Equal(t, "-190", v.Payable.String())
}
