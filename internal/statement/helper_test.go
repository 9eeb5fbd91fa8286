package statement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/hauptbuch/internal/accounts"
	"github.com/cleared-dev/hauptbuch/internal/model"
)

var chart = accounts.DefaultChart("gmbh")

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// post builds a two-line transaction debiting dr and crediting cr.
func post(txID string, on time.Time, dr, cr, amount string) model.Transaction {
	return model.Transaction{
		ID:   txID,
		Date: on,
		Lines: []model.JournalLine{
			{AccountID: dr, Debit: dec(amount)},
			{AccountID: cr, Credit: dec(amount)},
		},
	}
}
