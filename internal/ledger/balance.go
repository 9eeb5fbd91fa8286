package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/hauptbuch/internal/model"
)

// Balance returns the full-history balance of one account, signed by
// the account type's normal side: debit minus credit for ASSET and
// EXPENSE, credit minus debit otherwise. Negative (reversal) amounts
// reduce the balance like any other posting.
func Balance(accountID string, typ model.AccountType, txns []model.Transaction) decimal.Decimal {
	net := decimal.Zero
	for _, tx := range txns {
		for _, l := range tx.Lines {
			if l.AccountID != accountID {
				continue
			}
			net = net.Add(l.Debit).Sub(l.Credit)
		}
	}
	return signed(typ, net)
}

// signed applies the normal-balance sign of typ to a debit-minus-credit amount.
func signed(typ model.AccountType, debitNet decimal.Decimal) decimal.Decimal {
	if typ.IsDebitNormal() {
		return debitNet
	}
	return debitNet.Neg()
}
