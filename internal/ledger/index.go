package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/hauptbuch/internal/model"
)

// Posting is one journal line together with the transaction facts the
// period analysis needs.
type Posting struct {
	TransactionID string
	Date          time.Time
	ContactID     string
	Opening       bool
	Debit         decimal.Decimal
	Credit        decimal.Decimal
}

// Index groups postings by account so that statements over many
// accounts scan the transaction history once.
type Index struct {
	byAccount map[string][]Posting
	count     int
}

// NewIndex builds an index over txns. Line order per account follows
// transaction order.
func NewIndex(txns []model.Transaction) *Index {
	idx := &Index{byAccount: make(map[string][]Posting)}
	for _, tx := range txns {
		opening := IsOpening(tx)
		for _, l := range tx.Lines {
			idx.byAccount[l.AccountID] = append(idx.byAccount[l.AccountID], Posting{
				TransactionID: tx.ID,
				Date:          tx.Date,
				ContactID:     tx.ContactID,
				Opening:       opening,
				Debit:         l.Debit,
				Credit:        l.Credit,
			})
			idx.count++
		}
	}
	return idx
}

// Len returns the number of indexed postings.
func (idx *Index) Len() int { return idx.count }

// Postings returns the postings of one account. The slice must not be modified.
func (idx *Index) Postings(accountID string) []Posting {
	return idx.byAccount[accountID]
}

// Balance returns the full-history signed balance of acct.
func (idx *Index) Balance(acct model.Account) decimal.Decimal {
	net := decimal.Zero
	for _, p := range idx.byAccount[acct.ID] {
		net = net.Add(p.Debit).Sub(p.Credit)
	}
	return signed(acct.Type, net)
}

// Stats returns the period statistics of acct as of asOf.
func (idx *Index) Stats(acct model.Account, asOf time.Time, cal Calendar) Stats {
	return accountStats(acct.Type, idx.byAccount[acct.ID], asOf, cal)
}

// Turnover sums debit and credit of acct for postings dated within
// [from, to], both days inclusive. Opening postings are included.
func (idx *Index) Turnover(accountID string, from, to time.Time) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	from, to = Day(from), Day(to)
	for _, p := range idx.byAccount[accountID] {
		d := Day(p.Date)
		if d.Before(from) || d.After(to) {
			continue
		}
		debit = debit.Add(p.Debit)
		credit = credit.Add(p.Credit)
	}
	return debit, credit
}
