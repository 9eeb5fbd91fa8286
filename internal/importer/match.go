package importer

import (
	"sort"
	"strings"

	"github.com/cleared-dev/hauptbuch/internal/model"
)

// MatchSettlements turns bank rows into settlements of the invoices whose
// number appears in the purpose text. Incoming amounts match invoices,
// outgoing amounts match credit notes. When several numbers appear the
// longest wins. Reversed invoices never match. Rows without a match are
// returned as unmatched, in input order.
func MatchSettlements(bank []model.BankTransaction, invoices []model.Invoice) (settlements []model.Settlement, unmatched []model.BankTransaction) {
	candidates := make([]model.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if inv.IsReversed || strings.TrimSpace(inv.Number) == "" {
			continue
		}
		candidates = append(candidates, inv)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].Number) > len(candidates[j].Number)
	})

	for _, bt := range bank {
		inv, ok := matchInvoice(bt, candidates)
		if !ok {
			unmatched = append(unmatched, bt)
			continue
		}
		settlements = append(settlements, model.Settlement{
			ID:        bt.Reference,
			InvoiceID: inv.ID,
			Date:      bt.Date,
			Amount:    bt.Amount,
			Reference: bt.Reference,
		})
	}
	return settlements, unmatched
}

func matchInvoice(bt model.BankTransaction, candidates []model.Invoice) (model.Invoice, bool) {
	if bt.Amount.IsZero() {
		return model.Invoice{}, false
	}
	purpose := strings.ToUpper(bt.Description)
	for _, inv := range candidates {
		if inv.IsCreditNote() != bt.Amount.IsNegative() {
			continue
		}
		if strings.Contains(purpose, strings.ToUpper(inv.Number)) {
			return inv, true
		}
	}
	return model.Invoice{}, false
}
