package ledger

import (
	"strings"

	"github.com/cleared-dev/hauptbuch/internal/model"
)

// OpeningKeywords mark opening-balance bookings in legacy data that
// predates the OPENING kind.
var OpeningKeywords = []string{
	"saldovortrag",
	"eröffnungsbilanz",
	"eröffnungsbuchung",
	"startkapital",
	"vortrag",
}

// IsOpening reports whether tx carries an opening balance.
//
// Transactions of kind OPENING are always opening transactions. For
// records without that tag the legacy heuristic applies: a reference
// starting with "EB" or a description containing one of OpeningKeywords.
// The heuristic exists only for older data and should not be relied on
// for new bookings.
func IsOpening(tx model.Transaction) bool {
	if tx.Kind == model.KindOpening {
		return true
	}
	if tx.Kind != "" && tx.Kind != model.KindGeneral {
		return false
	}
	return isLegacyOpening(tx)
}

func isLegacyOpening(tx model.Transaction) bool {
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(tx.Reference)), "EB") {
		return true
	}
	desc := strings.ToLower(tx.Description)
	for _, kw := range OpeningKeywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}
