package statement

import "github.com/cleared-dev/hauptbuch/internal/model"

// Category is a statement line: a P&L line (GuV) or a balance-sheet
// group (Aktiva/Passiva).
type Category string

const (
	GUV1 Category = "GUV_1"
	GUV2 Category = "GUV_2"
	GUV3 Category = "GUV_3"
	GUV4 Category = "GUV_4"
	GUV5 Category = "GUV_5"
	GUV6 Category = "GUV_6"
	GUV7 Category = "GUV_7"
	GUV8 Category = "GUV_8"

	AktivaA Category = "AKTIVA_A"
	AktivaB Category = "AKTIVA_B"
	AktivaC Category = "AKTIVA_C"

	PassivaA Category = "PASSIVA_A"
	PassivaB Category = "PASSIVA_B"
	PassivaC Category = "PASSIVA_C"
)

// ProfitAndLossLines lists the P&L lines in statement order.
var ProfitAndLossLines = []Category{GUV1, GUV2, GUV3, GUV4, GUV5, GUV6, GUV7, GUV8}

// AktivaGroups lists the asset-side groups in statement order.
var AktivaGroups = []Category{AktivaA, AktivaB, AktivaC}

// PassivaGroups lists the equity-and-liability groups in statement order.
var PassivaGroups = []Category{PassivaA, PassivaB, PassivaC}

var labels = map[Category]string{
	GUV1:     "Umsatzerlöse",
	GUV2:     "Sonstige betriebliche Erträge",
	GUV3:     "Materialaufwand",
	GUV4:     "Personalaufwand",
	GUV5:     "Abschreibungen",
	GUV6:     "Sonstige betriebliche Aufwendungen",
	GUV7:     "Zinsen und ähnliche Aufwendungen",
	GUV8:     "Steuern vom Einkommen und Ertrag",
	AktivaA:  "Anlagevermögen",
	AktivaB:  "Umlaufvermögen",
	AktivaC:  "Rechnungsabgrenzungsposten",
	PassivaA: "Eigenkapital",
	PassivaB: "Rückstellungen",
	PassivaC: "Verbindlichkeiten",
}

// Label returns the German statement caption of c.
func (c Category) Label() string {
	if l, ok := labels[c]; ok {
		return l
	}
	return string(c)
}

// Known reports whether c is a defined category.
func (c Category) Known() bool {
	_, ok := labels[c]
	return ok
}

// IsProfitAndLoss reports whether c is a P&L line.
func (c Category) IsProfitAndLoss() bool {
	for _, l := range ProfitAndLossLines {
		if c == l {
			return true
		}
	}
	return false
}

func isAktiva(c Category) bool  { return c == AktivaA || c == AktivaB || c == AktivaC }
func isPassiva(c Category) bool { return c == PassivaA || c == PassivaB || c == PassivaC }

// accepts reports whether accounts of type t may be mapped to c. Assets
// go to Aktiva, liabilities and equity to Passiva, revenue and expense
// to P&L lines.
func accepts(t model.AccountType, c Category) bool {
	switch t {
	case model.AccountTypeAsset:
		return isAktiva(c)
	case model.AccountTypeLiability, model.AccountTypeEquity:
		return isPassiva(c)
	case model.AccountTypeRevenue, model.AccountTypeExpense:
		return c.IsProfitAndLoss()
	}
	return false
}
