package accounts

import "github.com/cleared-dev/hauptbuch/internal/model"

// DefaultChart returns the seed chart of accounts for a legal form.
// Account codes follow SKR03; the statement classification table relies
// on these ranges.
func DefaultChart(legalForm string) []model.Account {
	switch legalForm {
	case "gmbh":
		return append(baseChart(), corporateAccounts()...)
	default:
		return append(baseChart(), soleProprietorAccounts()...)
	}
}

func acct(code, name string, typ model.AccountType) model.Account {
	return model.Account{ID: code, Code: code, Name: name, Type: typ}
}

func baseChart() []model.Account {
	return []model.Account{
		acct("0135", "EDV-Software", model.AccountTypeAsset),
		acct("0420", "Technische Anlagen und Maschinen", model.AccountTypeAsset),
		acct("0480", "Geschäftsausstattung", model.AccountTypeAsset),
		acct("0490", "Sonstige Betriebs- und Geschäftsausstattung", model.AccountTypeAsset),
		acct("0980", "Aktive Rechnungsabgrenzung", model.AccountTypeAsset),
		acct("0650", "Verbindlichkeiten gegenüber Kreditinstituten", model.AccountTypeLiability),
		acct("0970", "Sonstige Rückstellungen", model.AccountTypeLiability),
		acct("1000", "Kasse", model.AccountTypeAsset),
		acct("1200", "Bank", model.AccountTypeAsset),
		acct("1400", "Forderungen aus Lieferungen und Leistungen", model.AccountTypeAsset),
		acct("1576", "Abziehbare Vorsteuer 19 %", model.AccountTypeAsset),
		acct("1571", "Abziehbare Vorsteuer 7 %", model.AccountTypeAsset),
		acct("1600", "Verbindlichkeiten aus Lieferungen und Leistungen", model.AccountTypeLiability),
		acct("1776", "Umsatzsteuer 19 %", model.AccountTypeLiability),
		acct("1771", "Umsatzsteuer 7 %", model.AccountTypeLiability),
		acct("1780", "Umsatzsteuer-Vorauszahlungen", model.AccountTypeLiability),
		acct("2100", "Zinsen und ähnliche Aufwendungen", model.AccountTypeExpense),
		acct("2650", "Sonstige Zinsen und ähnliche Erträge", model.AccountTypeRevenue),
		acct("2700", "Sonstige Erträge", model.AccountTypeRevenue),
		acct("3400", "Wareneingang 19 % Vorsteuer", model.AccountTypeExpense),
		acct("4120", "Gehälter", model.AccountTypeExpense),
		acct("4130", "Gesetzliche soziale Aufwendungen", model.AccountTypeExpense),
		acct("4210", "Miete", model.AccountTypeExpense),
		acct("4320", "Gewerbesteuer", model.AccountTypeExpense),
		acct("4530", "Laufende Kfz-Betriebskosten", model.AccountTypeExpense),
		acct("4806", "Wartungskosten für Hard- und Software", model.AccountTypeExpense),
		acct("4830", "Abschreibungen auf Sachanlagen", model.AccountTypeExpense),
		acct("4822", "Abschreibungen auf immaterielle Vermögensgegenstände", model.AccountTypeExpense),
		acct("4900", "Sonstige betriebliche Aufwendungen", model.AccountTypeExpense),
		acct("4930", "Bürobedarf", model.AccountTypeExpense),
		acct("4970", "Nebenkosten des Geldverkehrs", model.AccountTypeExpense),
		acct("8300", "Erlöse 7 % USt", model.AccountTypeRevenue),
		acct("8400", "Erlöse 19 % USt", model.AccountTypeRevenue),
		acct("8120", "Steuerfreie Umsätze", model.AccountTypeRevenue),
	}
}

func soleProprietorAccounts() []model.Account {
	return []model.Account{
		acct("0880", "Variables Kapital", model.AccountTypeEquity),
		acct("1800", "Privatentnahmen allgemein", model.AccountTypeEquity),
		acct("1890", "Privateinlagen", model.AccountTypeEquity),
	}
}

func corporateAccounts() []model.Account {
	return []model.Account{
		acct("0800", "Gezeichnetes Kapital", model.AccountTypeEquity),
		acct("0840", "Kapitalrücklage", model.AccountTypeEquity),
		acct("0860", "Gewinnvortrag vor Verwendung", model.AccountTypeEquity),
		acct("2200", "Körperschaftsteuer", model.AccountTypeExpense),
	}
}
