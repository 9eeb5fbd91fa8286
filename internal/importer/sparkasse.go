package importer

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	"github.com/cleared-dev/hauptbuch/internal/model"
)

// SparkasseParser parses German semicolon-separated bank exports with
// the columns Buchungstag, Verwendungszweck, Betrag and Waehrung. Column
// order is taken from the header, so full CSV-CAMT exports with extra
// columns are accepted. Exports that are not valid UTF-8 are read as
// Windows-1252, the encoding online banking uses for CSV downloads.
type SparkasseParser struct{}

var sparkasseDateFormats = []string{"02.01.2006", "02.01.06"}

// Format returns the parser name.
func (p *SparkasseParser) Format() string { return "sparkasse" }

// Detect reports whether header carries the Sparkasse columns.
func (p *SparkasseParser) Detect(header string) bool {
	h := strings.ToLower(header)
	return strings.Contains(h, ";") && strings.Contains(h, "buchungstag") && strings.Contains(h, "betrag")
}

type sparkasseColumns struct {
	date, purpose, amount, currency int
}

// Parse reads the export and returns its rows in file order.
func (p *SparkasseParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading sparkasse export: %w", err)
	}
	if !utf8.Valid(data) {
		if data, err = charmap.Windows1252.NewDecoder().Bytes(data); err != nil {
			return nil, fmt.Errorf("decoding Windows-1252: %w", err)
		}
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = ';'
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading sparkasse CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	cols, err := sparkasseHeader(records[0])
	if err != nil {
		return nil, err
	}

	var txns []model.BankTransaction
	occurrences := make(map[string]int)
	for i, rec := range records[1:] {
		txn, err := parseSparkasseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		// identical rows in one export are distinct bookings
		occurrences[txn.Reference]++
		if n := occurrences[txn.Reference]; n > 1 {
			txn.Reference = fmt.Sprintf("%s_%d", txn.Reference, n)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func sparkasseHeader(header []string) (sparkasseColumns, error) {
	cols := sparkasseColumns{date: -1, purpose: -1, amount: -1, currency: -1}
	for i, h := range header {
		switch strings.ToLower(strings.Trim(strings.TrimPrefix(h, "\ufeff"), "\" ")) {
		case "buchungstag":
			cols.date = i
		case "verwendungszweck":
			cols.purpose = i
		case "betrag":
			cols.amount = i
		case "waehrung", "währung":
			cols.currency = i
		}
	}
	if cols.date < 0 || cols.purpose < 0 || cols.amount < 0 {
		return cols, fmt.Errorf("sparkasse header lacks Buchungstag, Verwendungszweck or Betrag: %v", header)
	}
	return cols, nil
}

func parseSparkasseRow(rec []string, cols sparkasseColumns) (model.BankTransaction, error) {
	field := func(i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	date, err := parseGermanDate(field(cols.date))
	if err != nil {
		return model.BankTransaction{}, err
	}
	amount, err := ParseGermanAmount(field(cols.amount))
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing amount %q: %w", field(cols.amount), err)
	}
	currency := field(cols.currency)
	if currency == "" {
		currency = "EUR"
	}

	desc := field(cols.purpose)
	return model.BankTransaction{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Currency:    currency,
		Reference:   makeRef("spk", date, amount, desc),
	}, nil
}

func parseGermanDate(s string) (time.Time, error) {
	for _, layout := range sparkasseDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q: want dd.mm.yyyy", s)
}

// ParseGermanAmount parses amounts like "-1.234,56".
func ParseGermanAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	return decimal.NewFromString(s)
}

// makeRef creates a reference like spk_20250103_AR2025001_3f9c2a1b. The
// readable part is the date and the start of the purpose text; the
// suffix hashes date, amount and the full purpose.
func makeRef(prefix string, date time.Time, amount decimal.Decimal, desc string) string {
	alnum := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(alnum) > 10 {
		alnum = alnum[:10]
	}
	sum := sha256.Sum256([]byte(date.Format("20060102") + "|" + amount.StringFixed(2) + "|" + desc))
	return fmt.Sprintf("%s_%s_%s_%s", prefix, date.Format("20060102"), alnum, hex.EncodeToString(sum[:4]))
}
