package id

import (
	"fmt"
	"strconv"
	"strings"
)

// Series separates numbering ranges so that audits can tell bookings,
// reversals and generated postings apart.
type Series string

const (
	SeriesBooking      Series = "B"
	SeriesStorno       Series = "S"
	SeriesDepreciation Series = "A"
	SeriesSettlement   Series = "Z"
)

// FormatTransactionID returns an ID like "B-2025-01-001".
func FormatTransactionID(series Series, year, month, seq int) string {
	return fmt.Sprintf("%s-%04d-%02d-%03d", series, year, month, seq)
}

// FormatLineID returns a line ID like "B-2025-01-001/02" (1-based line).
func FormatLineID(txID string, line int) string {
	return fmt.Sprintf("%s/%02d", txID, line+1)
}

// TransactionOf strips the line suffix from a line ID.
// "B-2025-01-001/02" -> "B-2025-01-001"
func TransactionOf(lineID string) string {
	if i := strings.IndexByte(lineID, '/'); i >= 0 {
		return lineID[:i]
	}
	return lineID
}

// ParseTransactionID parses "B-2025-01-001" (optionally with a line
// suffix) into its series, year, month and sequence.
func ParseTransactionID(id string) (series Series, year, month, seq int, err error) {
	base := TransactionOf(id)

	parts := strings.Split(base, "-")
	if len(parts) != 4 || parts[0] == "" {
		return "", 0, 0, 0, fmt.Errorf("invalid transaction ID format: %q", id)
	}

	year, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("invalid year in transaction ID %q: %w", id, err)
	}

	month, err = strconv.Atoi(parts[2])
	if err != nil || month < 1 || month > 12 {
		return "", 0, 0, 0, fmt.Errorf("invalid month in transaction ID %q", id)
	}

	seq, err = strconv.Atoi(parts[3])
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("invalid sequence in transaction ID %q: %w", id, err)
	}

	return Series(parts[0]), year, month, seq, nil
}

// NextSeq returns the next free sequence number for series/year/month
// among existing IDs. Unparseable IDs are ignored.
func NextSeq(existing []string, series Series, year, month int) int {
	maxSeq := 0
	for _, e := range existing {
		s, y, m, seq, err := ParseTransactionID(e)
		if err != nil || s != series || y != year || m != month {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}
