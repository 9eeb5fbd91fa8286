package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cleared-dev/hauptbuch/internal/id"
	"github.com/cleared-dev/hauptbuch/internal/model"
)

// JournalDir is the journal directory relative to a data directory.
const JournalDir = "journal"

// Store is the append-only journal on disk, one CSV file per month:
// <root>/journal/YYYY/MM/journal.csv. Posted transactions are never
// rewritten; corrections are new Storno transactions.
type Store struct {
	root     string
	accounts AccountChecker
	log      *zap.Logger
	mu       sync.Mutex
}

// NewStore creates a journal Store below a data directory.
func NewStore(root string, accounts AccountChecker, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{root: root, accounts: accounts, log: logger}
}

// Post validates tx and appends it to the journal of its month. When
// tx.ID is empty the next ID of series is assigned. Returns the ID.
func (s *Store) Post(tx model.Transaction, series id.Series) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.post(tx, series)
}

func (s *Store) post(tx model.Transaction, series id.Series) (string, error) {
	if tx.Date.IsZero() {
		return "", ValidationError{Invariant: InvariantDate, TransactionID: tx.ID, Description: "missing date"}
	}
	tx.Date = Day(tx.Date)
	year, month := tx.Date.Year(), int(tx.Date.Month())

	existing, err := s.ReadMonth(year, month)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(existing))
	for i, e := range existing {
		ids[i] = e.ID
	}

	if tx.ID == "" {
		tx.ID = id.FormatTransactionID(series, year, month, id.NextSeq(ids, series, year, month))
	} else {
		_, y, m, _, err := id.ParseTransactionID(tx.ID)
		if err != nil {
			return "", ValidationError{Invariant: InvariantUniqueID, TransactionID: tx.ID, Description: err.Error()}
		}
		if y != year || m != month {
			return "", ValidationError{Invariant: InvariantDate, TransactionID: tx.ID, Description: "ID does not match booking month " + tx.Date.Format("2006-01")}
		}
		for _, e := range ids {
			if e == tx.ID {
				return "", ValidationError{Invariant: InvariantUniqueID, TransactionID: tx.ID, Description: "duplicate transaction ID"}
			}
		}
	}

	if err := ValidateTransaction(tx, s.accounts); err != nil {
		s.log.Warn("rejected transaction", zap.String("id", tx.ID), zap.Error(err))
		return "", fmt.Errorf("validation failed: %w", err)
	}

	if err := s.appendToMonth(year, month, tx); err != nil {
		return "", err
	}

	debit, _ := tx.Totals()
	s.log.Info("posted transaction",
		zap.String("id", tx.ID),
		zap.String("date", tx.Date.Format(DateFormat)),
		zap.String("kind", string(tx.Kind)),
		zap.Int("lines", len(tx.Lines)),
		zap.String("amount", debit.StringFixed(2)),
		zap.String("reversal_of", tx.ReversalOf),
	)
	return tx.ID, nil
}

func (s *Store) appendToMonth(year, month int, tx model.Transaction) error {
	path := s.monthPath(year, month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating journal dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	if isNew {
		if err := WriteTransactions(f, []model.Transaction{tx}); err != nil {
			return fmt.Errorf("writing journal: %w", err)
		}
		return nil
	}
	if err := AppendTransactions(f, []model.Transaction{tx}); err != nil {
		return fmt.Errorf("appending to journal: %w", err)
	}
	return nil
}

// Reverse posts the Storno of transaction txID dated date and returns it.
func (s *Store) Reverse(txID string, date time.Time, reason model.ReversalReason) (model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.ReadAll()
	if err != nil {
		return model.Transaction{}, err
	}
	var orig *model.Transaction
	for i := range all {
		if all[i].ID == txID {
			orig = &all[i]
			break
		}
	}
	if orig == nil {
		return model.Transaction{}, fmt.Errorf("transaction %s: %w", txID, ErrNotFound)
	}

	reversal, _, err := Reverse(*orig, "", date, reason)
	if err != nil {
		return model.Transaction{}, err
	}
	newID, err := s.post(reversal, id.SeriesStorno)
	if err != nil {
		return model.Transaction{}, err
	}
	reversal.ID = newID
	reversal.Date = Day(reversal.Date)
	return reversal, nil
}

// ReadMonth reads all transactions for a given year/month.
func (s *Store) ReadMonth(year, month int) ([]model.Transaction, error) {
	path := s.monthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", path, err)
	}
	return txns, nil
}

// ReadAll reads the complete journal in chronological file order and
// flags transactions that have been reversed.
func (s *Store) ReadAll() ([]model.Transaction, error) {
	years, err := numericDirs(filepath.Join(s.root, JournalDir))
	if err != nil {
		return nil, err
	}

	var all []model.Transaction
	for _, y := range years {
		months, err := numericDirs(filepath.Join(s.root, JournalDir, fmt.Sprintf("%04d", y)))
		if err != nil {
			return nil, err
		}
		for _, m := range months {
			txns, err := s.ReadMonth(y, m)
			if err != nil {
				return nil, err
			}
			all = append(all, txns...)
		}
	}
	return MarkReversed(all), nil
}

// numericDirs lists the numerically named subdirectories of dir in ascending order.
func numericDirs(dir string) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var nums []int
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		n, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums, nil
}

func (s *Store) monthPath(year, month int) string {
	return filepath.Join(s.root, JournalDir, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "journal.csv")
}
