package books

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cleared-dev/hauptbuch/internal/accounts"
	"github.com/cleared-dev/hauptbuch/internal/depreciation"
	"github.com/cleared-dev/hauptbuch/internal/invoice"
	"github.com/cleared-dev/hauptbuch/internal/ledger"
	"github.com/cleared-dev/hauptbuch/internal/model"
)

// Dir is a data directory:
//
//	accounts/chart-of-accounts.csv
//	journal/YYYY/MM/journal.csv
//	invoices/invoices.csv
//	invoices/settlements.csv
//	assets/assets.csv
//
// Missing invoice, settlement and asset files mean no records. Without
// settlements.csv, settlements are inferred from the journal; the first
// AppendSettlements carries those inferred records over into the file.
// Settlements whose payment booking was reversed do not count.
type Dir struct {
	root  string
	chart *accounts.Service
	store *ledger.Store
	log   *zap.Logger
}

// Open loads the chart of accounts of the data directory at root.
func Open(root string, logger *zap.Logger) (*Dir, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	chart, err := accounts.Load(root)
	if err != nil {
		return nil, err
	}
	return &Dir{
		root:  root,
		chart: chart,
		store: ledger.NewStore(root, chart, logger),
		log:   logger,
	}, nil
}

// Root returns the data directory.
func (d *Dir) Root() string { return d.root }

// Chart returns the chart-of-accounts lookup.
func (d *Dir) Chart() *accounts.Service { return d.chart }

// Store returns the journal store.
func (d *Dir) Store() *ledger.Store { return d.store }

// Accounts returns the chart of accounts.
func (d *Dir) Accounts() ([]model.Account, error) { return d.chart.All(), nil }

// Transactions returns the complete journal.
func (d *Dir) Transactions() ([]model.Transaction, error) { return d.store.ReadAll() }

// Invoices reads invoices/invoices.csv.
func (d *Dir) Invoices() ([]model.Invoice, error) {
	var out []model.Invoice
	err := d.read(invoice.InvoiceFile, func(r io.Reader) (err error) {
		out, err = invoice.ReadInvoices(r)
		return err
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return out, err
}

// Settlements reads invoices/settlements.csv, falling back to journal
// inference when the file does not exist.
func (d *Dir) Settlements() ([]model.Settlement, error) {
	txns, err := d.Transactions()
	if err != nil {
		return nil, err
	}
	recorded, ok, err := d.recordedSettlements()
	if err != nil {
		return nil, err
	}
	if !ok {
		return d.inferred(txns)
	}
	return invoice.Effective(recorded, txns), nil
}

// recordedSettlements reads settlements.csv as written, including
// settlements whose booking was reversed. ok is false when the file does
// not exist.
func (d *Dir) recordedSettlements() (out []model.Settlement, ok bool, err error) {
	err = d.read(invoice.SettlementFile, func(r io.Reader) (err error) {
		out, err = invoice.ReadSettlements(r)
		return err
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// SettlementIDs returns the IDs of every recorded settlement, reversed
// ones included.
func (d *Dir) SettlementIDs() (map[string]bool, error) {
	recorded, ok, err := d.recordedSettlements()
	if err != nil {
		return nil, err
	}
	if !ok {
		txns, err := d.Transactions()
		if err != nil {
			return nil, err
		}
		if recorded, err = d.inferred(txns); err != nil {
			return nil, err
		}
	}
	ids := make(map[string]bool, len(recorded))
	for _, s := range recorded {
		ids[s.ID] = true
	}
	return ids, nil
}

func (d *Dir) inferred(txns []model.Transaction) ([]model.Settlement, error) {
	invoices, err := d.Invoices()
	if err != nil {
		return nil, err
	}
	d.log.Debug("no settlements file, inferring from journal", zap.Int("invoices", len(invoices)))
	return inferSettlements(invoices, txns), nil
}

// Assets reads assets/assets.csv.
func (d *Dir) Assets() ([]model.Asset, error) {
	var out []model.Asset
	err := d.read(depreciation.AssetFile, func(r io.Reader) (err error) {
		out, err = depreciation.ReadAssets(r)
		return err
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return out, err
}

// AppendSettlements appends to invoices/settlements.csv. A new file gets
// a header and the settlements inferred from the journal so far, leaving
// out bookings of the appended settlements themselves.
func (d *Dir) AppendSettlements(settlements []model.Settlement) error {
	path := filepath.Join(d.root, invoice.SettlementFile)
	_, statErr := os.Stat(path)
	isNew := errors.Is(statErr, fs.ErrNotExist)

	records := settlements
	if isNew {
		txns, err := d.Transactions()
		if err != nil {
			return err
		}
		carried, err := d.inferred(withoutBookingsOf(txns, settlements))
		if err != nil {
			return err
		}
		if len(carried) > 0 {
			d.log.Info("carrying over inferred settlements", zap.Int("count", len(carried)))
		}
		records = append(carried, settlements...)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating invoices dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening settlements: %w", err)
	}
	defer f.Close()

	if isNew {
		err = invoice.WriteSettlements(f, records)
	} else {
		err = invoice.AppendSettlements(f, records)
	}
	if err != nil {
		return fmt.Errorf("writing settlements: %w", err)
	}
	d.log.Info("recorded settlements", zap.Int("count", len(settlements)))
	return nil
}

// withoutBookingsOf drops the transactions that book one of settlements,
// matched by settlement ID or by invoice and reference.
func withoutBookingsOf(txns []model.Transaction, settlements []model.Settlement) []model.Transaction {
	type key struct{ invoice, ref string }
	ids := make(map[string]bool, len(settlements))
	booked := make(map[key]bool, len(settlements))
	for _, s := range settlements {
		ids[s.ID] = true
		if s.Reference != "" {
			booked[key{s.InvoiceID, s.Reference}] = true
		}
	}
	out := make([]model.Transaction, 0, len(txns))
	for _, tx := range txns {
		if ids[tx.ID] || tx.Reference != "" && booked[key{tx.InvoiceID, tx.Reference}] {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// read opens a record file and hands it to parse. A missing file
// returns an error matching fs.ErrNotExist.
func (d *Dir) read(rel string, parse func(io.Reader) error) error {
	f, err := os.Open(filepath.Join(d.root, rel))
	if errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err != nil {
		return fmt.Errorf("opening %s: %w", rel, err)
	}
	defer f.Close()
	if err := parse(f); err != nil {
		return fmt.Errorf("reading %s: %w", rel, err)
	}
	return nil
}
