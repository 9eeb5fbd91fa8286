package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/hauptbuch/internal/auditlog"
	"github.com/cleared-dev/hauptbuch/internal/id"
	"github.com/cleared-dev/hauptbuch/internal/importer"
	"github.com/cleared-dev/hauptbuch/internal/model"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	var format string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Match bank exports in import/ against open invoices",
		Long: "Reads every CSV file in import/, records a settlement and a payment booking\n" +
			"for each row that names an invoice number, and moves the file to import/processed/.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			return runImport(cmd, e, format, dryRun)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "bank format (default: detect from header)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show matches without posting")
	return cmd
}

func runImport(cmd *cobra.Command, e *env, format string, dryRun bool) error {
	registry := importer.DefaultRegistry()
	var forced importer.Parser
	if format != "" {
		if forced = registry.Get(format); forced == nil {
			return fmt.Errorf("unknown format %q (known: %v)", format, registry.Formats())
		}
	}

	files, err := importer.Scan(e.root)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(files) == 0 {
		fmt.Fprintln(out, "Nothing to import")
		return nil
	}

	invoices, err := e.books.Invoices()
	if err != nil {
		return err
	}
	byID := make(map[string]model.Invoice, len(invoices))
	for _, inv := range invoices {
		byID[inv.ID] = inv
	}
	seen, err := e.books.SettlementIDs()
	if err != nil {
		return err
	}
	txns, err := e.books.Transactions()
	if err != nil {
		return err
	}
	// booked maps bank references to their payment booking. A reversed
	// booking keeps its row imported.
	booked := make(map[string]string)
	for _, tx := range txns {
		if tx.InvoiceID == "" || tx.Reference == "" || tx.IsReversal() {
			continue
		}
		if tx.IsReversed {
			seen[tx.Reference] = true
			continue
		}
		booked[tx.Reference] = tx.ID
	}

	for _, file := range files {
		data, err := os.ReadFile(file.Path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", file.Name, err)
		}
		parser := forced
		if parser == nil {
			parser = registry.Detect(data)
		}
		if parser == nil {
			e.log.Warn("unrecognized bank format, skipping", zap.String("file", file.Name))
			continue
		}
		rows, err := parser.Parse(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("parsing %s: %w", file.Name, err)
		}

		var fresh []model.BankTransaction
		for _, bt := range rows {
			if seen[bt.Reference] {
				e.log.Debug("already imported", zap.String("ref", bt.Reference))
				continue
			}
			fresh = append(fresh, bt)
		}
		settlements, unmatched := importer.MatchSettlements(fresh, invoices)
		fmt.Fprintf(out, "%s (%s): %d matched, %d unmatched\n", file.Name, parser.Format(), len(settlements), len(unmatched))
		for _, s := range settlements {
			fmt.Fprintf(out, "  %s -> %s %s\n", s.Date.Format("02.01.2006"), byID[s.InvoiceID].Number, s.Amount.StringFixed(2))
		}
		if dryRun {
			continue
		}

		for _, s := range settlements {
			if txID, ok := booked[s.Reference]; ok {
				e.log.Warn("payment already booked, recording settlement only",
					zap.String("ref", s.Reference), zap.String("tx", txID))
			} else {
				tx, err := paymentBooking(e, s, byID[s.InvoiceID])
				if err != nil {
					return err
				}
				txID, err := e.books.Store().Post(tx, id.SeriesSettlement)
				if err != nil {
					return fmt.Errorf("posting payment %s: %w", s.Reference, err)
				}
				booked[s.Reference] = txID
			}
			if err := e.books.AppendSettlements([]model.Settlement{s}); err != nil {
				return err
			}
			seen[s.ID] = true
		}
		if err := importer.MarkProcessed(e.root, file.Name); err != nil {
			return err
		}
		e.log.Info("imported bank file",
			zap.String("file", file.Name),
			zap.Int("matched", len(settlements)),
			zap.Int("unmatched", len(unmatched)),
		)
		details := fmt.Sprintf("%s: %d settlements", file.Name, len(settlements))
		if err := e.record(auditlog.ActionImport, "", details); err != nil {
			return err
		}
	}
	return nil
}

// paymentBooking books a settlement against the receivable account.
// Outgoing refunds of credit notes book the reverse sides.
func paymentBooking(e *env, s model.Settlement, inv model.Invoice) (model.Transaction, error) {
	bank, err := e.resolveAccount(e.cfg.Accounts.Bank)
	if err != nil {
		return model.Transaction{}, err
	}
	receivable, err := e.resolveAccount(e.cfg.Accounts.Receivable)
	if err != nil {
		return model.Transaction{}, err
	}
	debit, credit := bank, receivable
	if s.Amount.IsNegative() {
		debit, credit = receivable, bank
	}
	amount := s.Amount.Abs()
	return model.Transaction{
		Date:        s.Date,
		Kind:        model.KindPayment,
		Description: "Zahlung " + inv.Number,
		Reference:   s.Reference,
		ContactID:   inv.ContactID,
		InvoiceID:   inv.ID,
		Lines: []model.JournalLine{
			{AccountID: debit, Debit: amount, Credit: decimal.Zero},
			{AccountID: credit, Debit: decimal.Zero, Credit: amount},
		},
	}, nil
}
