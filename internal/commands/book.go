package commands

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/hauptbuch/internal/auditlog"
	"github.com/cleared-dev/hauptbuch/internal/id"
	"github.com/cleared-dev/hauptbuch/internal/model"
)

type bookFlags struct {
	date        string
	debit       string
	credit      string
	amount      string
	description string
	reference   string
	contact     string
	invoice     string
	kind        string
}

func newBookCommand(opts *rootOptions) *cobra.Command {
	var f bookFlags

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Post a two-line booking (Soll an Haben)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			tx, err := f.transaction(e)
			if err != nil {
				return err
			}
			paid, isPayment, err := settledInvoice(e, tx)
			if err != nil {
				return err
			}
			txID, err := e.books.Store().Post(tx, id.SeriesBooking)
			if err != nil {
				return err
			}
			if isPayment {
				if err := e.books.AppendSettlements([]model.Settlement{paymentSettlement(txID, tx, paid)}); err != nil {
					return err
				}
			}
			if err := e.record(auditlog.ActionPost, txID, tx.Description); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), txID)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.date, "date", "", "booking date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&f.debit, "debit", "", "debit account code (required)")
	cmd.Flags().StringVar(&f.credit, "credit", "", "credit account code (required)")
	cmd.Flags().StringVar(&f.amount, "amount", "", "amount (required)")
	cmd.Flags().StringVarP(&f.description, "description", "m", "", "booking text (required)")
	cmd.Flags().StringVar(&f.reference, "ref", "", "document reference")
	cmd.Flags().StringVar(&f.contact, "contact", "", "counterparty ID")
	cmd.Flags().StringVar(&f.invoice, "invoice", "", "linked invoice ID")
	cmd.Flags().StringVar(&f.kind, "kind", "", "INVOICE, PAYMENT, OPENING, DEPRECIATION or GENERAL")
	for _, name := range []string{"debit", "credit", "amount", "description"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (f bookFlags) transaction(e *env) (model.Transaction, error) {
	date, err := parseDate(f.date)
	if err != nil {
		return model.Transaction{}, err
	}
	amount, err := parseAmount(f.amount)
	if err != nil {
		return model.Transaction{}, err
	}
	kind, err := parseKind(f.kind)
	if err != nil {
		return model.Transaction{}, err
	}
	debit, err := e.resolveAccount(f.debit)
	if err != nil {
		return model.Transaction{}, err
	}
	credit, err := e.resolveAccount(f.credit)
	if err != nil {
		return model.Transaction{}, err
	}
	return model.Transaction{
		Date:        date,
		Kind:        kind,
		Description: strings.TrimSpace(f.description),
		Reference:   f.reference,
		ContactID:   f.contact,
		InvoiceID:   f.invoice,
		Lines: []model.JournalLine{
			{AccountID: debit, Debit: amount, Credit: decimal.Zero},
			{AccountID: credit, Debit: decimal.Zero, Credit: amount},
		},
	}, nil
}

// settledInvoice returns the invoice a PAYMENT booking settles. Other
// bookings report false.
func settledInvoice(e *env, tx model.Transaction) (model.Invoice, bool, error) {
	if tx.Kind != model.KindPayment || tx.InvoiceID == "" {
		return model.Invoice{}, false, nil
	}
	invoices, err := e.books.Invoices()
	if err != nil {
		return model.Invoice{}, false, err
	}
	for _, inv := range invoices {
		if inv.ID == tx.InvoiceID {
			return inv, true, nil
		}
	}
	return model.Invoice{}, false, fmt.Errorf("unknown invoice %q", tx.InvoiceID)
}

// paymentSettlement records a booked payment against inv. Refunds of
// credit notes settle a negative amount.
func paymentSettlement(txID string, tx model.Transaction, inv model.Invoice) model.Settlement {
	amount, _ := tx.Totals()
	if inv.IsCreditNote() {
		amount = amount.Neg()
	}
	return model.Settlement{
		ID:        txID,
		InvoiceID: inv.ID,
		Date:      tx.Date,
		Amount:    amount,
		Reference: tx.Reference,
	}
}

func newStornoCommand(opts *rootOptions) *cobra.Command {
	var date string
	var reason string

	cmd := &cobra.Command{
		Use:   "storno <transaction-id>",
		Short: "Reverse a posted transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			on, err := parseDate(date)
			if err != nil {
				return err
			}
			code := model.ReversalReason(strings.ToUpper(reason))
			switch code {
			case model.ReasonError, model.ReasonCancellation, model.ReasonDuplicate, model.ReasonOther:
			default:
				return fmt.Errorf("unknown reason %q (ERROR, CANCELLATION, DUPLICATE, OTHER)", reason)
			}

			rev, err := e.books.Store().Reverse(args[0], on, code)
			if err != nil {
				return err
			}
			if err := e.record(auditlog.ActionReverse, rev.ID, fmt.Sprintf("reverses %s (%s)", args[0], code)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rev.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "reversal date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&reason, "reason", string(model.ReasonError), "reason code")
	return cmd
}
