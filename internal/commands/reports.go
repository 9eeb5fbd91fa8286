package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/hauptbuch/internal/ledger"
	"github.com/cleared-dev/hauptbuch/internal/report"
)

// reportCommand builds a read-only command that renders one report as
// of --as-of.
func reportCommand(opts *rootOptions, use, short string, args cobra.PositionalArgs,
	run func(cmd *cobra.Command, r *report.Reporter, asOf time.Time, args []string) error,
) *cobra.Command {
	var asOf string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			day, err := parseDate(asOf)
			if err != nil {
				return err
			}
			r, err := e.reporter()
			if err != nil {
				return err
			}
			return run(cmd, r, day, args)
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "report date YYYY-MM-DD (default today)")
	return cmd
}

func newBalanceCommand(opts *rootOptions) *cobra.Command {
	return reportCommand(opts, "balance <account>", "Show the balance of one account", cobra.ExactArgs(1),
		func(cmd *cobra.Command, r *report.Reporter, asOf time.Time, args []string) error {
			row, err := r.AccountBalance(args[0], asOf)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", row.Account.Code, row.Account.Name, report.FormatAmount(row.EndingBalance))
			return nil
		})
}

func newSusaCommand(opts *rootOptions) *cobra.Command {
	return reportCommand(opts, "susa", "Print the trial balance (Summen- und Saldenliste)", cobra.NoArgs,
		func(cmd *cobra.Command, r *report.Reporter, asOf time.Time, _ []string) error {
			tb, err := r.TrialBalance(asOf)
			if err != nil {
				return err
			}
			return report.RenderTrialBalance(cmd.OutOrStdout(), tb)
		})
}

func newContactCommand(opts *rootOptions) *cobra.Command {
	return reportCommand(opts, "contact [contact-id]", "Print debtor and creditor balances", cobra.MaximumNArgs(1),
		func(cmd *cobra.Command, r *report.Reporter, asOf time.Time, args []string) error {
			var rows []ledger.ContactResult
			if len(args) == 1 {
				one, err := r.ContactBalance(args[0], asOf)
				if err != nil {
					return err
				}
				rows = append(rows, one)
			} else {
				all, err := r.ContactBalances(asOf)
				if err != nil {
					return err
				}
				rows = all
			}
			return report.RenderContacts(cmd.OutOrStdout(), rows)
		})
}

func newGuvCommand(opts *rootOptions) *cobra.Command {
	return reportCommand(opts, "guv", "Print the profit and loss statement (GuV)", cobra.NoArgs,
		func(cmd *cobra.Command, r *report.Reporter, asOf time.Time, _ []string) error {
			pl, err := r.ProfitAndLoss(asOf)
			if err != nil {
				return err
			}
			return report.RenderProfitAndLoss(cmd.OutOrStdout(), pl)
		})
}

func newBilanzCommand(opts *rootOptions) *cobra.Command {
	return reportCommand(opts, "bilanz", "Print the balance sheet", cobra.NoArgs,
		func(cmd *cobra.Command, r *report.Reporter, asOf time.Time, _ []string) error {
			bs, err := r.BalanceSheet(asOf)
			if err != nil {
				return err
			}
			return report.RenderBalanceSheet(cmd.OutOrStdout(), bs)
		})
}

func newInvoicesCommand(opts *rootOptions) *cobra.Command {
	var open bool
	cmd := reportCommand(opts, "invoices", "Print invoice payment status", cobra.NoArgs,
		func(cmd *cobra.Command, r *report.Reporter, today time.Time, _ []string) error {
			fetch := r.Invoices
			if open {
				fetch = r.OpenItems
			}
			results, err := fetch(today)
			if err != nil {
				return err
			}
			return report.RenderInvoices(cmd.OutOrStdout(), results)
		})
	cmd.Flags().BoolVar(&open, "open", false, "only unpaid invoices, by due date")
	return cmd
}

func newUstvaCommand(opts *rootOptions) *cobra.Command {
	var month, from, to string

	cmd := &cobra.Command{
		Use:   "ustva",
		Short: "Print the VAT return (Umsatzsteuer-Voranmeldung)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := vatPeriod(month, from, to)
			if err != nil {
				return err
			}
			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			r, err := e.reporter()
			if err != nil {
				return err
			}
			ret, err := r.VAT(start, end)
			if err != nil {
				return err
			}
			return report.RenderVAT(cmd.OutOrStdout(), ret)
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "period as YYYY-MM")
	cmd.Flags().StringVar(&from, "from", "", "first day YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day YYYY-MM-DD")
	cmd.MarkFlagsMutuallyExclusive("month", "from")
	cmd.MarkFlagsRequiredTogether("from", "to")
	return cmd
}

// vatPeriod resolves the return period. Without flags it is the previous
// calendar month.
func vatPeriod(month, from, to string) (time.Time, time.Time, error) {
	if from != "" {
		start, err := parseDate(from)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end, err := parseDate(to)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if end.Before(start) {
			return time.Time{}, time.Time{}, fmt.Errorf("--to %s is before --from %s", to, from)
		}
		return start, end, nil
	}

	var start time.Time
	if month == "" {
		now := time.Now()
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	} else {
		t, err := time.Parse("2006-01", month)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q (want YYYY-MM)", month)
		}
		start = t
	}
	return start, start.AddDate(0, 1, -1), nil
}
