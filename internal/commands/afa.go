package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/hauptbuch/internal/auditlog"
	"github.com/cleared-dev/hauptbuch/internal/depreciation"
	"github.com/cleared-dev/hauptbuch/internal/id"
	"github.com/cleared-dev/hauptbuch/internal/report"
)

func newAfaCommand(opts *rootOptions) *cobra.Command {
	afaCmd := &cobra.Command{
		Use:   "afa",
		Short: "Depreciation of fixed assets",
	}
	afaCmd.AddCommand(newAfaListCommand(opts), newAfaPostCommand(opts))
	return afaCmd
}

func newAfaListCommand(opts *rootOptions) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the asset register (Anlagenspiegel)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			r, err := e.reporter()
			if err != nil {
				return err
			}
			reg, err := r.AssetRegister(year)
			if err != nil {
				return err
			}
			return report.RenderAssetRegister(cmd.OutOrStdout(), reg)
		},
	}

	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "register year")
	return cmd
}

func newAfaPostCommand(opts *rootOptions) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post the year-end depreciation of all active assets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			assets, err := e.books.Assets()
			if err != nil {
				return err
			}
			txns, err := e.books.Transactions()
			if err != nil {
				return err
			}
			if depreciation.AlreadyPosted(txns, year) {
				return fmt.Errorf("depreciation for %d is already posted (storno it first to repost)", year)
			}

			tx, err := depreciation.BatchPosting(assets, year, e.books.Chart(), e.cfg.Accounts.DepreciationExpense, "")
			if errors.Is(err, depreciation.ErrNothingToPost) {
				fmt.Fprintf(cmd.OutOrStdout(), "No depreciation for %d\n", year)
				return nil
			}
			if err != nil {
				return err
			}
			txID, err := e.books.Store().Post(tx, id.SeriesDepreciation)
			if err != nil {
				return err
			}
			debit, _ := tx.Totals()
			e.log.Info("posted depreciation", zap.Int("year", year), zap.String("id", txID), zap.String("amount", debit.StringFixed(2)))
			if err := e.record(auditlog.ActionDepreciation, txID, tx.Description); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", txID, report.FormatAmount(debit))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "fiscal year to depreciate")
	return cmd
}
