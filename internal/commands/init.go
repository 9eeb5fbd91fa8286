package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/hauptbuch/internal/accounts"
	"github.com/cleared-dev/hauptbuch/internal/auditlog"
	"github.com/cleared-dev/hauptbuch/internal/config"
	"github.com/cleared-dev/hauptbuch/internal/gitops"
)

func newInitCommand(opts *rootOptions) *cobra.Command {
	var name string
	var legalForm string
	var yearStart string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new data directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.dir
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfg := config.Default(name, legalForm)
			cfg.Fiscal.YearStart = yearStart
			cfg.Git.AutoCommit = !noGit
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runInit(cmd, absDir, cfg, opts.actor)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "company name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&legalForm, "legal-form", "einzelunternehmen", "legal form: gmbh or einzelunternehmen")
	cmd.Flags().StringVar(&yearStart, "fiscal-year-start", "01-01", "first day of the fiscal year as MM-DD")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "do not version the directory with git")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, cfg *config.Config, actor string) error {
	if _, err := os.Stat(filepath.Join(dir, config.FileName)); err == nil {
		return fmt.Errorf("%s already contains %s", dir, config.FileName)
	}

	// Create directory structure.
	dirs := []string{
		"accounts",
		"journal",
		"invoices",
		"assets",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	chart := accounts.NewService(accounts.DefaultChart(cfg.Company.LegalForm))
	if err := chart.Save(dir); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	// Bank exports may contain personal data and stay out of history.
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("import/*.csv\nimport/processed/\n"), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if err := auditlog.New(dir, actor).Record(auditlog.ActionInit, "", cfg.Company.Name); err != nil {
		return fmt.Errorf("writing audit log: %w", err)
	}

	out := cmd.OutOrStdout()
	if !cfg.Git.AutoCommit {
		fmt.Fprintf(out, "Initialized %s at %s\n", cfg.Company.Name, dir)
		return nil
	}

	repo := gitops.Repo{Dir: dir, AuthorName: cfg.Git.AuthorName, AuthorEmail: cfg.Git.AuthorEmail}
	if err := repo.Init(); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	hash, err := repo.CommitAll("init: Initialize " + cfg.Company.Name)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized %s at %s (%s)\n", cfg.Company.Name, dir, hash)
	return nil
}
