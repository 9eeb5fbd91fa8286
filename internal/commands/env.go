package commands

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cleared-dev/hauptbuch/internal/auditlog"
	"github.com/cleared-dev/hauptbuch/internal/books"
	"github.com/cleared-dev/hauptbuch/internal/config"
	"github.com/cleared-dev/hauptbuch/internal/gitops"
	"github.com/cleared-dev/hauptbuch/internal/ledger"
	"github.com/cleared-dev/hauptbuch/internal/model"
	"github.com/cleared-dev/hauptbuch/internal/report"
	"github.com/cleared-dev/hauptbuch/internal/statement"
)

// env is an opened data directory.
type env struct {
	root  string
	cfg   *config.Config
	books *books.Dir
	log   *zap.Logger
	audit *auditlog.Log
}

func openEnv(opts *rootOptions) (*env, error) {
	root, err := filepath.Abs(opts.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s is not a hauptbuch directory (run hauptbuch init)", root)
		}
		return nil, err
	}
	logger, err := newLogger(cfg.Log.Level, opts.verbose)
	if err != nil {
		return nil, err
	}
	dir, err := books.Open(root, logger)
	if err != nil {
		return nil, err
	}
	return &env{
		root:  root,
		cfg:   cfg,
		books: dir,
		log:   logger,
		audit: auditlog.New(root, opts.actor),
	}, nil
}

// reporter returns a report.Reporter configured from hauptbuch.yaml.
func (e *env) reporter() (*report.Reporter, error) {
	table := statement.DefaultTable()
	if path := e.cfg.Statement.RulesFile; path != "" {
		if !filepath.IsAbs(path) {
			path = filepath.Join(e.root, path)
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening statement rules: %w", err)
		}
		defer f.Close()
		if table, err = statement.LoadTable(f); err != nil {
			return nil, fmt.Errorf("loading statement rules %s: %w", path, err)
		}
	}
	return report.New(e.books, report.Options{
		Table:             table,
		Calendar:          e.cfg.Calendar(),
		VAT:               e.cfg.VATReturnConfig(),
		PaidTolerance:     e.cfg.PaidTolerance(),
		SubledgerPrefixes: []string{e.cfg.Accounts.ReceivablesPrefix, e.cfg.Accounts.PayablesPrefix},
	}), nil
}

// resolveAccount maps an account code or ID to the account ID.
func (e *env) resolveAccount(ref string) (string, error) {
	chart := e.books.Chart()
	if a, ok := chart.ByCode(ref); ok {
		return a.ID, nil
	}
	if chart.Exists(ref) {
		return ref, nil
	}
	return "", &ledger.MissingAccountError{Ref: ref}
}

// record writes the audit log entry of a ledger change and commits the
// data directory when auto_commit is on. Commit failures are logged, not
// returned: the change itself is already durable.
func (e *env) record(action auditlog.Action, txID, details string) error {
	if err := e.audit.Record(action, txID, details); err != nil {
		return fmt.Errorf("writing audit log: %w", err)
	}
	if !e.cfg.Git.AutoCommit {
		return nil
	}
	repo := gitops.Repo{Dir: e.root, AuthorName: e.cfg.Git.AuthorName, AuthorEmail: e.cfg.Git.AuthorEmail}
	if !repo.IsRepo() {
		e.log.Debug("auto_commit enabled but no git repository", zap.String("dir", e.root))
		return nil
	}
	msg := string(action) + ": " + details
	if txID != "" {
		msg = fmt.Sprintf("%s: %s %s", action, txID, details)
	}
	hash, err := repo.CommitAll(msg)
	if err != nil {
		e.log.Warn("git commit failed", zap.Error(err))
		return nil
	}
	if hash != "" {
		e.log.Debug("committed", zap.String("hash", hash))
	}
	return nil
}

func defaultActor() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "hauptbuch"
}

// parseDate parses YYYY-MM-DD; an empty value means today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return ledger.Day(time.Now()), nil
	}
	t, err := time.Parse(ledger.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// parseAmount parses a positive amount with a decimal point or comma.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be positive, got %s", s)
	}
	return d, nil
}

func parseKind(s string) (model.Kind, error) {
	k := model.Kind(strings.ToUpper(strings.TrimSpace(s)))
	switch k {
	case "", model.KindGeneral, model.KindInvoice, model.KindPayment, model.KindOpening, model.KindDepreciation:
		return k, nil
	}
	return "", fmt.Errorf("unknown kind %q", s)
}
