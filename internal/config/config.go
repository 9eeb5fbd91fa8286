package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/hauptbuch/internal/ledger"
	"github.com/cleared-dev/hauptbuch/internal/statement"
)

// FileName is the configuration file at the root of a data directory.
const FileName = "hauptbuch.yaml"

// Config represents the top-level hauptbuch.yaml configuration.
type Config struct {
	Company        CompanyConfig        `yaml:"company"`
	Fiscal         FiscalConfig         `yaml:"fiscal"`
	Accounts       AccountsConfig       `yaml:"accounts"`
	VAT            VATConfig            `yaml:"vat"`
	Reconciliation ReconciliationConfig `yaml:"reconciliation"`
	Statement      StatementConfig      `yaml:"statement"`
	Git            GitConfig            `yaml:"git"`
	Log            LogConfig            `yaml:"log"`
}

// CompanyConfig identifies the business entity.
type CompanyConfig struct {
	Name      string `yaml:"name"`
	LegalForm string `yaml:"legal_form"` // "gmbh" or "einzelunternehmen"
}

// FiscalConfig defines the fiscal year boundaries.
type FiscalConfig struct {
	YearStart string `yaml:"year_start"` // "MM-DD", day must be 01
}

// AccountsConfig names the accounts that postings and subledgers use.
type AccountsConfig struct {
	DepreciationExpense string `yaml:"depreciation_expense"`
	ReceivablesPrefix   string `yaml:"receivables_prefix"`
	PayablesPrefix      string `yaml:"payables_prefix"`

	// Counter accounts of imported bank payments.
	Bank       string `yaml:"bank"`
	Receivable string `yaml:"receivable"`
	Payable    string `yaml:"payable"`
}

// VATConfig selects the VAT return accounts by code prefix.
type VATConfig struct {
	StandardPrefix string `yaml:"standard_prefix"`
	StandardRate   string `yaml:"standard_rate"`
	ReducedPrefix  string `yaml:"reduced_prefix"`
	ReducedRate    string `yaml:"reduced_rate"`
	InputTaxPrefix string `yaml:"input_tax_prefix"`
}

// ReconciliationConfig controls invoice status derivation.
type ReconciliationConfig struct {
	PaidTolerance string `yaml:"paid_tolerance"`
}

// StatementConfig points to an alternative classification table.
type StatementConfig struct {
	RulesFile string `yaml:"rules_file,omitempty"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// LogConfig controls the CLI logger.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a hauptbuch.yaml file from disk. Keys missing from the
// file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("", "")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with SKR03 defaults for a new project.
func Default(companyName, legalForm string) *Config {
	return &Config{
		Company: CompanyConfig{
			Name:      companyName,
			LegalForm: legalForm,
		},
		Fiscal: FiscalConfig{
			YearStart: "01-01",
		},
		Accounts: AccountsConfig{
			DepreciationExpense: "4830",
			ReceivablesPrefix:   "14",
			PayablesPrefix:      "16",
			Bank:                "1200",
			Receivable:          "1400",
			Payable:             "1600",
		},
		VAT: VATConfig{
			StandardPrefix: "84",
			StandardRate:   "0.19",
			ReducedPrefix:  "83",
			ReducedRate:    "0.07",
			InputTaxPrefix: "157",
		},
		Reconciliation: ReconciliationConfig{
			PaidTolerance: "0.05",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Hauptbuch",
			AuthorEmail: "hauptbuch@localhost",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate rejects malformed values.
func (c *Config) Validate() error {
	if _, err := parseYearStart(c.Fiscal.YearStart); err != nil {
		return err
	}
	if c.Accounts.DepreciationExpense == "" {
		return fmt.Errorf("accounts.depreciation_expense is required")
	}
	for key, prefix := range map[string]string{
		"accounts.receivables_prefix": c.Accounts.ReceivablesPrefix,
		"accounts.payables_prefix":    c.Accounts.PayablesPrefix,
		"vat.standard_prefix":         c.VAT.StandardPrefix,
		"vat.reduced_prefix":          c.VAT.ReducedPrefix,
		"vat.input_tax_prefix":        c.VAT.InputTaxPrefix,
		"accounts.bank":               c.Accounts.Bank,
		"accounts.receivable":         c.Accounts.Receivable,
		"accounts.payable":            c.Accounts.Payable,
	} {
		if _, err := strconv.Atoi(prefix); err != nil {
			return fmt.Errorf("%s: %q is not a numeric code prefix", key, prefix)
		}
	}
	for key, rate := range map[string]string{
		"vat.standard_rate": c.VAT.StandardRate,
		"vat.reduced_rate":  c.VAT.ReducedRate,
	} {
		r, err := decimal.NewFromString(rate)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if r.IsNegative() || r.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return fmt.Errorf("%s: %s is not a rate between 0 and 1", key, rate)
		}
	}
	tol, err := decimal.NewFromString(c.Reconciliation.PaidTolerance)
	if err != nil {
		return fmt.Errorf("reconciliation.paid_tolerance: %w", err)
	}
	if tol.IsNegative() {
		return fmt.Errorf("reconciliation.paid_tolerance must not be negative")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	return nil
}

// Calendar returns the fiscal calendar. Invalid values fall back to the
// calendar year.
func (c *Config) Calendar() ledger.Calendar {
	m, err := parseYearStart(c.Fiscal.YearStart)
	if err != nil {
		return ledger.CalendarYear
	}
	return ledger.Calendar{StartMonth: m}
}

// VATReturnConfig returns the VAT settings for statement.BuildVATReturn.
func (c *Config) VATReturnConfig() statement.VATConfig {
	def := statement.DefaultVATConfig()
	return statement.VATConfig{
		StandardPrefix: c.VAT.StandardPrefix,
		StandardRate:   parseOr(c.VAT.StandardRate, def.StandardRate),
		ReducedPrefix:  c.VAT.ReducedPrefix,
		ReducedRate:    parseOr(c.VAT.ReducedRate, def.ReducedRate),
		InputTaxPrefix: c.VAT.InputTaxPrefix,
	}
}

// PaidTolerance returns the reconciliation tolerance.
func (c *Config) PaidTolerance() decimal.Decimal {
	return parseOr(c.Reconciliation.PaidTolerance, decimal.New(5, -2))
}

func parseYearStart(s string) (time.Month, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("fiscal.year_start: %q is not MM-DD", s)
	}
	m, err := strconv.Atoi(parts[0])
	if err != nil || m < 1 || m > 12 {
		return 0, fmt.Errorf("fiscal.year_start: invalid month in %q", s)
	}
	if parts[1] != "01" {
		return 0, fmt.Errorf("fiscal.year_start: fiscal years start on the first of a month, got %q", s)
	}
	return time.Month(m), nil
}

func parseOr(s string, fallback decimal.Decimal) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fallback
	}
	return d
}
