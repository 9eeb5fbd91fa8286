package statement

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/hauptbuch/internal/model"
)

// Rule maps the account codes From..To (inclusive) of one account type
// to a category.
type Rule struct {
	Type     model.AccountType `yaml:"type"`
	From     int               `yaml:"from"`
	To       int               `yaml:"to"`
	Category Category          `yaml:"category"`
}

// Matches reports whether the rule covers an account of type t with
// numeric code.
func (r Rule) Matches(t model.AccountType, code int) bool {
	return r.Type == t && code >= r.From && code <= r.To
}

// Table is an ordered code-range classification. The first matching
// rule wins; accounts without a match fall back to the default of their
// type.
type Table struct {
	Rules    []Rule                         `yaml:"rules"`
	Defaults map[model.AccountType]Category `yaml:"defaults"`
}

// DefaultTable returns the SKR03 classification.
func DefaultTable() *Table {
	r := func(t model.AccountType, from, to int, c Category) Rule {
		return Rule{Type: t, From: from, To: to, Category: c}
	}
	const (
		rev = model.AccountTypeRevenue
		exp = model.AccountTypeExpense
		ast = model.AccountTypeAsset
		lia = model.AccountTypeLiability
		eqt = model.AccountTypeEquity
	)
	return &Table{
		Rules: []Rule{
			r(rev, 8900, 8999, GUV2), // unentgeltliche Wertabgaben
			r(rev, 8000, 8899, GUV1),
			r(rev, 2600, 2799, GUV2),

			r(exp, 3000, 3999, GUV3),
			r(exp, 4100, 4199, GUV4),
			r(exp, 4820, 4899, GUV5),
			r(exp, 2100, 2199, GUV7),
			r(exp, 2200, 2299, GUV8),
			r(exp, 4320, 4320, GUV8),

			r(ast, 980, 989, AktivaC),
			r(ast, 0, 999, AktivaA),
			r(ast, 1000, 1599, AktivaB),

			r(eqt, 800, 899, PassivaA),
			r(eqt, 1800, 1899, PassivaA),

			r(lia, 950, 979, PassivaB),
			r(lia, 600, 799, PassivaC),
			r(lia, 990, 999, PassivaC),
			r(lia, 1600, 1799, PassivaC),
		},
		Defaults: map[model.AccountType]Category{
			rev: GUV2,
			exp: GUV6,
			ast: AktivaB,
			eqt: PassivaA,
			lia: PassivaC,
		},
	}
}

// LoadTable reads a YAML classification table and validates it.
func LoadTable(r io.Reader) (*Table, error) {
	var t Table
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("parsing classification table: %w", err)
	}
	for i, rule := range t.Rules {
		typ, err := model.ParseAccountType(string(rule.Type))
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		t.Rules[i].Type = typ
	}
	if len(t.Defaults) > 0 {
		defaults := make(map[model.AccountType]Category, len(t.Defaults))
		for k, v := range t.Defaults {
			typ, err := model.ParseAccountType(string(k))
			if err != nil {
				return nil, fmt.Errorf("defaults: %w", err)
			}
			defaults[typ] = v
		}
		t.Defaults = defaults
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks that every rule has a sane range and that every
// category fits the account type it is assigned to. A default is
// required for every account type.
func (t *Table) Validate() error {
	for i, rule := range t.Rules {
		if rule.From > rule.To {
			return fmt.Errorf("rule %d: range %d-%d is empty", i+1, rule.From, rule.To)
		}
		if !rule.Category.Known() {
			return fmt.Errorf("rule %d: unknown category %q", i+1, rule.Category)
		}
		if !accepts(rule.Type, rule.Category) {
			return fmt.Errorf("rule %d: %s accounts cannot map to %s", i+1, rule.Type, rule.Category)
		}
	}
	for _, typ := range model.AccountTypes {
		c, ok := t.Defaults[typ]
		if !ok {
			return fmt.Errorf("missing default category for %s", typ)
		}
		if !accepts(typ, c) {
			return fmt.Errorf("default for %s: cannot map to %s", typ, c)
		}
	}
	return nil
}

// Classify returns the category of acct. Accounts with a non-numeric
// code get the default of their type.
func (t *Table) Classify(acct model.Account) Category {
	if code, ok := numericCode(acct); ok {
		for _, rule := range t.Rules {
			if rule.Matches(acct.Type, code) {
				return rule.Category
			}
		}
	}
	return t.Defaults[acct.Type]
}

func numericCode(acct model.Account) (int, bool) {
	code := strings.TrimSpace(acct.Code)
	if code == "" {
		code = acct.ID
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return 0, false
	}
	return n, true
}
