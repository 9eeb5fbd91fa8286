package accounts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/hauptbuch/internal/model"
)

// ChartFile is the chart-of-accounts path relative to a data directory.
const ChartFile = "accounts/chart-of-accounts.csv"

// Service provides in-memory lookup over the chart of accounts.
type Service struct {
	accounts []model.Account
	byID     map[string]model.Account
	byCode   map[string]model.Account
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	byID := make(map[string]model.Account, len(accounts))
	byCode := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
		if a.Code != "" {
			byCode[a.Code] = a
		}
	}
	return &Service{accounts: accounts, byID: byID, byCode: byCode}
}

// Load reads the chart of accounts from a data directory and returns a Service.
func Load(root string) (*Service, error) {
	path := filepath.Join(root, ChartFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by ID.
func (s *Service) Get(id string) (model.Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// ByCode returns an account by its chart code.
func (s *Service) ByCode(code string) (model.Account, bool) {
	a, ok := s.byCode[code]
	return a, ok
}

// Exists reports whether an account ID exists.
func (s *Service) Exists(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// ByType returns all accounts of the given type.
func (s *Service) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// ByPrefix returns all accounts whose code starts with prefix.
func (s *Service) ByPrefix(prefix string) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if strings.HasPrefix(a.Code, prefix) {
			result = append(result, a)
		}
	}
	return result
}

// Save writes the chart of accounts below a data directory.
func (s *Service) Save(root string) error {
	dir := filepath.Join(root, filepath.Dir(ChartFile))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(filepath.Join(root, ChartFile))
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}
