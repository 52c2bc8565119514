package emulator

import (
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/shunichi-ikebuchi/payview/pkg/ledger"
)

// Seed is the YAML document used to populate an empty emulator.
//
//	accounts:
//	  - email: alice@example.com
//	    upi_id: alice@pay
//	    balance: "1000"
//	transfers:
//	  - from: alice@pay
//	    to: bob@pay
//	    amount: "25.50"
type Seed struct {
	Accounts  []SeedAccount  `yaml:"accounts"`
	Transfers []SeedTransfer `yaml:"transfers"`
}

// SeedAccount is an account entry in a seed file.
type SeedAccount struct {
	Email   string `yaml:"email"`
	Handle  string `yaml:"upi_id"`
	Balance string `yaml:"balance"`
}

// SeedTransfer is a transfer replayed after the accounts are created.
type SeedTransfer struct {
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Amount string `yaml:"amount"`
}

// LoadSeed reads a seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &seed, nil
}

// Apply creates the seed accounts and replays its transfers. Accounts that
// already exist are left untouched, and so are their transfers, which makes
// reseeding an existing database a no-op.
func (s *Store) Apply(seed *Seed) (created int, err error) {
	fresh := make(map[string]bool, len(seed.Accounts))

	for _, a := range seed.Accounts {
		balance := decimal.Zero
		if a.Balance != "" {
			balance, err = decimal.NewFromString(a.Balance)
			if err != nil {
				return created, fmt.Errorf("account %s: invalid balance %q: %w", a.Handle, a.Balance, err)
			}
		}

		_, err := s.CreateAccount(ledger.Account{Email: a.Email, Handle: a.Handle, Balance: balance})
		if errors.Is(err, ErrExists) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("account %s: %w", a.Handle, err)
		}
		fresh[a.Handle] = true
		created++
	}

	for i, t := range seed.Transfers {
		if !fresh[t.From] && !fresh[t.To] {
			continue
		}
		amount, err := decimal.NewFromString(t.Amount)
		if err != nil {
			return created, fmt.Errorf("transfer %d: invalid amount %q: %w", i, t.Amount, err)
		}
		if _, err := s.Transfer(t.From, t.To, amount); err != nil {
			return created, fmt.Errorf("transfer %d: %w", i, err)
		}
	}

	return created, nil
}
