// Package emulator is a local stand-in for the ledger service, for
// development and integration tests. It stores accounts and transactions in
// bbolt and applies transfers atomically.
package emulator

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	bolt "go.etcd.io/bbolt"

	"github.com/shunichi-ikebuchi/payview/pkg/ledger"
)

var (
	// ErrNotFound is returned when an account is not found.
	ErrNotFound = errors.New("account not found")

	// ErrExists is returned when creating an account whose handle is taken.
	ErrExists = errors.New("account already exists")

	// ErrInsufficientFunds is returned when the sender cannot cover a transfer.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidTransfer is returned for malformed transfers.
	ErrInvalidTransfer = errors.New("invalid transfer")
)

// Bucket names.
const (
	BucketAccounts     = "accounts"
	BucketTransactions = "transactions"
)

// Store represents the bbolt database wrapper.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

// New creates a new Store instance and initializes buckets.
func New(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range []string{BucketAccounts, BucketTransactions} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SetClock replaces the clock used to timestamp transactions.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// CreateAccount stores a new account.
func (s *Store) CreateAccount(account ledger.Account) (*ledger.Account, error) {
	account.Handle = strings.TrimSpace(account.Handle)
	if account.Handle == "" {
		return nil, fmt.Errorf("%w: missing upi_id", ErrInvalidTransfer)
	}
	if account.Balance.IsNegative() {
		return nil, fmt.Errorf("%w: negative opening balance", ErrInvalidTransfer)
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketAccounts))
		if b.Get([]byte(account.Handle)) != nil {
			return ErrExists
		}
		return putJSON(b, []byte(account.Handle), account)
	})
	if err != nil {
		return nil, err
	}

	return &account, nil
}

// GetAccount retrieves an account by handle.
func (s *Store) GetAccount(handle string) (*ledger.Account, error) {
	var account ledger.Account
	err := s.db.View(func(tx *bolt.Tx) error {
		return getAccount(tx, handle, &account)
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ListTransactions returns every transaction involving handle, newest first.
func (s *Store) ListTransactions(handle string) ([]ledger.Transaction, error) {
	txns := []ledger.Transaction{}

	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(BucketTransactions)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var txn ledger.Transaction
			if err := json.Unmarshal(v, &txn); err != nil {
				return fmt.Errorf("failed to unmarshal transaction: %w", err)
			}
			if txn.SenderHandle == handle || txn.ReceiverHandle == handle {
				txns = append(txns, txn)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return txns, nil
}

// Transfer moves amount from sender to receiver and records the transaction.
// Balances and the record are written in a single bbolt transaction.
func (s *Store) Transfer(sender, receiver string, amount decimal.Decimal) (*ledger.Transaction, error) {
	sender = strings.TrimSpace(sender)
	receiver = strings.TrimSpace(receiver)

	if sender == "" || receiver == "" {
		return nil, fmt.Errorf("%w: sender and receiver are required", ErrInvalidTransfer)
	}
	if sender == receiver {
		return nil, fmt.Errorf("%w: cannot transfer to the same account", ErrInvalidTransfer)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidTransfer)
	}

	var record ledger.Transaction
	err := s.db.Update(func(tx *bolt.Tx) error {
		var from, to ledger.Account
		if err := getAccount(tx, sender, &from); err != nil {
			return fmt.Errorf("sender %s: %w", sender, err)
		}
		if err := getAccount(tx, receiver, &to); err != nil {
			return fmt.Errorf("receiver %s: %w", receiver, err)
		}
		if from.Balance.LessThan(amount) {
			return ErrInsufficientFunds
		}

		from.Balance = from.Balance.Sub(amount)
		to.Balance = to.Balance.Add(amount)

		accounts := tx.Bucket([]byte(BucketAccounts))
		if err := putJSON(accounts, []byte(from.Handle), from); err != nil {
			return err
		}
		if err := putJSON(accounts, []byte(to.Handle), to); err != nil {
			return err
		}

		txns := tx.Bucket([]byte(BucketTransactions))
		seq, err := txns.NextSequence()
		if err != nil {
			return err
		}

		record = ledger.Transaction{
			ID:             uuid.NewString(),
			SenderHandle:   sender,
			ReceiverHandle: receiver,
			Amount:         amount,
			Timestamp:      s.now().UTC(),
		}
		return putJSON(txns, itob(seq), record)
	})
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func getAccount(tx *bolt.Tx, handle string, account *ledger.Account) error {
	data := tx.Bucket([]byte(BucketAccounts)).Get([]byte(handle))
	if data == nil {
		return ErrNotFound
	}
	return json.Unmarshal(data, account)
}

func putJSON(b *bolt.Bucket, key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return b.Put(key, data)
}

// itob converts a sequence to a byte slice for use as a bbolt key.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
