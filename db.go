package finsync

import (
	"fmt"
	"path/filepath"

	"github.com/etnz/finsync/store"
)

// Collection file names, relative to the data folder.
const (
	AccountsFile          = "accounts.json"
	TransactionsFile      = "transactions.json"
	TransactionExtrasFile = "transaction_extras.json"
)

// DB groups the collections of the application. Each collection is an
// independent lock domain: there is no transaction across collections.
type DB struct {
	Accounts     *store.Collection[Account]
	Transactions *store.Collection[Transaction]
	Extras       *store.Collection[TransactionExtras]
}

// Orders of the collections on disk.
var (
	AccountsOrder     = store.ByIDDesc[Account]()
	TransactionsOrder = store.ByKey(func(t Transaction) string { return t.Date.String() })
	ExtrasOrder       = store.ByIDDesc[TransactionExtras]()
)

// OpenDB opens, or creates, all collections in folder.
func OpenDB(folder string, opts ...store.Option) (*DB, error) {
	var db DB
	var err error
	if db.Accounts, err = store.Open(filepath.Join(folder, AccountsFile), AccountsOrder, opts...); err != nil {
		return nil, fmt.Errorf("load error: accounts: %w", err)
	}
	if db.Transactions, err = store.Open(filepath.Join(folder, TransactionsFile), TransactionsOrder, opts...); err != nil {
		return nil, fmt.Errorf("load error: transactions: %w", err)
	}
	if db.Extras, err = store.Open(filepath.Join(folder, TransactionExtrasFile), ExtrasOrder, opts...); err != nil {
		return nil, fmt.Errorf("load error: transaction extras: %w", err)
	}
	return &db, nil
}

// AccountName returns the name of the account with the given id, or "".
func (db *DB) AccountName(id uint64) string {
	a, ok := db.Accounts.FindByID(id)
	if !ok {
		return ""
	}
	return a.Name
}

// Uncategorized returns the transactions with no extras or with extras lacking
// categories, in collection order.
func (db *DB) Uncategorized() []Transaction {
	extras := db.ExtrasByID()
	var out []Transaction
	for _, tx := range db.Transactions.Snapshot() {
		if extras[tx.ID].Categorized() {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// ExtrasByID returns every transaction extras indexed by transaction id.
func (db *DB) ExtrasByID() map[uint64]TransactionExtras {
	extras := make(map[uint64]TransactionExtras)
	for _, e := range db.Extras.Snapshot() {
		extras[e.ID] = e
	}
	return extras
}
