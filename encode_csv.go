package finsync

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSV exports follow the import format of Maybe Finance.

var (
	accountsCSVHeader     = []string{"Entity type", "Name", "Balance", "Currency"}
	transactionsCSVHeader = []string{"date", "amount", "name", "category", "tags", "account", "notes"}
)

// EncodeAccountsCSV writes accounts as CSV.
func EncodeAccountsCSV(w io.Writer, accounts []Account) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(accountsCSVHeader); err != nil {
		return fmt.Errorf("csv error: %w", err)
	}
	for _, a := range accounts {
		row := []string{a.Type.String(), a.Name, a.Balance.StringFixed(2), a.Currency.ID}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv error: account %d: %w", a.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// TransactionCSV is one row of the transactions export.
type TransactionCSV struct {
	Transaction
	Account string // account name
	Extras  TransactionExtras
}

func (r TransactionCSV) row() []string {
	return []string{
		r.Date.String(),
		r.Value.StringFixed(2),
		r.Wording,
		r.Extras.Category(),
		strings.Join(r.Extras.Tags, "|"),
		r.Account,
		"", // notes
	}
}

// EncodeTransactionsCSV writes rows as CSV. Transactions not yet posted
// (Coming) are skipped.
func EncodeTransactionsCSV(w io.Writer, rows []TransactionCSV) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(transactionsCSVHeader); err != nil {
		return fmt.Errorf("csv error: %w", err)
	}
	for _, r := range rows {
		if r.Coming {
			continue
		}
		if err := cw.Write(r.row()); err != nil {
			return fmt.Errorf("csv error: transaction %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// TransactionRows joins every transaction with its account name and extras.
// Each collection is read once, so rows may mix snapshots taken a few
// instants apart.
func (db *DB) TransactionRows() []TransactionCSV {
	names := make(map[uint64]string)
	for _, a := range db.Accounts.Snapshot() {
		names[a.ID] = a.Name
	}
	extras := db.ExtrasByID()

	txs := db.Transactions.Snapshot()
	rows := make([]TransactionCSV, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, TransactionCSV{
			Transaction: tx,
			Account:     names[tx.IDAccount],
			Extras:      extras[tx.ID],
		})
	}
	return rows
}
