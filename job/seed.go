package job

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/etnz/finsync"
)

// Seed fills empty collections from src: all accounts, and the latest
// transactions. Collections that already hold records are left untouched.
func Seed(ctx context.Context, db *finsync.DB, src Source) (err error) {
	defer func() { observeRun("seed", err) }()

	if db.Accounts.IsEmpty() {
		log.Printf("seed-collection name=%q", db.Accounts.Path())
		accounts, err := src.Accounts(ctx)
		if err != nil {
			return fmt.Errorf("seed error: %w", err)
		}
		fetchedTotal.WithLabelValues("accounts").Add(float64(len(accounts)))
		if err := db.Accounts.ReplaceAll(accounts); err != nil {
			return fmt.Errorf("seed error: %w", err)
		}
	}

	if db.Transactions.IsEmpty() {
		log.Printf("seed-collection name=%q", db.Transactions.Path())
		transactions, err := src.Transactions(ctx, time.Time{})
		if err != nil {
			return fmt.Errorf("seed error: %w", err)
		}
		fetchedTotal.WithLabelValues("transactions").Add(float64(len(transactions)))
		if err := db.Transactions.ReplaceAll(transactions); err != nil {
			return fmt.Errorf("seed error: %w", err)
		}
	}
	return nil
}
