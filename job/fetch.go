package job

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/etnz/finsync"
	"github.com/hashicorp/go-multierror"
)

// Fetcher pulls accounts and new transactions into the local collections.
type Fetcher struct {
	DB     *finsync.DB
	Source Source

	// NewBackOff returns the retry policy of one remote call. Defaults to an
	// exponential backoff giving up after two minutes.
	NewBackOff func() backoff.BackOff
}

// Run refreshes every account, then pulls the transactions updated since the
// most recent one already stored. A failure on accounts does not prevent
// transactions from being pulled; all failures are returned together.
func (f *Fetcher) Run(ctx context.Context) (err error) {
	defer func() { observeRun("fetch", err) }()
	var errs *multierror.Error

	var accounts []finsync.Account
	if err := f.retry(ctx, func() (err error) {
		accounts, err = f.Source.Accounts(ctx)
		return err
	}); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("fetch accounts error: %w", err))
	} else {
		fetchedTotal.WithLabelValues("accounts").Add(float64(len(accounts)))
		if err := f.DB.Accounts.UpsertAll(accounts); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("fetch accounts error: %w", err))
		}
	}

	since, ok := finsync.LatestUpdate(f.DB.Transactions.Snapshot())
	if ok {
		log.Printf("fetch-transactions since=%q", since.Format(finsync.DateTimeFormat))
	} else {
		log.Printf("fetch-transactions since=%q", "")
	}
	var transactions []finsync.Transaction
	if err := f.retry(ctx, func() (err error) {
		transactions, err = f.Source.Transactions(ctx, since)
		return err
	}); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("fetch transactions error: %w", err))
	} else {
		fetchedTotal.WithLabelValues("transactions").Add(float64(len(transactions)))
		if err := f.DB.Transactions.UpsertAll(transactions); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("fetch transactions error: %w", err))
		}
		log.Printf("fetched-transactions count=%d", len(transactions))
	}
	return errs.ErrorOrNil()
}

// temporary is implemented by errors that may not happen again.
type temporary interface {
	Temporary() bool
}

// retry calls op until it succeeds, the policy gives up, or op fails with an
// error that is not temporary.
func (f *Fetcher) retry(ctx context.Context, op func() error) error {
	newBackOff := f.NewBackOff
	if newBackOff == nil {
		newBackOff = defaultBackOff
	}
	return backoff.RetryNotify(func() error {
		err := op()
		var t temporary
		if errors.As(err, &t) && !t.Temporary() {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(newBackOff(), ctx), func(err error, wait time.Duration) {
		log.Printf("fetch-retry wait=%v err=%q", wait, err)
	})
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 2 * time.Minute
	return b
}
