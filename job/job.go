// Package job runs the background work of the service: pulling bank data into
// the local collections and enriching transactions with guessed categories.
package job

import (
	"context"
	"log"
	"time"

	"github.com/etnz/finsync"
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Source provides bank data. *powens.Client implements it.
type Source interface {
	Accounts(ctx context.Context) ([]finsync.Account, error)
	Transactions(ctx context.Context, since time.Time) ([]finsync.Transaction, error)
}

// Guesser guesses the categories of a transaction. *categorize.Guesser
// implements it.
type Guesser interface {
	Guess(ctx context.Context, tx finsync.Transaction) ([]string, error)
}

var (
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finsync_job_runs_total",
			Help: "Total number of job runs",
		},
		[]string{"job", "status"},
	)

	fetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finsync_fetched_records_total",
			Help: "Total number of records pulled from the bank aggregator",
		},
		[]string{"collection"},
	)

	guessesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finsync_category_guesses_total",
			Help: "Total number of transaction category guesses",
		},
		[]string{"status"},
	)
)

func observeRun(job string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	runsTotal.WithLabelValues(job, status).Inc()
}

// Schedule calls run every interval until ctx is done. Errors are logged, the
// next tick runs anyway. It returns nil once ctx is done.
func Schedule(ctx context.Context, interval time.Duration, name string, run func(context.Context) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Printf("schedule-job name=%q interval=%v", name, interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("stop-job name=%q", name)
			return nil
		case <-ticker.C:
			if err := run(ctx); err != nil {
				log.Printf("job-error name=%q err=%q", name, err)
			}
		}
	}
}

// Chain returns a run calling each run in turn, even after a failure. All
// failures are returned together.
func Chain(runs ...func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		var errs *multierror.Error
		for _, run := range runs {
			if err := ctx.Err(); err != nil {
				return multierror.Append(errs, err).ErrorOrNil()
			}
			errs = multierror.Append(errs, run(ctx))
		}
		return errs.ErrorOrNil()
	}
}
