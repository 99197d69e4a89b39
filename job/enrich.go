package job

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/etnz/finsync"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/time/rate"
)

// DefaultGuessDelay is the minimum delay between two guesses. Free tier
// models have a very strict rate limit.
const DefaultGuessDelay = 10 * time.Second

// Enricher guesses the categories of uncategorized transactions.
//
// Runs of the same Enricher never overlap: Run returns at once while another
// run is active, the transactions it would have guessed are left to the next
// run.
type Enricher struct {
	DB      *finsync.DB
	Guesser Guesser
	Limiter *rate.Limiter

	running atomic.Bool
}

// NewEnricher returns an Enricher making at most one guess every delay.
func NewEnricher(db *finsync.DB, g Guesser, delay time.Duration) *Enricher {
	if delay <= 0 {
		delay = DefaultGuessDelay
	}
	return &Enricher{DB: db, Guesser: g, Limiter: rate.NewLimiter(rate.Every(delay), 1)}
}

// Run guesses and stores the categories of every transaction without any. A
// failing transaction is logged and skipped, the failures are returned
// together at the end.
func (e *Enricher) Run(ctx context.Context) (err error) {
	if !e.running.CompareAndSwap(false, true) {
		log.Printf("enrich-skipped reason=%q", "already running")
		return nil
	}
	defer e.running.Store(false)
	defer func() { observeRun("enrich", err) }()

	todo := e.DB.Uncategorized()
	log.Printf("enrich-transactions count=%d", len(todo))

	var errs *multierror.Error
	for _, tx := range todo {
		// Categorized since the list was taken.
		if extras, ok := e.DB.Extras.FindByID(tx.ID); ok && extras.Categorized() {
			continue
		}
		if e.Limiter != nil {
			if err := e.Limiter.Wait(ctx); err != nil {
				return multierror.Append(errs, err).ErrorOrNil()
			}
		}
		if err := e.enrich(ctx, tx); err != nil {
			guessesTotal.WithLabelValues("failure").Inc()
			log.Printf("enrich-error transaction=%d err=%q", tx.ID, err)
			errs = multierror.Append(errs, err)
			continue
		}
		guessesTotal.WithLabelValues("success").Inc()
	}
	return errs.ErrorOrNil()
}

// enrich guesses the categories of tx, keeping the tags already stored.
func (e *Enricher) enrich(ctx context.Context, tx finsync.Transaction) error {
	categories, err := e.Guesser.Guess(ctx, tx)
	if err != nil {
		return fmt.Errorf("transaction %d: %w", tx.ID, err)
	}
	extras, _ := e.DB.Extras.FindByID(tx.ID)
	extras.ID = tx.ID
	extras.Categories = categories
	if err := e.DB.Extras.Upsert(extras); err != nil {
		return fmt.Errorf("transaction %d: %w", tx.ID, err)
	}
	return nil
}
