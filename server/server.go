// Package server exposes the local bank data over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/etnz/finsync"
	"github.com/etnz/finsync/date"
	"github.com/etnz/finsync/job"
	"github.com/etnz/finsync/renderer"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Server serves the collections of a DB.
type Server struct {
	db      *finsync.DB
	refresh func(context.Context) error // pulls then enriches transactions
	guesser job.Guesser                 // optional

	ctx     context.Context // of background runs
	running atomic.Bool
	wg      sync.WaitGroup

	md goldmark.Markdown
}

// New returns a server on db. refresh is started in the background by
// /transactions/fetch, bound to ctx. A nil guesser disables the guess test
// endpoint.
func New(ctx context.Context, db *finsync.DB, refresh func(context.Context) error, guesser job.Guesser) *Server {
	return &Server{
		db:      db,
		refresh: refresh,
		guesser: guesser,
		ctx:     ctx,
		md:      goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.index)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, "ok") })
	mux.HandleFunc("GET /accounts", s.accounts)
	mux.HandleFunc("GET /accounts/csv", s.accountsCSV)
	mux.HandleFunc("GET /transactions", s.transactions)
	mux.HandleFunc("GET /transactions/csv", s.transactionsCSV)
	mux.HandleFunc("GET /transactions/fetch", s.fetch)
	mux.HandleFunc("GET /transactions/{id}", s.transaction)
	mux.HandleFunc("GET /test-ai-guess-transaction-categories", s.guess)
	mux.Handle("GET /metrics", promhttp.Handler())
	return logRequests(mux)
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()
	log.Printf("listen addr=%q", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve error: %w", err)
	}
	s.Wait()
	return nil
}

// Wait waits for the background runs to finish.
func (s *Server) Wait() { s.wg.Wait() }

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	summary := renderer.RenderSummary(renderer.NewSummary(s.db, date.Today(), date.Monthly))
	var body bytes.Buffer
	if err := s.md.Convert([]byte(summary), &body); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>finsync</title></head>\n<body>\n%s</body>\n</html>\n", body.Bytes())
}

func (s *Server) accounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.db.Accounts.Snapshot())
}

func (s *Server) accountsCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	if err := finsync.EncodeAccountsCSV(w, s.db.Accounts.Snapshot()); err != nil {
		log.Printf("encode-error path=%q err=%q", r.URL.Path, err)
	}
}

func (s *Server) transactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.db.Transactions.Snapshot())
}

func (s *Server) transactionsCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	if err := finsync.EncodeTransactionsCSV(w, s.db.TransactionRows()); err != nil {
		log.Printf("encode-error path=%q err=%q", r.URL.Path, err)
	}
}

func (s *Server) transaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid transaction id %q", r.PathValue("id")), http.StatusBadRequest)
		return
	}
	detail, ok := s.db.TransactionDetail(id)
	if !ok {
		http.Error(w, fmt.Sprintf("transaction %d not found", id), http.StatusNotFound)
		return
	}
	writeJSON(w, detail)
}

// fetch starts a refresh in the background, unless one is already running.
func (s *Server) fetch(w http.ResponseWriter, r *http.Request) {
	if !s.running.CompareAndSwap(false, true) {
		http.Error(w, "Job already running", http.StatusConflict)
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Store(false)
		log.Printf("refresh-start")
		if err := s.refresh(s.ctx); err != nil {
			log.Printf("refresh-error err=%q", err)
			return
		}
		log.Printf("refresh-done")
	}()
	w.WriteHeader(http.StatusAccepted)
	fmt.Fprint(w, "Job started")
}

// guess guesses the categories of a random transaction, without storing them.
func (s *Server) guess(w http.ResponseWriter, r *http.Request) {
	if s.guesser == nil {
		http.Error(w, "categorization is not configured", http.StatusServiceUnavailable)
		return
	}
	transactions := s.db.Transactions.Snapshot()
	if len(transactions) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	tx := transactions[rand.IntN(len(transactions))]
	categories, err := s.guesser.Guess(r.Context(), tx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "%s\n%s\n%s\n%q\n", tx.Value, tx.OriginalWording, tx.SimplifiedWording, categories)
}

// writeJSON writes v as indented JSON.
func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// statusWriter records the status written to a ResponseWriter.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		log.Printf("%v %v %v", r.Method, r.URL.Path, sw.status)
	})
}
