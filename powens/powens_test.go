package powens

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestClient_Accounts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		if r.URL.Path != "/2.0/users/me/accounts" {
			t.Errorf("path = %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"accounts":[{"id":1,"name":"Checking","balance":12.5,"currency":{"id":"EUR"}},{"id":2,"name":"Savings","balance":100}],"total":2}`)
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "secret", srv.Client())
	accounts, err := c.Accounts(context.Background())
	if err != nil {
		t.Fatalf("Accounts() error = %v", err)
	}
	var names []string
	for _, a := range accounts {
		names = append(names, a.Name)
	}
	if diff := cmp.Diff([]string{"Checking", "Savings"}, names); diff != "" {
		t.Errorf("Accounts() mismatch (-want +got):\n%s", diff)
	}
	if accounts[0].Currency.ID != "EUR" {
		t.Errorf("Currency = %q", accounts[0].Currency.ID)
	}
}

func TestClient_TransactionsPagination(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		switch r.URL.Query().Get("offset") {
		case "":
			// relative link
			fmt.Fprint(w, `{"transactions":[{"id":3},{"id":2}],"_links":{"next":{"href":"/2.0/users/me/transactions?limit=1000&offset=2"}}}`)
		case "2":
			// absolute link
			fmt.Fprintf(w, `{"transactions":[{"id":1}],"_links":{"next":{"href":"http://%s/2.0/users/me/transactions?limit=1000&offset=3"}}}`, r.Host)
		default:
			fmt.Fprint(w, `{"transactions":[],"_links":{"next":null}}`)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "secret", srv.Client())
	since := time.Date(2024, 1, 2, 8, 0, 1, 0, time.UTC)
	txs, err := c.Transactions(context.Background(), since)
	if err != nil {
		t.Fatalf("Transactions() error = %v", err)
	}
	var ids []uint64
	for _, tx := range txs {
		ids = append(ids, tx.ID)
	}
	if diff := cmp.Diff([]uint64{3, 2, 1}, ids); diff != "" {
		t.Errorf("Transactions() ids mismatch (-want +got):\n%s", diff)
	}
	if len(queries) != 3 {
		t.Fatalf("got %d requests, want 3", len(queries))
	}
	if want := "last_update=2024-01-02+08%3A00%3A01&limit=1000"; queries[0] != want {
		t.Errorf("first query = %q, want %q", queries[0], want)
	}
}

func TestClient_TransactionsNoSince(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("last_update") {
			t.Errorf("unexpected last_update in %q", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"transactions":[{"id":7}]}`)
	}))
	defer srv.Close()

	txs, err := New(srv.URL, "secret", srv.Client()).Transactions(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("Transactions() error = %v", err)
	}
	if len(txs) != 1 || txs[0].ID != 7 {
		t.Errorf("Transactions() = %v", txs)
	}
}

func TestClient_StatusError(t *testing.T) {
	tests := []struct {
		code      int
		temporary bool
	}{
		{http.StatusUnauthorized, false},
		{http.StatusTooManyRequests, true},
		{http.StatusBadGateway, true},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.code)
			}))
			defer srv.Close()

			_, err := New(srv.URL, "secret", srv.Client()).Accounts(context.Background())
			var serr *StatusError
			if !errors.As(err, &serr) {
				t.Fatalf("Accounts() error = %v, want *StatusError", err)
			}
			if serr.Code != tt.code {
				t.Errorf("Code = %d, want %d", serr.Code, tt.code)
			}
			if serr.Temporary() != tt.temporary {
				t.Errorf("Temporary() = %v, want %v", serr.Temporary(), tt.temporary)
			}
		})
	}
}

func TestClient_InvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"accounts": [`)
	}))
	defer srv.Close()

	if _, err := New(srv.URL, "secret", srv.Client()).Accounts(context.Background()); err == nil {
		t.Error("Accounts() error = nil, want decode error")
	}
}
