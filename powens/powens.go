// Package powens is a client for the Powens data aggregation API.
//
// Only the two endpoints needed to mirror a user's bank data are supported:
// the list of bank accounts and the list of transactions.
package powens

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/finsync"
)

// maxPages bounds the number of pages followed for a single listing.
const maxPages = 100

// pageSize is the number of transactions requested per page.
const pageSize = 1000

// Client calls the Powens API on behalf of a user.
type Client struct {
	domain string // e.g. https://myapp-sandbox.biapi.pro
	token  string // user's bearer token
	http   *http.Client
}

// New returns a client for the API at domain, authenticated by token.
// A nil httpClient uses a client with a one minute timeout.
func New(domain, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: time.Minute}
	}
	return &Client{
		domain: strings.TrimSuffix(domain, "/"),
		token:  token,
		http:   httpClient,
	}
}

// accountsResponse is the body of /2.0/users/me/accounts.
type accountsResponse struct {
	Accounts []finsync.Account `json:"accounts"`
	Total    int               `json:"total"`
}

// transactionsResponse is the body of /2.0/users/me/transactions.
type transactionsResponse struct {
	FirstDate    string                `json:"first_date"`
	LastDate     string                `json:"last_date"`
	Transactions []finsync.Transaction `json:"transactions"`
	Total        int                   `json:"total"`
}

// Accounts returns all bank accounts of the user.
func (c *Client) Accounts(ctx context.Context) ([]finsync.Account, error) {
	var accounts []finsync.Account
	err := c.list(ctx, "/2.0/users/me/accounts", func(body []byte) error {
		var resp accountsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return err
		}
		accounts = append(accounts, resp.Accounts...)
		return nil
	})
	return accounts, err
}

// Transactions returns the transactions updated after since. A zero since
// returns the latest transactions of the user.
func (c *Client) Transactions(ctx context.Context, since time.Time) ([]finsync.Transaction, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(pageSize))
	if !since.IsZero() {
		q.Set("last_update", since.Format(finsync.DateTimeFormat))
	}

	var transactions []finsync.Transaction
	err := c.list(ctx, "/2.0/users/me/transactions?"+q.Encode(), func(body []byte) error {
		var resp transactionsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return err
		}
		transactions = append(transactions, resp.Transactions...)
		return nil
	})
	return transactions, err
}

// list GETs path and every following page, passing each body to page.
func (c *Client) list(ctx context.Context, path string, page func([]byte) error) error {
	addr := c.domain + path
	for i := 0; i < maxPages && addr != ""; i++ {
		body, err := c.get(ctx, addr)
		if err != nil {
			return err
		}
		if err := page(body); err != nil {
			log.Printf("powens-decode-error url=%q body=%q", addr, truncate(body, 512))
			return fmt.Errorf("powens error: cannot decode %v: %w", addr, err)
		}
		next, err := c.next(body)
		if err != nil {
			return err
		}
		if next == addr {
			break
		}
		addr = next
	}
	return nil
}

// next returns the absolute address of the next page, or "".
func (c *Client) next(body []byte) (string, error) {
	var jobj any
	if err := json.Unmarshal(body, &jobj); err != nil {
		return "", fmt.Errorf("powens error: invalid json: %w", err)
	}
	jval, err := jsonpath.Get("$._links.next.href", jobj)
	if err != nil {
		// no link, no next page.
		return "", nil
	}
	// because jsonpath is never clear about wheter it returns a list of 1 answer, or a single answer:
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	href, _ := jval.(string)
	if href == "" || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href, nil
	}
	return c.domain + "/" + strings.TrimPrefix(href, "/"), nil
}

// get performs an authenticated GET and returns the response body.
func (c *Client) get(ctx context.Context, addr string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("powens error: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("powens error: %w", err)
	}
	defer resp.Body.Close()
	log.Printf("%v %v%v %v", req.Method, req.URL.Host, req.URL.Path, resp.Status)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("powens error: cannot read %v%v: %w", req.URL.Host, req.URL.Path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, Body: string(truncate(body, 512))}
	}
	return body, nil
}

// StatusError is returned when the API answers with a non 200 status.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("powens error: %s: %s", e.Status, e.Body)
}

// Temporary reports whether retrying the call may succeed.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
