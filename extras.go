package finsync

// TransactionExtras holds data added locally to a transaction, keyed by the
// transaction identity.
type TransactionExtras struct {
	ID         uint64   `json:"id"`
	Categories []string `json:"categories"` // from the broadest to the most specific
	Tags       []string `json:"tags"`
}

// Identity implements store.Record.
func (e TransactionExtras) Identity() uint64 { return e.ID }

// Category returns the most specific category, or "".
func (e TransactionExtras) Category() string {
	if len(e.Categories) == 0 {
		return ""
	}
	return e.Categories[len(e.Categories)-1]
}

// Categorized reports whether at least one category is set.
func (e TransactionExtras) Categorized() bool { return len(e.Categories) > 0 }
