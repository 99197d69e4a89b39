package renderer

import (
	"cmp"
	"slices"

	"github.com/etnz/finsync"
	"github.com/etnz/finsync/date"
	"github.com/shopspring/decimal"
)

// Summary is an overview of the bank accounts, and of the spending over a
// period.
type Summary struct {
	Date          date.Date
	Range         date.Range
	Accounts      []AccountLine
	Totals        []finsync.Money // one per currency
	Categories    []CategoryLine
	Uncategorized int // transactions of the range without category
}

// AccountLine is an account in the summary.
type AccountLine struct {
	Name    string
	Type    string
	Balance finsync.Money
}

// CategoryLine is the activity of one category, in one currency.
type CategoryLine struct {
	Category string
	Count    int
	Spent    finsync.Money // positive
	Received finsync.Money
}

// Uncategorized is the category of transactions not enriched yet.
const Uncategorized = "Uncategorized"

// NewSummary computes the summary of db on the given day, with spending over
// the period containing it.
//
// Disabled and deleted accounts are skipped, as well as transactions not yet
// posted.
func NewSummary(db *finsync.DB, on date.Date, period date.Period) *Summary {
	s := &Summary{
		Date:  on,
		Range: period.Range(on),
	}

	currencies := make(map[uint64]string)
	totals := make(map[string]finsync.Money)
	for _, a := range db.Accounts.Snapshot() {
		currencies[a.ID] = a.Currency.ID
		if a.Deleted != "" || a.Disabled != "" {
			continue
		}
		s.Accounts = append(s.Accounts, AccountLine{
			Name:    a.Name,
			Type:    a.Type.String(),
			Balance: a.Money(),
		})
		total, ok := totals[a.Currency.ID]
		if !ok {
			total = finsync.M(decimal.Zero, a.Currency.ID)
		}
		totals[a.Currency.ID] = total.Add(a.Money())
	}
	slices.SortStableFunc(s.Accounts, func(a, b AccountLine) int { return cmp.Compare(a.Name, b.Name) })
	for _, t := range totals {
		s.Totals = append(s.Totals, t)
	}
	slices.SortFunc(s.Totals, func(a, b finsync.Money) int { return cmp.Compare(a.Currency(), b.Currency()) })

	type key struct{ category, currency string }
	lines := make(map[key]*CategoryLine)
	extras := db.ExtrasByID()
	for _, tx := range db.Transactions.Snapshot() {
		if tx.Coming || !s.Range.Contains(tx.Date) {
			continue
		}
		category := Uncategorized
		if e := extras[tx.ID]; e.Categorized() {
			category = e.Category()
		} else {
			s.Uncategorized++
		}
		cur := currencies[tx.IDAccount]
		k := key{category, cur}
		line, ok := lines[k]
		if !ok {
			zero := finsync.M(decimal.Zero, cur)
			line = &CategoryLine{Category: category, Spent: zero, Received: zero}
			lines[k] = line
		}
		line.Count++
		amount := finsync.M(tx.Value, cur)
		if amount.IsNegative() {
			line.Spent = line.Spent.Add(amount.Neg())
		} else {
			line.Received = line.Received.Add(amount)
		}
	}
	for _, line := range lines {
		s.Categories = append(s.Categories, *line)
	}
	slices.SortFunc(s.Categories, func(a, b CategoryLine) int {
		if c := cmp.Compare(a.Currency(), b.Currency()); c != 0 {
			return c
		}
		if c := b.Spent.Amount().Cmp(a.Spent.Amount()); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return s
}

// Currency returns the currency of the line.
func (l CategoryLine) Currency() string { return l.Spent.Currency() }

// RenderSummary renders the summary to markdown.
func RenderSummary(s *Summary) string {
	partials := map[string]string{
		"summary_accounts": "summary_accounts.md",
		"summary_spending": "summary_spending.md",
	}
	return renderTemplate("summary", partials, s)
}
