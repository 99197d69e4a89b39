package finsync

import (
	"time"

	"github.com/etnz/finsync/date"
	"github.com/shopspring/decimal"
)

// DateTimeFormat is the layout of timestamps in the aggregation API.
const DateTimeFormat = "2006-01-02 15:04:05"

// Transaction is a bank transaction, as returned by the aggregation API.
//
// See https://docs.powens.com/api-reference/products/data-aggregation/bank-transactions#transaction-object
type Transaction struct {
	ID        uint64 `json:"id"`
	IDAccount uint64 `json:"id_account"`

	Date            date.Date  `json:"date"`             // posted to the account
	ApplicationDate date.Date  `json:"application_date"` // used by PFM services, can be edited
	RDate           date.Date  `json:"rdate"`            // order given
	VDate           *date.Date `json:"vdate"`            // value date, mostly equal to Date

	Value          decimal.Decimal `json:"value"`
	FormattedValue string          `json:"formatted_value"` // e.g. "-20,00 €"

	OriginalWording   string `json:"original_wording"`   // full label, as seen on the bank
	SimplifiedWording string `json:"simplified_wording"` // simplified label
	StemmedWording    string `json:"stemmed_wording"`    // e.g. "carte x www foodles co commerce electronique"
	Wording           string `json:"wording"`            // editable label, defaults to SimplifiedWording

	DateScraped string `json:"date_scraped"`
	LastUpdate  string `json:"last_update"`

	Coming bool            `json:"coming"` // not yet posted
	Active bool            `json:"active"` // false when ignored by PFM services
	Card   string          `json:"card"`
	Type   TransactionType `json:"type"`
}

// Identity implements store.Record.
func (t Transaction) Identity() uint64 { return t.ID }

// TransactionType is the kind of a transaction.
type TransactionType string

const (
	TxTransfer      TransactionType = "transfer"
	TxOrder         TransactionType = "order"
	TxCheck         TransactionType = "check"
	TxDeposit       TransactionType = "deposit"
	TxPayback       TransactionType = "payback"
	TxWithdrawal    TransactionType = "withdrawal"
	TxLoanRepayment TransactionType = "loan_repayment"
	TxBank          TransactionType = "bank"
	TxCard          TransactionType = "card"
	TxDeferredCard  TransactionType = "deferred_card"
	TxSummaryCard   TransactionType = "summary_card"
	TxUnknown       TransactionType = "unknown"
	TxMarketOrder   TransactionType = "market_order"
	TxMarketFee     TransactionType = "market_fee"
	TxArbitrage     TransactionType = "arbitrage"
	TxProfit        TransactionType = "profit"
	TxRefund        TransactionType = "refund"
	TxPayout        TransactionType = "payout"
	TxPayment       TransactionType = "payment"
	TxFee           TransactionType = "fee"
)

// LatestUpdate returns the most recent LastUpdate among transactions.
// Unparsable timestamps are ignored, ok is false when none is found.
func LatestUpdate(transactions []Transaction) (latest time.Time, ok bool) {
	for _, tx := range transactions {
		t, err := time.Parse(DateTimeFormat, tx.LastUpdate)
		if err != nil {
			continue
		}
		if !ok || t.After(latest) {
			latest, ok = t, true
		}
	}
	return latest, ok
}
