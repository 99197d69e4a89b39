package finsync

import (
	"github.com/shopspring/decimal"
)

// Account is a bank account, as returned by the aggregation API.
//
// See https://docs.powens.com/api-reference/products/data-aggregation/bank-accounts#bankaccount-object
// Fields that were always null or empty in practice are not kept.
type Account struct {
	ID           uint64 `json:"id"`
	IDConnection uint64 `json:"id_connection"`
	IDUser       uint64 `json:"id_user"`
	IDSource     uint64 `json:"id_source"`
	Number       string `json:"number"`
	WebID        string `json:"webid"`
	OriginalName string `json:"original_name"`
	Name         string `json:"name"`
	IBAN         string `json:"iban"`
	BIC          string `json:"bic"`

	Balance          decimal.Decimal     `json:"balance"`
	Coming           decimal.NullDecimal `json:"coming"` // operations not yet debited
	ComingBalance    decimal.Decimal     `json:"coming_balance"`
	FormattedBalance string              `json:"formatted_balance"` // e.g. "123,45 €"
	Currency         Currency            `json:"currency"`

	Display    bool   `json:"display"`
	LastUpdate string `json:"last_update"`
	Deleted    string `json:"deleted,omitempty"`  // set when the account vanished from the bank website
	Disabled   string `json:"disabled,omitempty"` // set when the user stopped synchronizing it
	Error      string `json:"error,omitempty"`
	IDType     uint64 `json:"id_type"`
	Bookmarked uint64 `json:"bookmarked"`

	Usage AccountUsage `json:"usage"`
	Type  AccountType  `json:"type"`
}

// Identity implements store.Record.
func (a Account) Identity() uint64 { return a.ID }

// Currency describes the currency of an account.
type Currency struct {
	ID        string `json:"id"`     // e.g. EUR
	Symbol    string `json:"symbol"` // e.g. €
	Prefix    bool   `json:"prefix"`
	Crypto    bool   `json:"crypto"`
	Precision int    `json:"precision"`
	Name      string `json:"name"`
}

// AccountUsage tells whether an account is private or professional.
type AccountUsage string

const (
	UsagePrivate      AccountUsage = "PRIV"
	UsageProfessional AccountUsage = "ORGA"
	UsageNone         AccountUsage = "NULL"
)

// AccountType is the technical code of the account type.
type AccountType string

const (
	AccountArticle83      AccountType = "article83"
	AccountCapitalisation AccountType = "capitalisation"
	AccountCard           AccountType = "card"
	AccountChecking       AccountType = "checking"
	AccountCrowdlending   AccountType = "crowdlending"
	AccountDeposit        AccountType = "deposit"
	AccountJoint          AccountType = "joint"
	AccountLDDS           AccountType = "ldds"
	AccountLifeInsurance  AccountType = "lifeinsurance"
	AccountLoan           AccountType = "loan"
	AccountMadelin        AccountType = "madelin"
	AccountMarket         AccountType = "market"
	AccountPEA            AccountType = "pea"
	AccountPEE            AccountType = "pee"
	AccountPER            AccountType = "per"
	AccountPERCO          AccountType = "perco"
	AccountPERP           AccountType = "perp"
	AccountRealEstate     AccountType = "real_estate"
	AccountRSP            AccountType = "rsp"
	AccountSavings        AccountType = "savings"
	AccountUnknown        AccountType = "unknown"
)

// String returns the type code, "unknown" when empty.
func (t AccountType) String() string {
	if t == "" {
		return string(AccountUnknown)
	}
	return string(t)
}
