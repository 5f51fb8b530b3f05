package models

import "time"

// Account represents one account holder in the ledger
type Account struct {
	Name          string        `json:"name"`
	Age           int           `json:"age"`
	Email         string        `json:"email"`
	AccountNumber string        `json:"account_number"`
	PINSalt       string        `json:"pin_salt"`
	PINDigest     string        `json:"pin_digest"`
	Balance       int64         `json:"balance"`
	CreatedAt     time.Time     `json:"created_at"`
	Transactions  []Transaction `json:"transactions"`
}

// Clone returns a copy that shares no slice storage with a
func (a Account) Clone() Account {
	cp := a
	cp.Transactions = make([]Transaction, len(a.Transactions))
	copy(cp.Transactions, a.Transactions)
	return cp
}

// Summary returns the view of the account that is safe to show to an operator
func (a Account) Summary() AccountSummary {
	return AccountSummary{
		AccountNumber: a.AccountNumber,
		Name:          a.Name,
		Age:           a.Age,
		Email:         a.Email,
		Balance:       a.Balance,
		CreatedAt:     a.CreatedAt,
		TxCount:       len(a.Transactions),
	}
}

// AccountSummary is an account without credentials or history
type AccountSummary struct {
	AccountNumber string    `json:"account_number"`
	Name          string    `json:"name"`
	Age           int       `json:"age"`
	Email         string    `json:"email"`
	Balance       int64     `json:"balance"`
	CreatedAt     time.Time `json:"created_at"`
	TxCount       int       `json:"tx_count"`
}

// AccountUpdate carries the subset of details to change. Nil fields are left as they are.
type AccountUpdate struct {
	Name  *string
	Email *string
	PIN   *string
}

// CloneAccounts deep-copies a collection
func CloneAccounts(in []Account) []Account {
	out := make([]Account, len(in))
	for i, a := range in {
		out[i] = a.Clone()
	}
	return out
}
