package models

import "time"

// TransactionKind is the type of a balance-affecting operation
type TransactionKind string

const (
	KindDeposit  TransactionKind = "deposit"
	KindWithdraw TransactionKind = "withdraw"
)

// Transaction represents an immutable ledger entry
type Transaction struct {
	ID               string          `json:"id"`
	Timestamp        time.Time       `json:"timestamp"`
	Kind             TransactionKind `json:"kind"`
	Amount           int64           `json:"amount"`
	ResultingBalance int64           `json:"resulting_balance"`
	Note             string          `json:"note"`
}

// Signed returns the amount with the sign it applies to the balance
func (t Transaction) Signed() int64 {
	if t.Kind == KindWithdraw {
		return -t.Amount
	}
	return t.Amount
}
