package model

import (
	"time"

	"github.com/google/uuid"
)

// Point transaction types. Every award or debit writes one ledger row
// in the same database transaction that changes the balance.
const (
	TransactionEarn  = "earn"
	TransactionSpend = "spend"
)

// Transaction is one point ledger entry.
type Transaction struct {
	ID          uuid.UUID `json:"id"`
	MemberID    uuid.UUID `json:"member_id"`
	Amount      int       `json:"amount"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
