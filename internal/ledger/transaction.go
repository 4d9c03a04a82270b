package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type classifies a ledger entry.
type Type string

const (
	TypeAllowance        Type = "allowance"
	TypeBonus            Type = "bonus"
	TypePurchase         Type = "purchase"
	TypePurchaseApproved Type = "purchase_approved"
	TypeAdvanceApproved  Type = "advance_approved"
	TypeGoalDeposit      Type = "goal_deposit"
	TypeInterest         Type = "interest"
)

// Transaction is one immutable entry in a child's append-only log. Positive
// amounts credit the balance, negative amounts debit it. There are no update
// or delete operations; corrections are compensating entries.
type Transaction struct {
	ID          uuid.UUID
	ChildID     uuid.UUID
	Type        Type
	Amount      decimal.Decimal
	Description string
	// Timestamp defines both causal and display order.
	Timestamp time.Time
	// BalanceAfter is a display hint captured at insertion time. The
	// authoritative balance is always recomputed by summing the log.
	BalanceAfter decimal.Decimal
	CreatedAt    time.Time
}
