package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind distinguishes spending requests from loan-like advances.
type Kind string

const (
	KindPurchase Kind = "purchase"
	KindAdvance  Kind = "advance"
)

// Status is the workflow state. Approved and rejected are terminal; no
// transition is reversible.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Request is a child's purchase or advance request. Money only moves on
// approval; submitting creates no transaction.
type Request struct {
	ID            uuid.UUID
	ChildID       uuid.UUID
	Kind          Kind
	Status        Status
	Amount        decimal.Decimal
	Description   string
	Category      string
	CreatedAt     time.Time
	ProcessedAt   *time.Time
	ApprovedBy    *uuid.UUID
	ParentComment *string
}

// Debt records money owed after an advance is approved. Repayment mechanics
// are not modeled; debts stay pending.
type Debt struct {
	ID          uuid.UUID
	ChildID     uuid.UUID
	Amount      decimal.Decimal
	Description string
	Status      string
	CreatedAt   time.Time
}

// DebtStatusPending is the only debt status in use.
const DebtStatusPending = "pending"
