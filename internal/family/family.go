package family

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Family is the singleton settings record for a household. It is
// configuration, not ledger state.
type Family struct {
	ID        uuid.UUID
	Name      string
	Children  []*Child
	CreatedAt time.Time
}

// Child holds per-child settings used by the workflow and the scheduler.
type Child struct {
	ID                uuid.UUID
	FamilyID          uuid.UUID
	Name              string
	AllowanceAmount   decimal.Decimal
	MonthlyLimit      decimal.Decimal
	ApprovalThreshold decimal.Decimal
	CreatedAt         time.Time
}

// Child returns the child with the given id, or nil.
func (f *Family) Child(id uuid.UUID) *Child {
	for _, c := range f.Children {
		if c.ID == id {
			return c
		}
	}

	return nil
}
