package goal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Goal is a savings target. CurrentAmount only grows through deposits and is
// deliberately not clamped to TargetAmount: over-saving is allowed and the
// displayed progress alone is capped at 100%.
type Goal struct {
	ID            uuid.UUID
	ChildID       uuid.UUID
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
}

// ProgressPercent is the displayed progress, capped at 100.
func (g *Goal) ProgressPercent() int {
	if g.TargetAmount.Sign() <= 0 {
		return 0
	}

	pct := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if pct > 100 {
		return 100
	}

	if pct < 0 {
		return 0
	}

	return int(pct)
}

// IsCompleted reports whether the target has been reached.
func (g *Goal) IsCompleted() bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}
