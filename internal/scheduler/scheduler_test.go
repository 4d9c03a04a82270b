package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennyjar/pennyjar/internal/family"
	"github.com/pennyjar/pennyjar/internal/ledger"
	"github.com/pennyjar/pennyjar/internal/notify"
	"github.com/pennyjar/pennyjar/internal/scheduler"
	"github.com/pennyjar/pennyjar/internal/storage/memory"
)

func setup(t *testing.T, rate string) (*scheduler.Service, *family.Service, *ledger.Service) {
	t.Helper()

	store := memory.New()
	bus := notify.NewBus()

	familySvc := family.NewService(store)
	ledgerSvc := ledger.NewService(store, bus)

	return scheduler.New(familySvc, ledgerSvc, decimal.RequireFromString(rate)), familySvc, ledgerSvc
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

func TestService_RunAllowance(t *testing.T) {
	ctx := context.Background()

	sched, familySvc, ledgerSvc := setup(t, "0")

	maya, err := familySvc.AddChild(ctx, family.AddChildParams{
		Name:            "Maya",
		AllowanceAmount: decimal.RequireFromString("7.50"),
	})
	require.NoError(t, err)

	// No allowance configured, so no entry.
	noah, err := familySvc.AddChild(ctx, family.AddChildParams{Name: "Noah"})
	require.NoError(t, err)

	require.NoError(t, sched.RunAllowance(ctx))

	balance, err := ledgerSvc.Balance(ctx, maya.ID)
	require.NoError(t, err)
	assert.Equal(t, "7.5", balance.String())

	txs, err := ledgerSvc.List(ctx, maya.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, ledger.TypeAllowance, txs[0].Type)

	noahTxs, err := ledgerSvc.List(ctx, noah.ID)
	require.NoError(t, err)
	assert.Empty(t, noahTxs)
}

func TestService_RunInterest(t *testing.T) {
	ctx := context.Background()

	sched, familySvc, ledgerSvc := setup(t, "1.5")

	saver, err := familySvc.AddChild(ctx, family.AddChildParams{Name: "Maya"})
	require.NoError(t, err)

	debtor, err := familySvc.AddChild(ctx, family.AddChildParams{Name: "Noah"})
	require.NoError(t, err)

	_, err = ledgerSvc.Append(ctx, saver.ID, ledger.AppendParams{
		Type:      ledger.TypeBonus,
		Amount:    decimal.NewFromInt(100),
		Timestamp: nowUTC(),
	})
	require.NoError(t, err)

	_, err = ledgerSvc.Append(ctx, debtor.ID, ledger.AppendParams{
		Type:      ledger.TypePurchaseApproved,
		Amount:    decimal.NewFromInt(-10),
		Timestamp: nowUTC(),
	})
	require.NoError(t, err)

	require.NoError(t, sched.RunInterest(ctx))

	// 1.5% of 100, rounded to cents.
	balance, err := ledgerSvc.Balance(ctx, saver.ID)
	require.NoError(t, err)
	assert.Equal(t, "101.5", balance.String())

	// Negative balances earn nothing.
	debtorBalance, err := ledgerSvc.Balance(ctx, debtor.ID)
	require.NoError(t, err)
	assert.Equal(t, "-10", debtorBalance.String())
}

func TestService_RunInterest_ZeroRate(t *testing.T) {
	ctx := context.Background()

	sched, familySvc, ledgerSvc := setup(t, "0")

	child, err := familySvc.AddChild(ctx, family.AddChildParams{Name: "Maya"})
	require.NoError(t, err)

	_, err = ledgerSvc.Append(ctx, child.ID, ledger.AppendParams{
		Type:      ledger.TypeBonus,
		Amount:    decimal.NewFromInt(100),
		Timestamp: nowUTC(),
	})
	require.NoError(t, err)

	require.NoError(t, sched.RunInterest(ctx))

	txs, err := ledgerSvc.List(ctx, child.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 1, "a zero rate accrues nothing")
}
