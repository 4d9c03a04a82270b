package request_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennyjar/pennyjar/internal/errs"
	"github.com/pennyjar/pennyjar/internal/family"
	"github.com/pennyjar/pennyjar/internal/ledger"
	"github.com/pennyjar/pennyjar/internal/notify"
	"github.com/pennyjar/pennyjar/internal/request"
	"github.com/pennyjar/pennyjar/internal/storage/memory"
)

// Two parents decide the same request at the same time: exactly one decision
// wins and exactly one ledger entry is written.
func TestService_Approve_ConcurrentDecisions(t *testing.T) {
	ctx := context.Background()

	store := memory.New()
	bus := notify.NewBus()

	familySvc := family.NewService(store)
	ledgerSvc := ledger.NewService(store, bus)
	svc := request.NewService(store, ledgerSvc, familySvc, request.DefaultRules(), bus)

	child, err := familySvc.AddChild(ctx, family.AddChildParams{Name: "Maya"})
	require.NoError(t, err)

	_, err = ledgerSvc.Append(ctx, child.ID, ledger.AppendParams{
		Type:      ledger.TypeAllowance,
		Amount:    amount("100"),
		Timestamp: time.Now().UTC(),
	})
	require.NoError(t, err)

	req, err := svc.Submit(ctx, request.SubmitParams{
		ChildID:     child.ID,
		Kind:        request.KindPurchase,
		Amount:      amount("30"),
		Description: "lego set",
	})
	require.NoError(t, err)

	errCh := make(chan error, 2)

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := svc.Approve(ctx, req.ID, uuid.New(), nil)
			errCh <- err
		}()
	}

	wg.Wait()
	close(errCh)

	var succeeded, lost int

	for err := range errCh {
		switch {
		case err == nil:
			succeeded++
		default:
			assert.ErrorIs(t, err, errs.ErrInvalidState)
			lost++
		}
	}

	assert.Equal(t, 1, succeeded, "exactly one decision must win")
	assert.Equal(t, 1, lost)

	txs, err := ledgerSvc.List(ctx, child.ID)
	require.NoError(t, err)
	require.Len(t, txs, 2, "initial credit plus exactly one approval debit")

	balance, err := ledgerSvc.Balance(ctx, child.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(amount("70")), "got %s", balance)

	got, err := svc.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, request.StatusApproved, got.Status)
}
