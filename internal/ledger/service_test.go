package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pennyjar/pennyjar/internal/errs"
	"github.com/pennyjar/pennyjar/internal/ledger"
	"github.com/pennyjar/pennyjar/internal/notify"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestService_Append(t *testing.T) {
	childID := uuid.New()

	type testCase struct {
		name       string
		params     ledger.AppendParams
		setupMock  func(m *ledger.MockRepository)
		wantErr    bool
		validation bool
	}

	tests := []testCase{
		{
			name: "Success",
			params: ledger.AppendParams{
				Type:        ledger.TypeBonus,
				Amount:      amount("10"),
				Description: "Helped with the garage",
				Timestamp:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			},
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), childID).
					Return([]*ledger.Transaction{
						{Amount: amount("25")},
					}, nil)
				m.EXPECT().
					AppendTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *ledger.Transaction) error {
						assert.True(t, tx.BalanceAfter.Equal(amount("35")))
						return nil
					})
			},
		},
		{
			name: "ZeroAmount",
			params: ledger.AppendParams{
				Type:      ledger.TypeBonus,
				Amount:    decimal.Zero,
				Timestamp: time.Now(),
			},
			wantErr:    true,
			validation: true,
		},
		{
			name: "MissingTimestamp",
			params: ledger.AppendParams{
				Type:   ledger.TypeBonus,
				Amount: amount("10"),
			},
			wantErr:    true,
			validation: true,
		},
		{
			name: "RepoError",
			params: ledger.AppendParams{
				Type:      ledger.TypeBonus,
				Amount:    amount("10"),
				Timestamp: time.Now(),
			},
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), childID).
					Return(nil, nil)
				m.EXPECT().
					AppendTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := ledger.NewService(repo, notify.NewBus())
			got, err := svc.Append(context.Background(), childID, tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				assert.Equal(t, tt.validation, errs.IsValidation(err))

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, childID, got.ChildID)
		})
	}
}

func TestService_Balance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	childID := uuid.New()

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().
		ListTransactions(gomock.Any(), childID).
		Return([]*ledger.Transaction{
			{Type: ledger.TypeAllowance, Amount: amount("25")},
			{Type: ledger.TypePurchaseApproved, Amount: amount("-12.50")},
			{Type: ledger.TypeAllowance, Amount: amount("25")},
			{Type: ledger.TypeBonus, Amount: amount("5")},
			{Type: ledger.TypeAdvanceApproved, Amount: amount("50")},
		}, nil)

	svc := ledger.NewService(repo, notify.NewBus())

	balance, err := svc.Balance(context.Background(), childID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(amount("92.50")), "got %s", balance)
}

func TestService_List_SortsByTimestamp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	childID := uuid.New()
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	// Storage order deliberately scrambled.
	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().
		ListTransactions(gomock.Any(), childID).
		Return([]*ledger.Transaction{
			{Description: "third", Timestamp: base.Add(48 * time.Hour)},
			{Description: "first", Timestamp: base},
			{Description: "second", Timestamp: base.Add(24 * time.Hour)},
		}, nil)

	svc := ledger.NewService(repo, notify.NewBus())

	txs, err := svc.List(context.Background(), childID)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, "first", txs[0].Description)
	assert.Equal(t, "second", txs[1].Description)
	assert.Equal(t, "third", txs[2].Description)
}

func TestService_MonthToDateSpend(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	childID := uuid.New()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().
		ListTransactions(gomock.Any(), childID).
		Return([]*ledger.Transaction{
			// Counted: approved purchases inside March.
			{Type: ledger.TypePurchaseApproved, Amount: amount("-10"), Timestamp: now.AddDate(0, 0, -5)},
			{Type: ledger.TypePurchase, Amount: amount("-2.50"), Timestamp: now.AddDate(0, 0, -1)},
			// Not counted: previous month, credits, other types.
			{Type: ledger.TypePurchaseApproved, Amount: amount("-99"), Timestamp: now.AddDate(0, -1, 0)},
			{Type: ledger.TypeAllowance, Amount: amount("25"), Timestamp: now},
			{Type: ledger.TypeGoalDeposit, Amount: amount("-20"), Timestamp: now},
		}, nil)

	svc := ledger.NewService(repo, notify.NewBus())

	spend, err := svc.MonthToDateSpend(context.Background(), childID, now)
	require.NoError(t, err)
	assert.True(t, spend.Equal(amount("12.50")), "got %s", spend)
}
