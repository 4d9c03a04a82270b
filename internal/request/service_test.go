package request_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pennyjar/pennyjar/internal/errs"
	"github.com/pennyjar/pennyjar/internal/family"
	"github.com/pennyjar/pennyjar/internal/ledger"
	"github.com/pennyjar/pennyjar/internal/notify"
	"github.com/pennyjar/pennyjar/internal/request"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type serviceMocks struct {
	repo     *request.MockRepository
	balances *request.MockBalances
	children *request.MockChildren
}

func newTestService(t *testing.T) (*request.Service, serviceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := serviceMocks{
		repo:     request.NewMockRepository(ctrl),
		balances: request.NewMockBalances(ctrl),
		children: request.NewMockChildren(ctrl),
	}

	svc := request.NewService(m.repo, m.balances, m.children, request.DefaultRules(), notify.NewBus())

	return svc, m
}

func TestService_Submit(t *testing.T) {
	childID := uuid.New()

	child := &family.Child{
		ID:                childID,
		Name:              "Maya",
		MonthlyLimit:      amount("100"),
		ApprovalThreshold: amount("25"),
	}

	longReason := "Saving up for the school trip next month and I am short"

	type testCase struct {
		name       string
		params     request.SubmitParams
		setupMock  func(m serviceMocks)
		wantErr    error
		validation bool
	}

	tests := []testCase{
		{
			name: "PurchaseSuccess",
			params: request.SubmitParams{
				ChildID:     childID,
				Kind:        request.KindPurchase,
				Amount:      amount("20"),
				Description: "comic book",
				Category:    "books",
			},
			setupMock: func(m serviceMocks) {
				m.balances.EXPECT().Balance(gomock.Any(), childID).Return(amount("92.50"), nil)
				m.children.EXPECT().GetChild(gomock.Any(), childID).Return(child, nil)
				m.balances.EXPECT().MonthToDateSpend(gomock.Any(), childID, gomock.Any()).Return(amount("10"), nil)
				m.repo.EXPECT().CreateRequest(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "PurchaseInsufficientFunds",
			params: request.SubmitParams{
				ChildID: childID,
				Kind:    request.KindPurchase,
				Amount:  amount("100"),
			},
			setupMock: func(m serviceMocks) {
				m.balances.EXPECT().Balance(gomock.Any(), childID).Return(amount("92.50"), nil)
			},
			wantErr: errs.ErrInsufficientFunds,
		},
		{
			name: "PurchaseMonthlyLimitExceeded",
			params: request.SubmitParams{
				ChildID: childID,
				Kind:    request.KindPurchase,
				Amount:  amount("50"),
			},
			setupMock: func(m serviceMocks) {
				m.balances.EXPECT().Balance(gomock.Any(), childID).Return(amount("92.50"), nil)
				m.children.EXPECT().GetChild(gomock.Any(), childID).Return(child, nil)
				m.balances.EXPECT().MonthToDateSpend(gomock.Any(), childID, gomock.Any()).Return(amount("60"), nil)
			},
			wantErr: errs.ErrLimitExceeded,
		},
		{
			name: "HighValuePurchaseNeedsJustification",
			params: request.SubmitParams{
				ChildID:     childID,
				Kind:        request.KindPurchase,
				Amount:      amount("30"),
				Description: "toy",
			},
			setupMock: func(m serviceMocks) {
				m.balances.EXPECT().Balance(gomock.Any(), childID).Return(amount("92.50"), nil)
				m.children.EXPECT().GetChild(gomock.Any(), childID).Return(child, nil)
				m.balances.EXPECT().MonthToDateSpend(gomock.Any(), childID, gomock.Any()).Return(decimal.Zero, nil)
			},
			validation: true,
		},
		{
			name: "HighValuePurchaseWithJustification",
			params: request.SubmitParams{
				ChildID:     childID,
				Kind:        request.KindPurchase,
				Amount:      amount("30"),
				Description: "replacement charger for my school laptop",
			},
			setupMock: func(m serviceMocks) {
				m.balances.EXPECT().Balance(gomock.Any(), childID).Return(amount("92.50"), nil)
				m.children.EXPECT().GetChild(gomock.Any(), childID).Return(child, nil)
				m.balances.EXPECT().MonthToDateSpend(gomock.Any(), childID, gomock.Any()).Return(decimal.Zero, nil)
				m.repo.EXPECT().CreateRequest(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "AdvanceOverCap",
			params: request.SubmitParams{
				ChildID:     childID,
				Kind:        request.KindAdvance,
				Amount:      amount("60"),
				Description: longReason,
			},
			wantErr: errs.ErrLimitExceeded,
		},
		{
			name: "AdvanceNeedsReason",
			params: request.SubmitParams{
				ChildID:     childID,
				Kind:        request.KindAdvance,
				Amount:      amount("40"),
				Description: "please",
			},
			validation: true,
		},
		{
			name: "AdvanceSuccess",
			params: request.SubmitParams{
				ChildID:     childID,
				Kind:        request.KindAdvance,
				Amount:      amount("40"),
				Description: longReason,
			},
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().CreateRequest(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "NonPositiveAmount",
			params: request.SubmitParams{
				ChildID: childID,
				Kind:    request.KindPurchase,
				Amount:  decimal.Zero,
			},
			validation: true,
		},
		{
			name: "UnknownKind",
			params: request.SubmitParams{
				ChildID: childID,
				Kind:    request.Kind("loan"),
				Amount:  amount("10"),
			},
			validation: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService(t)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			got, err := svc.Submit(context.Background(), tt.params)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			case tt.validation:
				assert.True(t, errs.IsValidation(err), "want validation error, got %v", err)
				assert.Nil(t, got)
			default:
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, request.StatusPending, got.Status)
				assert.NotEmpty(t, got.ID)
			}
		})
	}
}

func pendingRequest(childID uuid.UUID, kind request.Kind, amt string) *request.Request {
	return &request.Request{
		ID:          uuid.New(),
		ChildID:     childID,
		Kind:        kind,
		Status:      request.StatusPending,
		Amount:      amount(amt),
		Description: "something worth approving for sure",
		CreatedAt:   time.Now().UTC(),
	}
}

func TestService_Approve_Purchase(t *testing.T) {
	svc, m := newTestService(t)

	childID := uuid.New()
	approverID := uuid.New()
	req := pendingRequest(childID, request.KindPurchase, "30")

	ctrl := gomock.NewController(t)
	dtx := request.NewMockDecisionTx(ctrl)

	m.repo.EXPECT().BeginDecision(gomock.Any(), req.ID).Return(dtx, nil)
	dtx.EXPECT().Request().Return(req).AnyTimes()
	m.balances.EXPECT().Balance(gomock.Any(), childID).Return(amount("92.50"), nil)
	dtx.EXPECT().
		Decide(gomock.Any(), request.StatusApproved, approverID, gomock.Nil(), gomock.Any()).
		Return(nil)
	dtx.EXPECT().
		AppendTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *ledger.Transaction) error {
			assert.Equal(t, ledger.TypePurchaseApproved, tx.Type)
			assert.True(t, tx.Amount.Equal(amount("-30")), "got %s", tx.Amount)
			assert.True(t, tx.BalanceAfter.Equal(amount("62.50")), "got %s", tx.BalanceAfter)
			return nil
		})
	dtx.EXPECT().Commit().Return(nil)
	dtx.EXPECT().Rollback().Return(nil).AnyTimes()

	got, err := svc.Approve(context.Background(), req.ID, approverID, nil)
	require.NoError(t, err)
	assert.Equal(t, request.StatusApproved, got.Status)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, approverID, *got.ApprovedBy)
	assert.NotNil(t, got.ProcessedAt)
}

func TestService_Approve_AdvanceCreatesDebt(t *testing.T) {
	svc, m := newTestService(t)

	childID := uuid.New()
	approverID := uuid.New()
	req := pendingRequest(childID, request.KindAdvance, "40")

	ctrl := gomock.NewController(t)
	dtx := request.NewMockDecisionTx(ctrl)

	m.repo.EXPECT().BeginDecision(gomock.Any(), req.ID).Return(dtx, nil)
	dtx.EXPECT().Request().Return(req).AnyTimes()
	m.balances.EXPECT().Balance(gomock.Any(), childID).Return(amount("5"), nil)
	dtx.EXPECT().
		Decide(gomock.Any(), request.StatusApproved, approverID, gomock.Any(), gomock.Any()).
		Return(nil)
	dtx.EXPECT().
		AppendTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *ledger.Transaction) error {
			assert.Equal(t, ledger.TypeAdvanceApproved, tx.Type)
			assert.True(t, tx.Amount.Equal(amount("40")), "advances credit the balance, got %s", tx.Amount)
			return nil
		})
	dtx.EXPECT().
		CreateDebt(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, debt *request.Debt) error {
			assert.Equal(t, childID, debt.ChildID)
			assert.True(t, debt.Amount.Equal(amount("40")))
			assert.Equal(t, request.DebtStatusPending, debt.Status)
			return nil
		})
	dtx.EXPECT().Commit().Return(nil)
	dtx.EXPECT().Rollback().Return(nil).AnyTimes()

	got, err := svc.Approve(context.Background(), req.ID, approverID, nil)
	require.NoError(t, err)
	assert.Equal(t, request.StatusApproved, got.Status)
}

func TestService_Approve_AlreadyProcessed(t *testing.T) {
	svc, m := newTestService(t)

	req := pendingRequest(uuid.New(), request.KindPurchase, "30")
	req.Status = request.StatusRejected

	ctrl := gomock.NewController(t)
	dtx := request.NewMockDecisionTx(ctrl)

	m.repo.EXPECT().BeginDecision(gomock.Any(), req.ID).Return(dtx, nil)
	dtx.EXPECT().Request().Return(req).AnyTimes()
	dtx.EXPECT().Rollback().Return(nil)

	_, err := svc.Approve(context.Background(), req.ID, uuid.New(), nil)
	assert.ErrorIs(t, err, errs.ErrInvalidState)
}

func TestService_Approve_LosesRace(t *testing.T) {
	svc, m := newTestService(t)

	req := pendingRequest(uuid.New(), request.KindPurchase, "30")

	ctrl := gomock.NewController(t)
	dtx := request.NewMockDecisionTx(ctrl)

	// The snapshot still says pending, but the conditional update reports
	// that another decision landed first.
	m.repo.EXPECT().BeginDecision(gomock.Any(), req.ID).Return(dtx, nil)
	dtx.EXPECT().Request().Return(req).AnyTimes()
	m.balances.EXPECT().Balance(gomock.Any(), req.ChildID).Return(amount("92.50"), nil)
	dtx.EXPECT().
		Decide(gomock.Any(), request.StatusApproved, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errs.ErrInvalidState)
	dtx.EXPECT().Rollback().Return(nil)

	_, err := svc.Approve(context.Background(), req.ID, uuid.New(), nil)
	assert.ErrorIs(t, err, errs.ErrInvalidState)
}

func TestService_Reject(t *testing.T) {
	t.Run("RequiresReason", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Reject(context.Background(), uuid.New(), uuid.New(), "")
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("Success", func(t *testing.T) {
		svc, m := newTestService(t)

		req := pendingRequest(uuid.New(), request.KindPurchase, "30")

		ctrl := gomock.NewController(t)
		dtx := request.NewMockDecisionTx(ctrl)

		m.repo.EXPECT().BeginDecision(gomock.Any(), req.ID).Return(dtx, nil)
		dtx.EXPECT().Request().Return(req).AnyTimes()
		dtx.EXPECT().
			Decide(gomock.Any(), request.StatusRejected, gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ request.Status, _ uuid.UUID, comment *string, _ time.Time) error {
				require.NotNil(t, comment)
				assert.Equal(t, "too expensive this month", *comment)
				return nil
			})
		dtx.EXPECT().Commit().Return(nil)
		dtx.EXPECT().Rollback().Return(nil).AnyTimes()

		got, err := svc.Reject(context.Background(), req.ID, uuid.New(), "too expensive this month")
		require.NoError(t, err)
		assert.Equal(t, request.StatusRejected, got.Status)
		require.NotNil(t, got.ParentComment)
		assert.Nil(t, got.ApprovedBy)
	})
}
