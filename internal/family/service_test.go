package family_test

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
)

func TestService_GetOrCreate(t *testing.T) {
	t.Run("ExistingFamily", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := family.NewMockRepository(ctrl)

		existing := &family.Family{ID: uuid.New(), Name: "My Family", CreatedAt: time.Now()}
		repo.EXPECT().GetFamily(gomock.Any()).Return(existing, nil)

		svc := family.NewService(repo)

		got, err := svc.GetOrCreate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, existing.ID, got.ID)
	})

	t.Run("FirstRunCreates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := family.NewMockRepository(ctrl)

		repo.EXPECT().GetFamily(gomock.Any()).Return(nil, errs.ErrNotFound)
		repo.EXPECT().
			SaveFamily(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, f *family.Family) error {
				assert.Equal(t, "My Family", f.Name)
				assert.Empty(t, f.Children)
				return nil
			})

		svc := family.NewService(repo)

		got, err := svc.GetOrCreate(context.Background())
		require.NoError(t, err)
		assert.NotEmpty(t, got.ID)
	})
}

func TestService_AddChild(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := family.NewMockRepository(ctrl)

		fam := &family.Family{ID: uuid.New(), Name: "My Family"}
		repo.EXPECT().GetFamily(gomock.Any()).Return(fam, nil)
		repo.EXPECT().
			SaveFamily(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, f *family.Family) error {
				require.Len(t, f.Children, 1)
				assert.Equal(t, "Maya", f.Children[0].Name)
				return nil
			})

		svc := family.NewService(repo)

		child, err := svc.AddChild(context.Background(), family.AddChildParams{
			Name:            "Maya",
			AllowanceAmount: decimal.NewFromInt(5),
		})
		require.NoError(t, err)
		assert.Equal(t, fam.ID, child.FamilyID)
	})

	t.Run("MissingName", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := family.NewMockRepository(ctrl)

		svc := family.NewService(repo)

		_, err := svc.AddChild(context.Background(), family.AddChildParams{})
		assert.True(t, errs.IsValidation(err))
	})
}

func TestService_UpdateChildSettings(t *testing.T) {
	childID := uuid.New()

	famWithChild := func() *family.Family {
		return &family.Family{
			ID:   uuid.New(),
			Name: "My Family",
			Children: []*family.Child{
				{ID: childID, Name: "Maya", MonthlyLimit: decimal.NewFromInt(50)},
			},
		}
	}

	t.Run("PartialUpdate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := family.NewMockRepository(ctrl)

		repo.EXPECT().GetFamily(gomock.Any()).Return(famWithChild(), nil)
		repo.EXPECT().SaveFamily(gomock.Any(), gomock.Any()).Return(nil)

		svc := family.NewService(repo)

		limit := decimal.NewFromInt(80)

		child, err := svc.UpdateChildSettings(context.Background(), childID, family.ChildSettings{
			MonthlyLimit: &limit,
		})
		require.NoError(t, err)
		assert.True(t, child.MonthlyLimit.Equal(limit))
		// Untouched fields keep their values.
		assert.Equal(t, "Maya", child.Name)
	})

	t.Run("NegativeValueRejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := family.NewMockRepository(ctrl)

		repo.EXPECT().GetFamily(gomock.Any()).Return(famWithChild(), nil)

		svc := family.NewService(repo)

		negative := decimal.NewFromInt(-1)

		_, err := svc.UpdateChildSettings(context.Background(), childID, family.ChildSettings{
			AllowanceAmount: &negative,
		})
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("UnknownChild", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := family.NewMockRepository(ctrl)

		repo.EXPECT().GetFamily(gomock.Any()).Return(famWithChild(), nil)

		svc := family.NewService(repo)

		_, err := svc.UpdateChildSettings(context.Background(), uuid.New(), family.ChildSettings{})
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}
