package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplaceOrders/internal/testutil"
	"marketplaceOrders/models"
	"marketplaceOrders/repository"
)

func TestLedger_TopupAndWithdraw(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewStore(t)
	admin := testutil.CreateUser(t, s, "admin", models.RoleAdmin, testutil.Money("100"))
	l := NewLedger()

	err := s.InTx(ctx, func(tx *repository.Store) error {
		if err := l.RecordMovement(ctx, tx, admin, Movement{Type: models.WalletTopup, Amount: decimal.RequireFromString("25.50"), Note: "in", CreatedBy: &admin.ID}); err != nil {
			return err
		}
		return l.RecordMovement(ctx, tx, admin, Movement{Type: models.WalletWithdraw, Amount: decimal.RequireFromString("200"), Note: "out"})
	})
	require.NoError(t, err)

	w, err := s.Wallets.GetByUserID(ctx, admin.ID)
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.RequireFromString("-74.50")), w.Balance.String())

	hist, err := s.Wallets.ListHistory(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, models.WalletTopup, hist[0].Type)
	assert.Equal(t, models.WalletHistoryStatusPaid, hist[0].Status)
	assert.Equal(t, &admin.ID, hist[0].CreatedBy)
	assert.Equal(t, models.WalletWithdraw, hist[1].Type)
	assert.NotEqual(t, hist[0].UUID, hist[1].UUID)
	assert.Len(t, hist[0].UUID, 36)
}

func TestLedger_LoadsWalletWhenNotPreloaded(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewStore(t)
	u := testutil.CreateUser(t, s, "seller", models.RoleSeller, testutil.Money("0"))
	bare := &models.User{ID: u.ID}

	require.NoError(t, NewLedger().RecordMovement(ctx, s, bare, Movement{Type: models.WalletTopup, Amount: decimal.NewFromInt(5)}))
	assert.True(t, bare.Wallet == nil)

	w, err := s.Wallets.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.NewFromInt(5)))
}

func TestLedger_WalletMissing(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewStore(t)
	u := testutil.CreateUser(t, s, "nowallet", models.RoleSeller, nil)

	err := NewLedger().RecordMovement(ctx, s, u, Movement{Type: models.WalletTopup, Amount: decimal.NewFromInt(1)})
	assert.True(t, errors.Is(err, ErrWalletMissing))
	assert.ErrorIs(t, NewLedger().RecordMovement(ctx, s, nil, Movement{Type: models.WalletTopup}), ErrWalletMissing)
}

func TestLedger_UnknownType(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewStore(t)
	u := testutil.CreateUser(t, s, "u", models.RoleSeller, testutil.Money("0"))
	assert.Error(t, NewLedger().RecordMovement(ctx, s, u, Movement{Type: "gift", Amount: decimal.NewFromInt(1)}))
}
