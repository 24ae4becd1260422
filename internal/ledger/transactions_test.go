package ledger

import (
	"context"
	"testing"
	"time"

	"wallet_ledger/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTransactions_CreationOrder(t *testing.T) {
	e, _ := newTestEngine(t)
	a := seedUser(t, e, "alice", "0")
	b := seedUser(t, e, "bob", "0")
	ctx := context.Background()

	_, err := e.Deposit(ctx, a.ID, dec("50"), "first")
	require.NoError(t, err)
	_, err = e.Withdraw(ctx, a.ID, dec("10"), "second")
	require.NoError(t, err)
	_, err = e.CreateTransfer(ctx, TransferRequest{SenderUserID: a.ID, RecipientUserID: b.ID, Amount: dec("15")})
	require.NoError(t, err)

	txs, err := e.GetTransactions(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, []domain.TransactionType{domain.Credit, domain.Debit, domain.TransferOut},
		[]domain.TransactionType{txs[0].Type, txs[1].Type, txs[2].Type})

	none, err := e.GetTransactions(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, none)
}

// The wallet balance always equals the signed sum of its history.
func TestBalanceMatchesHistory(t *testing.T) {
	e, _ := newTestEngine(t)
	users := []*domain.User{
		seedUser(t, e, "alice", "100"),
		seedUser(t, e, "bob", "20"),
		seedUser(t, e, "carol", "0"),
	}
	ctx := context.Background()

	steps := []func() error{
		func() error { _, err := e.Deposit(ctx, users[2].ID, dec("12.34"), "d"); return err },
		func() error { _, err := e.Withdraw(ctx, users[0].ID, dec("0.99"), "w"); return err },
		func() error {
			_, err := e.CreateTransfer(ctx, TransferRequest{SenderUserID: users[0].ID, RecipientUserID: users[1].ID, Amount: dec("33.33")})
			return err
		},
		func() error { _, err := e.Withdraw(ctx, users[1].ID, dec("500"), "rejected"); return err },
		func() error {
			_, err := e.CreateTransfer(ctx, TransferRequest{SenderUserID: users[1].ID, RecipientUserID: users[2].ID, Amount: dec("53.33")})
			return err
		},
		func() error {
			_, err := e.CreateTransfer(ctx, TransferRequest{SenderUserID: users[2].ID, RecipientUserID: users[0].ID, Amount: dec("1000")})
			return err
		},
		func() error { _, err := e.Deposit(ctx, users[0].ID, dec("0.01"), "d"); return err },
	}
	for _, step := range steps {
		_ = step() // rejected steps must leave no trace either
	}

	for _, u := range users {
		txs, err := e.GetTransactions(ctx, u.ID)
		require.NoError(t, err)
		sum := decimal.Zero
		for _, tx := range txs {
			sum = sum.Add(tx.SignedAmount())
		}
		requireDecimal(t, sum.String(), balanceOf(t, e, u.ID))
	}
	requireDecimal(t, "65.69", balanceOf(t, e, users[0].ID))
	requireDecimal(t, "0", balanceOf(t, e, users[1].ID))
	requireDecimal(t, "65.67", balanceOf(t, e, users[2].ID))
}

func TestListTransactions_Filters(t *testing.T) {
	e, _ := newTestEngine(t)
	a := seedUser(t, e, "alice", "100")
	b := seedUser(t, e, "bob", "0")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := e.CreateTransfer(ctx, TransferRequest{SenderUserID: a.ID, RecipientUserID: b.ID, Amount: dec("1")})
		require.NoError(t, err)
	}

	all, err := e.ListTransactions(ctx, TransactionFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(7), all.Total)
	assert.Equal(t, 1, all.TotalPages)
	assert.Greater(t, all.Items[0].ID, all.Items[1].ID)

	ins, err := e.ListTransactions(ctx, TransactionFilter{Type: domain.TransferIn})
	require.NoError(t, err)
	assert.Equal(t, int64(3), ins.Total)
	for _, tx := range ins.Items {
		assert.Equal(t, b.ID, tx.UserID)
	}

	paged, err := e.ListTransactions(ctx, TransactionFilter{UserID: a.ID, Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), paged.Total)
	assert.Equal(t, 2, paged.TotalPages)
	assert.Len(t, paged.Items, 2)
	assert.Equal(t, 2, paged.Page)

	clamped, err := e.ListTransactions(ctx, TransactionFilter{Page: -1, PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, clamped.Page)
	assert.Equal(t, DefaultPageSize, clamped.PageSize)
}

func TestListTransactions_OffsetTimeBounds(t *testing.T) {
	e, _ := newTestEngine(t)
	seedUser(t, e, "alice", "10")
	ctx := context.Background()

	east := time.FixedZone("UTC+5", 5*60*60)
	west := time.FixedZone("UTC-5", -5*60*60)
	hourAgo, inAnHour := time.Now().Add(-time.Hour), time.Now().Add(time.Hour)

	tests := []struct {
		name   string
		filter TransactionFilter
		total  int64
	}{
		{"to later, west offset", TransactionFilter{To: inAnHour.In(west)}, 1},
		{"to later, east offset", TransactionFilter{To: inAnHour.In(east)}, 1},
		{"to earlier, east offset", TransactionFilter{To: hourAgo.In(east)}, 0},
		{"from earlier, west offset", TransactionFilter{From: hourAgo.In(west)}, 1},
		{"from later, west offset", TransactionFilter{From: inAnHour.In(west)}, 0},
		{"window around now", TransactionFilter{From: hourAgo.In(east), To: inAnHour.In(west)}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := e.ListTransactions(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.total, page.Total)
		})
	}
}

func TestRecordTransaction(t *testing.T) {
	e, _ := newTestEngine(t)
	a := seedUser(t, e, "alice", "10")
	b := seedUser(t, e, "bob", "0")
	ctx := context.Background()
	wa, err := e.GetWallet(ctx, a.ID)
	require.NoError(t, err)
	wb, err := e.GetWallet(ctx, b.ID)
	require.NoError(t, err)

	credit, err := e.RecordTransaction(ctx, TransactionCreate{UserID: a.ID, WalletID: wa.ID, Type: domain.Credit, Amount: dec("5"), Description: "raw"})
	require.NoError(t, err)
	assert.Equal(t, domain.Credit, credit.Type)
	requireDecimal(t, "15", balanceOf(t, e, a.ID))

	_, err = e.RecordTransaction(ctx, TransactionCreate{UserID: a.ID, WalletID: wa.ID, Type: domain.Debit, Amount: dec("20")})
	assert.True(t, IsInsufficientBalance(err))

	_, err = e.RecordTransaction(ctx, TransactionCreate{UserID: a.ID, WalletID: wa.ID, Type: domain.TransferIn, Amount: dec("5")})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = e.RecordTransaction(ctx, TransactionCreate{UserID: a.ID, WalletID: wa.ID, Type: "REFUND", Amount: dec("5")})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = e.RecordTransaction(ctx, TransactionCreate{UserID: a.ID, WalletID: wb.ID, Type: domain.Credit, Amount: dec("5")})
	assert.ErrorIs(t, err, ErrWalletMismatch)

	_, err = e.RecordTransaction(ctx, TransactionCreate{UserID: 999, WalletID: wa.ID, Type: domain.Credit, Amount: dec("5")})
	assert.ErrorIs(t, err, ErrWalletNotFound)

	requireDecimal(t, "15", balanceOf(t, e, a.ID))
}
