package ledger

import (
	"context"
	"testing"

	"wallet_ledger/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser_CreatesEmptyWallet(t *testing.T) {
	e, gdb := newTestEngine(t)
	phone := "+15550100"

	u, err := e.CreateUser(context.Background(), UserCreate{
		Username:    "alice",
		Email:       "alice@example.com",
		Password:    "password123",
		PhoneNumber: &phone,
	})
	require.NoError(t, err)
	require.NotNil(t, u.Wallet)
	assert.Equal(t, u.ID, u.Wallet.UserID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")))

	w, err := e.GetWallet(context.Background(), u.ID)
	require.NoError(t, err)
	requireDecimal(t, "0", w.Balance)
	assert.Equal(t, int64(1), countRows(t, gdb, &domain.Wallet{}))
}

func TestCreateUser_Duplicate(t *testing.T) {
	e, gdb := newTestEngine(t)
	seedUser(t, e, "alice", "0")

	_, err := e.CreateUser(context.Background(), UserCreate{Username: "alice", Email: "other@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrDuplicateUser)
	_, err = e.CreateUser(context.Background(), UserCreate{Username: "other", Email: "alice@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrConflict)

	assert.Equal(t, int64(1), countRows(t, gdb, &domain.User{}))
	assert.Equal(t, int64(1), countRows(t, gdb, &domain.Wallet{}))
}

func TestGetAndListUsers(t *testing.T) {
	e, _ := newTestEngine(t)
	a := seedUser(t, e, "alice", "0")
	seedUser(t, e, "bob", "0")
	seedUser(t, e, "carol", "0")

	got, err := e.GetUser(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = e.GetUser(context.Background(), 999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	page, err := e.ListUsers(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "alice", page.Items[0].Username)

	last, err := e.ListUsers(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	assert.Equal(t, "carol", last.Items[0].Username)
}

func TestUpdateUser_MergesOnlyGivenFields(t *testing.T) {
	e, _ := newTestEngine(t)
	a := seedUser(t, e, "alice", "0")
	seedUser(t, e, "bob", "0")

	email := "alice@new.example.com"
	u, err := e.UpdateUser(context.Background(), a.ID, UserUpdate{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, email, u.Email)
	assert.Equal(t, a.PasswordHash, u.PasswordHash)

	password := "new-password"
	u, err = e.UpdateUser(context.Background(), a.ID, UserUpdate{Password: &password})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)))
	assert.Equal(t, email, u.Email)

	// Keeping your own username is not a conflict; taking another's is.
	same := "alice"
	_, err = e.UpdateUser(context.Background(), a.ID, UserUpdate{Username: &same})
	assert.NoError(t, err)
	taken := "bob"
	_, err = e.UpdateUser(context.Background(), a.ID, UserUpdate{Username: &taken})
	assert.ErrorIs(t, err, ErrDuplicateUser)

	_, err = e.UpdateUser(context.Background(), 999, UserUpdate{Email: &email})
	assert.ErrorIs(t, err, ErrUserNotFound)

	u, err = e.UpdateUser(context.Background(), a.ID, UserUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
}

func TestDeleteUser_Cascades(t *testing.T) {
	e, gdb := newTestEngine(t)
	a := seedUser(t, e, "alice", "100")
	b := seedUser(t, e, "bob", "5")
	_, err := e.Withdraw(context.Background(), a.ID, dec("40"), "cash")
	require.NoError(t, err)

	deleted, err := e.DeleteUser(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", deleted.Username)

	_, err = e.GetUser(context.Background(), a.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = e.GetWallet(context.Background(), a.ID)
	assert.ErrorIs(t, err, ErrWalletNotFound)

	txs, err := e.GetTransactions(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Empty(t, txs)

	// Other users are untouched.
	requireDecimal(t, "5", balanceOf(t, e, b.ID))
	assert.Equal(t, int64(1), countRows(t, gdb, &domain.Transaction{}))

	_, err = e.DeleteUser(context.Background(), a.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUser_RejectsTransferHistory(t *testing.T) {
	e, gdb := newTestEngine(t)
	a := seedUser(t, e, "alice", "100")
	b := seedUser(t, e, "bob", "0")
	res, err := e.CreateTransfer(context.Background(), TransferRequest{SenderUserID: a.ID, RecipientUserID: b.ID, Amount: dec("10")})
	require.NoError(t, err)

	// Neither party can be removed, whichever side of the transfer they were on.
	for _, id := range []uint{a.ID, b.ID} {
		_, err = e.DeleteUser(context.Background(), id)
		assert.ErrorIs(t, err, ErrUserHasTransfers)
		assert.ErrorIs(t, err, ErrConflict)
	}

	// Both legs and the transfer survive intact.
	var legs int64
	require.NoError(t, gdb.Model(&domain.Transaction{}).Where("reference_transaction_id = ?", res.TransferID).Count(&legs).Error)
	assert.Equal(t, int64(2), legs)
	tr, err := e.GetTransfer(context.Background(), res.TransferID)
	require.NoError(t, err)
	require.NotNil(t, tr.SenderTransactionID)
	assert.Equal(t, res.SenderTransactionID, *tr.SenderTransactionID)
	requireDecimal(t, "90", balanceOf(t, e, a.ID))
	requireDecimal(t, "10", balanceOf(t, e, b.ID))
}
