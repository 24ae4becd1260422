package ledger

import (
	"context"
	"io"
	"testing"

	"wallet_ledger/internal/db"
	"wallet_ledger/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *gorm.DB) {
	t.Helper()

	gdb, err := db.OpenMemory(uuid.NewString())
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	log := logrus.New()
	log.SetOutput(io.Discard)
	opts = append([]Option{WithLogger(log), WithBcryptCost(bcrypt.MinCost)}, opts...)
	return NewEngine(gdb, opts...), gdb
}

// seedUser creates a user whose wallet holds balance.
func seedUser(t *testing.T, e *Engine, name string, balance string) *domain.User {
	t.Helper()

	u, err := e.CreateUser(context.Background(), UserCreate{
		Username: name,
		Email:    name + "@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	if amount := dec(balance); amount.IsPositive() {
		_, err = e.Deposit(context.Background(), u.ID, amount, "seed")
		require.NoError(t, err)
	}
	return u
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func balanceOf(t *testing.T, e *Engine, userID uint) decimal.Decimal {
	t.Helper()
	w, err := e.GetWallet(context.Background(), userID)
	require.NoError(t, err)
	return w.Balance
}

func countRows(t *testing.T, gdb *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(model).Count(&n).Error)
	return n
}

// requireDecimal compares money by value rather than representation.
func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}
