// Package ledger moves money between wallets. Every operation runs as one
// unit of work against the store: it either commits in full or leaves no
// trace.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"wallet_ledger/internal/domain"
	"wallet_ledger/internal/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Operation names used in metrics and logs.
const (
	opDeposit         = "deposit"
	opWithdraw        = "withdraw"
	opTransfer        = "transfer"
	opCreateUser      = "create_user"
	opUpdateUser      = "update_user"
	opDeleteUser      = "delete_user"
	opGetWallet       = "get_wallet"
	opGetTransfer     = "get_transfer"
	opGetTransactions = "get_transactions"
)

// Engine owns wallet balances and transaction history. It holds no mutable
// state; concurrent callers are isolated by the store's row locks.
type Engine struct {
	db         *gorm.DB
	log        logrus.FieldLogger
	metrics    metrics.Recorder
	txOptions  []*sql.TxOptions
	newID      func() string
	bcryptCost int
	now        func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to the logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMetrics sets the metrics recorder. Defaults to a no-op recorder.
func WithMetrics(m metrics.Recorder) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithIsolation runs every unit of work at the given isolation level.
func WithIsolation(level sql.IsolationLevel) Option {
	return func(e *Engine) { e.txOptions = []*sql.TxOptions{{Isolation: level}} }
}

// WithBcryptCost sets the cost used to hash user passwords.
func WithBcryptCost(cost int) Option {
	return func(e *Engine) { e.bcryptCost = cost }
}

// NewEngine creates a ledger engine on top of db.
func NewEngine(db *gorm.DB, opts ...Option) *Engine {
	e := &Engine{
		db:         db,
		log:        logrus.StandardLogger(),
		metrics:    metrics.NoOpRecorder{},
		newID:      uuid.NewString,
		bcryptCost: 10,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ping checks the store connection.
func (e *Engine) Ping(ctx context.Context) error {
	sqlDB, err := e.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// unitOfWork runs fn inside one store transaction. The transaction is
// committed when fn returns nil and rolled back on error or panic.
func (e *Engine) unitOfWork(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return e.db.WithContext(ctx).Transaction(fn, e.txOptions...)
}

// observe records the outcome of an operation that started at start.
func (e *Engine) observe(op string, start time.Time, err error) {
	e.metrics.RecordOperation(op, Classify(err), time.Since(start))
}

// lockWalletByUser loads the user's wallet and holds its row lock until the
// surrounding transaction ends.
func lockWalletByUser(tx *gorm.DB, userID uint) (*domain.Wallet, error) {
	var w domain.Wallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Take(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock wallet of user %d: %w", userID, err)
	}
	return &w, nil
}

// lockWalletsInOrder locks the wallets of the given users in ascending wallet
// id order, so two transfers over the same pair of wallets can never wait on
// each other in a cycle. The result is keyed by user id.
func lockWalletsInOrder(tx *gorm.DB, userIDs ...uint) (map[uint]*domain.Wallet, error) {
	var refs []domain.Wallet
	if err := tx.Select("id", "user_id").Where("user_id IN ?", userIDs).Find(&refs).Error; err != nil {
		return nil, fmt.Errorf("resolve wallets: %w", err)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })

	locked := make(map[uint]*domain.Wallet, len(refs))
	for _, ref := range refs {
		var w domain.Wallet
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Take(&w, ref.ID).Error; err != nil {
			return nil, fmt.Errorf("lock wallet %d: %w", ref.ID, err)
		}
		locked[w.UserID] = &w
	}
	return locked, nil
}

// setBalance writes the new balance of a locked wallet.
func (e *Engine) setBalance(tx *gorm.DB, w *domain.Wallet, fields map[string]any) error {
	now := e.now()
	fields["last_updated"] = now
	if err := tx.Model(&domain.Wallet{}).Where("id = ?", w.ID).Updates(fields).Error; err != nil {
		return fmt.Errorf("update wallet %d: %w", w.ID, err)
	}
	w.LastUpdated = now
	return nil
}

// userExists reports whether a user row exists.
func userExists(tx *gorm.DB, userID uint) (bool, error) {
	var n int64
	if err := tx.Model(&domain.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return false, fmt.Errorf("lookup user %d: %w", userID, err)
	}
	return n > 0, nil
}
