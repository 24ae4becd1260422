package ledger

import (
	"context"
	"fmt"
	"time"

	"wallet_ledger/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetTransactions returns the user's transactions in creation order.
func (e *Engine) GetTransactions(ctx context.Context, userID uint) (txs []domain.Transaction, err error) {
	defer func(start time.Time) { e.observe(opGetTransactions, start, err) }(time.Now())

	txs = []domain.Transaction{}
	if err = e.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("get transactions of user %d: %w", userID, err)
	}
	return txs, nil
}

// CountTransactions returns how many transactions the user has.
func (e *Engine) CountTransactions(ctx context.Context, userID uint) (int64, error) {
	var n int64
	if err := e.db.WithContext(ctx).Model(&domain.Transaction{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count transactions of user %d: %w", userID, err)
	}
	return n, nil
}

// TransactionFilter narrows ListTransactions. Zero values match everything.
// From and To may carry any offset; they are compared in UTC.
type TransactionFilter struct {
	UserID   uint
	Type     domain.TransactionType
	From     time.Time
	To       time.Time
	Page     int
	PageSize int
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
}

// Pagination defaults.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// normalizePage clamps page and size to sane values.
func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return page, size
}

func newPage[T any](items []T, page, size int, total int64) *Page[T] {
	return &Page[T]{
		Items:      items,
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: (int(total) + size - 1) / size,
	}
}

// ListTransactions returns transactions across all users, newest first.
func (e *Engine) ListTransactions(ctx context.Context, f TransactionFilter) (*Page[domain.Transaction], error) {
	page, size := normalizePage(f.Page, f.PageSize)

	query := e.db.WithContext(ctx).Model(&domain.Transaction{})
	if f.UserID != 0 {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Type != "" {
		query = query.Where("transaction_type = ?", f.Type)
	}
	if !f.From.IsZero() {
		query = query.Where("created_at >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		query = query.Where("created_at <= ?", f.To.UTC())
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count transactions: %w", err)
	}
	txs := []domain.Transaction{}
	if err := query.Session(&gorm.Session{}).Order("id DESC").Offset((page - 1) * size).Limit(size).Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return newPage(txs, page, size, total), nil
}

// TransactionCreate is a raw transaction request against a user's wallet.
type TransactionCreate struct {
	UserID      uint
	WalletID    uint
	Type        domain.TransactionType
	Amount      decimal.Decimal
	Description string
}

// RecordTransaction applies a raw CREDIT or DEBIT through Deposit or
// Withdraw so the wallet balance always matches its history. Transfer legs
// can only be created by CreateTransfer.
func (e *Engine) RecordTransaction(ctx context.Context, req TransactionCreate) (*domain.Transaction, error) {
	var apply func(context.Context, uint, decimal.Decimal, string) (*Receipt, error)
	switch req.Type {
	case domain.Credit:
		apply = e.Deposit
	case domain.Debit:
		apply = e.Withdraw
	case domain.TransferIn, domain.TransferOut:
		return nil, ErrUnsupportedType
	default:
		return nil, fmt.Errorf("%w: unknown transaction type %q", ErrInvalidArgument, req.Type)
	}

	w, err := e.GetWallet(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if w.ID != req.WalletID {
		return nil, ErrWalletMismatch
	}

	r, err := apply(ctx, req.UserID, req.Amount, req.Description)
	if err != nil {
		return nil, err
	}
	return &r.Transaction, nil
}
