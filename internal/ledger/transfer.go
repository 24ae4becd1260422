package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet_ledger/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TransferRequest describes one peer-to-peer payment.
type TransferRequest struct {
	SenderUserID    uint
	RecipientUserID uint
	Amount          decimal.Decimal
	Description     string
}

// TransferResult is returned for a committed transfer.
type TransferResult struct {
	TransferID             string                `json:"transfer_id"`
	SenderTransactionID    uint                  `json:"sender_transaction_id"`
	RecipientTransactionID uint                  `json:"recipient_transaction_id"`
	Amount                 decimal.Decimal       `json:"amount"`
	SenderNewBalance       decimal.Decimal       `json:"sender_new_balance"`
	RecipientNewBalance    decimal.Decimal       `json:"recipient_new_balance"`
	Status                 domain.TransferStatus `json:"status"`
}

// CreateTransfer debits the sender, credits the recipient and records the
// Transfer with its TRANSFER_OUT and TRANSFER_IN legs in a single unit of
// work. On any error nothing is persisted; the attempt only shows up in the
// logs and metrics.
func (e *Engine) CreateTransfer(ctx context.Context, req TransferRequest) (res *TransferResult, err error) {
	defer func(start time.Time) { e.observe(opTransfer, start, err) }(time.Now())

	fields := logrus.Fields{
		"sender_user_id":    req.SenderUserID,
		"recipient_user_id": req.RecipientUserID,
		"amount":            req.Amount.StringFixed(2),
	}
	defer func() {
		if err != nil {
			e.logFailure(opTransfer, fields, err)
		}
	}()

	if req.SenderUserID == req.RecipientUserID {
		return nil, ErrSelfTransfer
	}
	if err := ValidateAmount(req.Amount); err != nil {
		return nil, err
	}

	err = e.unitOfWork(ctx, func(tx *gorm.DB) error {
		var err error
		res, err = e.transfer(tx, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	fields["transfer_id"] = res.TransferID
	fields["sender_new_balance"] = res.SenderNewBalance.StringFixed(2)
	fields["recipient_new_balance"] = res.RecipientNewBalance.StringFixed(2)
	e.log.WithFields(fields).Info("Transfer completed")
	return res, nil
}

// transfer runs inside the unit of work opened by CreateTransfer.
func (e *Engine) transfer(tx *gorm.DB, req TransferRequest) (*TransferResult, error) {
	for _, party := range []struct {
		role string
		id   uint
	}{{"sender", req.SenderUserID}, {"recipient", req.RecipientUserID}} {
		ok, err := userExists(tx, party.id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%s %w", party.role, ErrUserNotFound)
		}
	}

	wallets, err := lockWalletsInOrder(tx, req.SenderUserID, req.RecipientUserID)
	if err != nil {
		return nil, err
	}
	sender, ok := wallets[req.SenderUserID]
	if !ok {
		return nil, fmt.Errorf("sender %w", ErrWalletNotFound)
	}
	recipient, ok := wallets[req.RecipientUserID]
	if !ok {
		return nil, fmt.Errorf("recipient %w", ErrWalletNotFound)
	}

	if sender.Balance.LessThan(req.Amount) {
		return nil, &InsufficientBalanceError{Current: sender.Balance, Required: req.Amount}
	}

	if err := checkBalanceLimit(recipient.Balance.Add(req.Amount)); err != nil {
		return nil, fmt.Errorf("recipient: %w", err)
	}

	transfer := domain.Transfer{
		ID:              e.newID(),
		SenderUserID:    req.SenderUserID,
		RecipientUserID: req.RecipientUserID,
		Amount:          req.Amount,
		Description:     req.Description,
		Status:          domain.TransferCompleted,
	}
	if err := tx.Create(&transfer).Error; err != nil {
		return nil, fmt.Errorf("create transfer: %w", err)
	}

	recipientID := req.RecipientUserID
	out := domain.Transaction{
		UserID:                 req.SenderUserID,
		WalletID:               sender.ID,
		Type:                   domain.TransferOut,
		Amount:                 req.Amount,
		Description:            fmt.Sprintf("Transfer to user %d: %s", req.RecipientUserID, req.Description),
		ReferenceTransactionID: &transfer.ID,
		RecipientUserID:        &recipientID,
	}
	if err := tx.Create(&out).Error; err != nil {
		return nil, fmt.Errorf("record sender transaction: %w", err)
	}

	in := domain.Transaction{
		UserID:                 req.RecipientUserID,
		WalletID:               recipient.ID,
		Type:                   domain.TransferIn,
		Amount:                 req.Amount,
		Description:            fmt.Sprintf("Transfer from user %d: %s", req.SenderUserID, req.Description),
		ReferenceTransactionID: &transfer.ID,
		RecipientUserID:        &recipientID,
	}
	if err := tx.Create(&in).Error; err != nil {
		return nil, fmt.Errorf("record recipient transaction: %w", err)
	}

	senderBalance := sender.Balance.Sub(req.Amount)
	recipientBalance := recipient.Balance.Add(req.Amount)
	if err := e.setBalance(tx, sender, map[string]any{"balance": senderBalance}); err != nil {
		return nil, err
	}
	if err := e.setBalance(tx, recipient, map[string]any{"balance": recipientBalance}); err != nil {
		return nil, err
	}

	if err := tx.Model(&domain.Transfer{}).Where("id = ?", transfer.ID).Updates(map[string]any{
		"sender_transaction_id":    out.ID,
		"recipient_transaction_id": in.ID,
	}).Error; err != nil {
		return nil, fmt.Errorf("link transfer transactions: %w", err)
	}

	return &TransferResult{
		TransferID:             transfer.ID,
		SenderTransactionID:    out.ID,
		RecipientTransactionID: in.ID,
		Amount:                 req.Amount,
		SenderNewBalance:       senderBalance,
		RecipientNewBalance:    recipientBalance,
		Status:                 domain.TransferCompleted,
	}, nil
}

// GetTransfer returns the transfer with the given id.
func (e *Engine) GetTransfer(ctx context.Context, id string) (t *domain.Transfer, err error) {
	defer func(start time.Time) { e.observe(opGetTransfer, start, err) }(time.Now())

	t = new(domain.Transfer)
	err = e.db.WithContext(ctx).Where("id = ?", id).Take(t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransferNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transfer %s: %w", id, err)
	}
	return t, nil
}
