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

// Receipt is the result of a committed deposit or withdrawal.
type Receipt struct {
	Wallet      domain.Wallet
	Transaction domain.Transaction
}

// GetWallet returns the wallet owned by userID.
func (e *Engine) GetWallet(ctx context.Context, userID uint) (w *domain.Wallet, err error) {
	defer func(start time.Time) { e.observe(opGetWallet, start, err) }(time.Now())

	w = new(domain.Wallet)
	err = e.db.WithContext(ctx).Where("user_id = ?", userID).Take(w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get wallet of user %d: %w", userID, err)
	}
	return w, nil
}

// Deposit credits amount to the user's wallet and appends a CREDIT transaction.
func (e *Engine) Deposit(ctx context.Context, userID uint, amount decimal.Decimal, description string) (r *Receipt, err error) {
	defer func(start time.Time) { e.observe(opDeposit, start, err) }(time.Now())
	return e.apply(ctx, opDeposit, userID, domain.Credit, amount, description)
}

// Withdraw debits amount from the user's wallet and appends a DEBIT
// transaction. It fails with *InsufficientBalanceError, changing nothing,
// when the balance does not cover amount.
func (e *Engine) Withdraw(ctx context.Context, userID uint, amount decimal.Decimal, description string) (r *Receipt, err error) {
	defer func(start time.Time) { e.observe(opWithdraw, start, err) }(time.Now())
	return e.apply(ctx, opWithdraw, userID, domain.Debit, amount, description)
}

// apply is the shared single-wallet unit of work behind Deposit and Withdraw.
func (e *Engine) apply(ctx context.Context, op string, userID uint, typ domain.TransactionType, amount decimal.Decimal, description string) (*Receipt, error) {
	fields := logrus.Fields{"user_id": userID, "amount": amount.StringFixed(2), "type": string(typ)}
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	var receipt Receipt
	err := e.unitOfWork(ctx, func(tx *gorm.DB) error {
		w, err := lockWalletByUser(tx, userID)
		if err != nil {
			return err
		}

		balance := w.Balance.Add(amount)
		if typ == domain.Credit {
			if err := checkBalanceLimit(balance); err != nil {
				return err
			}
		}
		if typ == domain.Debit {
			if w.Balance.LessThan(amount) {
				return &InsufficientBalanceError{Current: w.Balance, Required: amount}
			}
			balance = w.Balance.Sub(amount)
		}

		if err := e.setBalance(tx, w, map[string]any{"balance": balance, "description": description}); err != nil {
			return err
		}

		t := domain.Transaction{
			UserID:      userID,
			WalletID:    w.ID,
			Type:        typ,
			Amount:      amount,
			Description: description,
		}
		if err := tx.Create(&t).Error; err != nil {
			return fmt.Errorf("record %s transaction: %w", typ, err)
		}

		w.Balance = balance
		w.Description = description
		receipt = Receipt{Wallet: *w, Transaction: t}
		return nil
	})
	if err != nil {
		e.logFailure(op, fields, err)
		return nil, err
	}

	fields["wallet_id"] = receipt.Wallet.ID
	fields["transaction_id"] = receipt.Transaction.ID
	fields["new_balance"] = receipt.Wallet.Balance.StringFixed(2)
	e.log.WithFields(fields).Info("Wallet " + op)
	return &receipt, nil
}

// logFailure logs business rejections at warn and store faults at error.
func (e *Engine) logFailure(op string, fields logrus.Fields, err error) {
	entry := e.log.WithFields(fields).WithField("outcome", Classify(err))
	if Classify(err) == OutcomeInternal {
		entry.WithError(err).Error(op + " failed")
		return
	}
	entry.WithField("reason", err.Error()).Warn(op + " rejected")
}
