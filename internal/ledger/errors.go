package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error classes. Every error returned by the engine matches at most one of
// them through errors.Is; anything else is an unexpected store fault.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
)

// Specific errors.
var (
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrWalletNotFound   = fmt.Errorf("wallet %w", ErrNotFound)
	ErrTransferNotFound = fmt.Errorf("transfer %w", ErrNotFound)

	ErrInvalidAmount   = fmt.Errorf("%w: amount must be positive with at most two decimal places", ErrInvalidArgument)
	ErrSelfTransfer    = fmt.Errorf("%w: cannot transfer to the same user", ErrInvalidArgument)
	ErrUnsupportedType = fmt.Errorf("%w: transfer transactions must be created through a transfer", ErrInvalidArgument)
	ErrWalletMismatch  = fmt.Errorf("%w: wallet does not belong to user", ErrInvalidArgument)
	ErrAmountTooLarge  = fmt.Errorf("%w: amount exceeds %s", ErrInvalidArgument, MaxAmount.StringFixed(2))
	ErrBalanceLimit    = fmt.Errorf("%w: resulting balance would exceed %s", ErrInvalidArgument, MaxAmount.StringFixed(2))

	ErrDuplicateUser    = fmt.Errorf("%w: username or email already registered", ErrConflict)
	ErrUserHasTransfers = fmt.Errorf("%w: user has transfer history", ErrConflict)
)

// InsufficientBalanceError is returned when a debit exceeds the wallet balance.
// No state has changed when it is returned.
type InsufficientBalanceError struct {
	Current  decimal.Decimal
	Required decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: current %s, required %s", e.Current.StringFixed(2), e.Required.StringFixed(2))
}

// IsInsufficientBalance reports whether err carries an InsufficientBalanceError.
func IsInsufficientBalance(err error) bool {
	var ib *InsufficientBalanceError
	return errors.As(err, &ib)
}

// Outcome labels returned by Classify.
const (
	OutcomeOK                  = "ok"
	OutcomeNotFound            = "not_found"
	OutcomeInvalidArgument     = "invalid_argument"
	OutcomeInsufficientBalance = "insufficient_balance"
	OutcomeConflict            = "conflict"
	OutcomeInternal            = "internal"
)

// Classify returns a stable label for err, used for metrics and logs.
func Classify(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case IsInsufficientBalance(err):
		return OutcomeInsufficientBalance
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrInvalidArgument):
		return OutcomeInvalidArgument
	case errors.Is(err, ErrConflict):
		return OutcomeConflict
	default:
		return OutcomeInternal
	}
}

// MaxAmount is the largest value a decimal(12,2) money column holds. It
// bounds both single amounts and wallet balances.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// ValidateAmount checks that amount is strictly positive, has at most two
// decimal places and fits a money column.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.Sign() <= 0 || !amount.Equal(amount.Round(2)) {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(MaxAmount) {
		return ErrAmountTooLarge
	}
	return nil
}

// checkBalanceLimit rejects a credit that would push a balance past MaxAmount.
func checkBalanceLimit(balance decimal.Decimal) error {
	if balance.GreaterThan(MaxAmount) {
		return ErrBalanceLimit
	}
	return nil
}
