package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet_ledger/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserCreate carries the fields of a new user.
type UserCreate struct {
	Username    string
	Email       string
	Password    string
	PhoneNumber *string
}

// UserUpdate carries the fields to change. Nil fields are left untouched.
type UserUpdate struct {
	Username    *string
	Email       *string
	Password    *string
	PhoneNumber *string
}

// CreateUser registers a user and their empty wallet in one unit of work.
func (e *Engine) CreateUser(ctx context.Context, in UserCreate) (u *domain.User, err error) {
	defer func(start time.Time) { e.observe(opCreateUser, start, err) }(time.Now())

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), e.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	u = &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		PhoneNumber:  in.PhoneNumber,
	}
	err = e.unitOfWork(ctx, func(tx *gorm.DB) error {
		if err := ensureUnique(tx, 0, in.Username, in.Email); err != nil {
			return err
		}
		if err := tx.Create(u).Error; err != nil {
			return translateWriteError("create user", err)
		}
		w := domain.Wallet{UserID: u.ID, Balance: decimal.Zero, LastUpdated: e.now()}
		if err := tx.Create(&w).Error; err != nil {
			return fmt.Errorf("create wallet: %w", err)
		}
		u.Wallet = &w
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{"user_id": u.ID, "wallet_id": u.Wallet.ID}).Info("User created")
	return u, nil
}

// GetUser returns the user with the given id.
func (e *Engine) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	err := e.db.WithContext(ctx).Take(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

// ListUsers returns one page of users ordered by id.
func (e *Engine) ListUsers(ctx context.Context, page, size int) (*Page[domain.User], error) {
	page, size = normalizePage(page, size)

	var total int64
	if err := e.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	users := []domain.User{}
	if err := e.db.WithContext(ctx).Order("id ASC").Offset((page - 1) * size).Limit(size).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return newPage(users, page, size, total), nil
}

// UpdateUser merges the non-nil fields of in into the stored user.
func (e *Engine) UpdateUser(ctx context.Context, id uint, in UserUpdate) (u *domain.User, err error) {
	defer func(start time.Time) { e.observe(opUpdateUser, start, err) }(time.Now())

	changes := map[string]any{}
	if in.Username != nil {
		changes["username"] = *in.Username
	}
	if in.Email != nil {
		changes["email"] = *in.Email
	}
	if in.PhoneNumber != nil {
		changes["phone_number"] = *in.PhoneNumber
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), e.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		changes["password"] = string(hash)
	}

	u = new(domain.User)
	err = e.unitOfWork(ctx, func(tx *gorm.DB) error {
		if err := tx.Take(u, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("get user %d: %w", id, err)
		}
		if len(changes) == 0 {
			return nil
		}
		username, email := "", ""
		if in.Username != nil {
			username = *in.Username
		}
		if in.Email != nil {
			email = *in.Email
		}
		if err := ensureUnique(tx, id, username, email); err != nil {
			return err
		}
		if err := tx.Model(u).Updates(changes).Error; err != nil {
			return translateWriteError("update user", err)
		}
		return tx.Take(u, id).Error
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteUser removes the user together with their transactions and wallet.
// Users who took part in a transfer cannot be deleted: the transfer owns one
// leg in each party's history, and removing one side would orphan the other.
func (e *Engine) DeleteUser(ctx context.Context, id uint) (u *domain.User, err error) {
	defer func(start time.Time) { e.observe(opDeleteUser, start, err) }(time.Now())

	u = new(domain.User)
	err = e.unitOfWork(ctx, func(tx *gorm.DB) error {
		if err := tx.Take(u, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("get user %d: %w", id, err)
		}
		var transfers int64
		if err := tx.Model(&domain.Transfer{}).
			Where("sender_user_id = ? OR recipient_user_id = ?", id, id).
			Count(&transfers).Error; err != nil {
			return fmt.Errorf("count transfers of user %d: %w", id, err)
		}
		if transfers > 0 {
			return ErrUserHasTransfers
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.Transaction{}).Error; err != nil {
			return fmt.Errorf("delete transactions of user %d: %w", id, err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.Wallet{}).Error; err != nil {
			return fmt.Errorf("delete wallet of user %d: %w", id, err)
		}
		if err := tx.Delete(&domain.User{}, id).Error; err != nil {
			return fmt.Errorf("delete user %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.WithField("user_id", id).Info("User deleted")
	return u, nil
}

// ensureUnique rejects a username or email already taken by another user.
// Empty values are not checked.
func ensureUnique(tx *gorm.DB, selfID uint, username, email string) error {
	if username == "" && email == "" {
		return nil
	}
	q := tx.Model(&domain.User{}).Where("id <> ?", selfID)
	switch {
	case username != "" && email != "":
		q = q.Where("username = ? OR email = ?", username, email)
	case username != "":
		q = q.Where("username = ?", username)
	default:
		q = q.Where("email = ?", email)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return fmt.Errorf("check unique user: %w", err)
	}
	if n > 0 {
		return ErrDuplicateUser
	}
	return nil
}

// translateWriteError maps a unique-index violation that raced past
// ensureUnique onto ErrDuplicateUser.
func translateWriteError(what string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateUser
	}
	return fmt.Errorf("%s: %w", what, err)
}
