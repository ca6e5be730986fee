package repository

import (
	"context"
	"errors"
	"strings"

	"sealedauction/internal/model"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrBalanceNotEnough = errors.New("available balance not enough")
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, tx *gorm.DB, user *model.User) error {
	if tx == nil {
		tx = r.db
	}
	err := tx.WithContext(ctx).Create(user).Error
	if isDuplicateKeyErr(err) {
		return ErrUsernameTaken
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByIDTx is the same lookup bound to a transaction, for reads that must
// observe prior writes in the same transaction.
func (r *UserRepository) GetByIDTx(ctx context.Context, tx *gorm.DB, userID string) (*model.User, error) {
	var user model.User
	err := tx.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Reserve moves delta cents from available to reserved, gated on
// available_cents >= delta, mirroring the teacher's Account.Deduct
// conditional-update-plus-RowsAffected pattern. That predicate alone is
// enough to make the update atomic against concurrent Reserve/Topup/
// ChargeReserved/RefundReserved calls on the same row — it does not also
// gate on version, since a version check would fail (and force a caller to
// retry) on any unrelated concurrent write to the same user row, even one
// that left the balance comfortably sufficient.
func (r *UserRepository) Reserve(ctx context.Context, tx *gorm.DB, userID string, delta int64) error {
	result := tx.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND available_cents >= ?", userID, delta).
		Updates(map[string]interface{}{
			"available_cents": gorm.Expr("available_cents - ?", delta),
			"reserved_cents":  gorm.Expr("reserved_cents + ?", delta),
			"version":         gorm.Expr("version + 1"),
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrBalanceNotEnough
	}

	return nil
}

// ChargeReserved converts amount cents from reserved into a permanent
// charge (simply removes them from reserved — the money left the wallet).
// Gated on reserved_cents >= amount so a charge can never push reserved
// negative (spec.md's INVARIANT_RESERVED_LT_BID guard).
func (r *UserRepository) ChargeReserved(ctx context.Context, tx *gorm.DB, userID string, amount int64) error {
	result := tx.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND reserved_cents >= ?", userID, amount).
		Updates(map[string]interface{}{
			"reserved_cents": gorm.Expr("reserved_cents - ?", amount),
			"version":        gorm.Expr("version + 1"),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReservedLessThanBid
	}
	return nil
}

// RefundReserved moves amount cents from reserved back to available.
func (r *UserRepository) RefundReserved(ctx context.Context, tx *gorm.DB, userID string, amount int64) error {
	result := tx.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND reserved_cents >= ?", userID, amount).
		Updates(map[string]interface{}{
			"reserved_cents":  gorm.Expr("reserved_cents - ?", amount),
			"available_cents": gorm.Expr("available_cents + ?", amount),
			"version":         gorm.Expr("version + 1"),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReservedLessThanBid
	}
	return nil
}

// Topup increases available_cents unconditionally (amount already
// validated positive by the caller).
func (r *UserRepository) Topup(ctx context.Context, tx *gorm.DB, userID string, amount int64) error {
	result := tx.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"available_cents": gorm.Expr("available_cents + ?", amount),
			"version":         gorm.Expr("version + 1"),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

var ErrReservedLessThanBid = errors.New("reserved balance less than bid amount")

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	// MySQL duplicate-key error text, matched the same loose way the
	// teacher's repositories fall back to gorm.ErrRecordNotFound checks —
	// a driver-specific error code check would require importing the
	// mysql driver's error type here, which the teacher never does either.
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "duplicate key")
}
