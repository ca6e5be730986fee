package service

import (
	"context"
	"errors"

	"sealedauction/internal/apperr"
	"sealedauction/internal/infrastructure/database"
	"sealedauction/internal/model"
	"sealedauction/internal/money"
	"sealedauction/internal/repository"
	"sealedauction/pkg/idgen"

	"gorm.io/gorm"
)

// WalletService implements spec.md §4.3: createUser, topup, getUser,
// getLedger. Grounded on the teacher's AccountService, generalized so that
// every mutation appends a ledger row (the teacher's PayService and
// RefundService do this; its own Recharge skips it).
type WalletService struct {
	db         *gorm.DB
	userRepo   *repository.UserRepository
	ledgerRepo *repository.LedgerRepository
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{
		db:         db,
		userRepo:   repository.NewUserRepository(db),
		ledgerRepo: repository.NewLedgerRepository(db),
	}
}

func (s *WalletService) CreateUser(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{
		ID:       idgen.GenerateUserID(),
		Username: username,
	}
	if err := s.userRepo.Create(ctx, nil, user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, apperr.Of(apperr.CodeUsernameTaken)
		}
		return nil, err
	}
	return user, nil
}

func (s *WalletService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.Of(apperr.CodeUserNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *WalletService) GetLedger(ctx context.Context, userID string, limit int) ([]*model.LedgerEntry, error) {
	return s.ledgerRepo.ListByUserID(ctx, userID, limit)
}

// Topup credits availableCents and appends one TOPUP ledger row, atomically.
func (s *WalletService) Topup(ctx context.Context, userID string, amountCents int64) (*model.User, error) {
	if err := money.ValidatePositiveCents(amountCents); err != nil {
		return nil, apperr.Of(apperr.CodeAmountMustBePositive)
	}

	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := s.userRepo.GetByIDTx(ctx, tx, userID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return apperr.Of(apperr.CodeUserNotFound)
			}
			return err
		}

		if err := s.userRepo.Topup(ctx, tx, userID, amountCents); err != nil {
			return err
		}

		entry := &model.LedgerEntry{
			UserID:      userID,
			Kind:        model.LedgerKindTopup,
			AmountCents: amountCents,
			RefType:     "topup",
			RefID:       userID + ":" + idgen.NewToken(),
		}
		return s.ledgerRepo.Append(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, userID)
}
