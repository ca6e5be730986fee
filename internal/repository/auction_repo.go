package repository

import (
	"context"
	"errors"
	"time"

	"sealedauction/internal/model"

	"gorm.io/gorm"
)

var (
	ErrAuctionNotFound  = errors.New("auction not found")
	ErrLeaseNotAcquired = errors.New("settlement lease not acquired")
)

type AuctionRepository struct {
	db *gorm.DB
}

func NewAuctionRepository(db *gorm.DB) *AuctionRepository {
	return &AuctionRepository{db: db}
}

func (r *AuctionRepository) Create(ctx context.Context, auction *model.Auction) error {
	return r.db.WithContext(ctx).Create(auction).Error
}

func (r *AuctionRepository) GetByID(ctx context.Context, auctionID string) (*model.Auction, error) {
	var auction model.Auction
	err := r.db.WithContext(ctx).Where("id = ?", auctionID).First(&auction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}
	return &auction, nil
}

func (r *AuctionRepository) GetByIDTx(ctx context.Context, tx *gorm.DB, auctionID string) (*model.Auction, error) {
	var auction model.Auction
	err := tx.WithContext(ctx).Where("id = ?", auctionID).First(&auction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}
	return &auction, nil
}

// Start transitions draft -> running and opens round 1, same conditional-
// update-plus-RowsAffected gate as the teacher's OrderRepository.UpdateStatus.
func (r *AuctionRepository) Start(ctx context.Context, auctionID string, now time.Time, roundDurationSec int) error {
	endsAt := now.Add(time.Duration(roundDurationSec) * time.Second)
	result := r.db.WithContext(ctx).
		Model(&model.Auction{}).
		Where("id = ? AND status = ?", auctionID, model.AuctionStatusDraft).
		Updates(map[string]interface{}{
			"status":                   model.AuctionStatusRunning,
			"current_round":            1,
			"current_round_started_at": now,
			"current_round_ends_at":    endsAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAuctionNotFound
	}
	return nil
}

// AcquireLease implements spec.md §4.5 step 1: match
// {status=running, currentRoundEndsAt<=now, settling!=true}, set
// {settling=true, settlingLockId, settlingAt=now}. Returns the updated
// auction on success, ErrLeaseNotAcquired if no row matched (another
// worker has it, the round isn't due, or the auction moved on).
func (r *AuctionRepository) AcquireLease(ctx context.Context, tx *gorm.DB, auctionID, lockID string, now time.Time) (*model.Auction, error) {
	result := tx.WithContext(ctx).
		Model(&model.Auction{}).
		Where("id = ? AND status = ? AND current_round_ends_at <= ? AND settling = ?",
			auctionID, model.AuctionStatusRunning, now, false).
		Updates(map[string]interface{}{
			"settling":         true,
			"settling_lock_id": lockID,
			"settling_at":      now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrLeaseNotAcquired
	}
	return r.GetByIDTx(ctx, tx, auctionID)
}

// ReleaseLease clears the settling flag, fenced on lockID so a worker can
// never release a lease it does not hold.
func (r *AuctionRepository) ReleaseLease(ctx context.Context, tx *gorm.DB, auctionID, lockID string) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).
		Model(&model.Auction{}).
		Where("id = ? AND settling_lock_id = ?", auctionID, lockID).
		Updates(map[string]interface{}{
			"settling":         false,
			"settling_lock_id": "",
			"settling_at":      nil,
		}).Error
}

// ForceReleaseStaleLeases clears settling on every auction whose lease was
// acquired before the cutoff — the spec's 2-minute stale-lease sweep.
func (r *AuctionRepository) ForceReleaseStaleLeases(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Auction{}).
		Where("settling = ? AND settling_at <= ?", true, cutoff).
		Updates(map[string]interface{}{
			"settling":         false,
			"settling_lock_id": "",
			"settling_at":      nil,
		})
	return result.RowsAffected, result.Error
}

// ListDue returns the id and current round of every running auction whose
// round has ended, for the scheduler's due-scan.
func (r *AuctionRepository) ListDue(ctx context.Context, now time.Time) ([]*model.Auction, error) {
	var auctions []*model.Auction
	err := r.db.WithContext(ctx).
		Select("id", "current_round").
		Where("status = ? AND current_round_ends_at <= ?", model.AuctionStatusRunning, now).
		Find(&auctions).Error
	return auctions, err
}

// AdvanceAfterWinners decrements remaining_items/increments next_gift_number in
// the same transaction as the per-winner charge.
func (r *AuctionRepository) AdvanceAfterWinners(ctx context.Context, tx *gorm.DB, auctionID string, winnerCount int) error {
	return tx.WithContext(ctx).
		Model(&model.Auction{}).
		Where("id = ?", auctionID).
		Updates(map[string]interface{}{
			"remaining_items":  gorm.Expr("remaining_items - ?", winnerCount),
			"next_gift_number": gorm.Expr("next_gift_number + ?", winnerCount),
		}).Error
}

// AdvanceRound moves the auction into its next round.
func (r *AuctionRepository) AdvanceRound(ctx context.Context, tx *gorm.DB, auctionID string, now time.Time, roundDurationSec int) error {
	endsAt := now.Add(time.Duration(roundDurationSec) * time.Second)
	return tx.WithContext(ctx).
		Model(&model.Auction{}).
		Where("id = ?", auctionID).
		Updates(map[string]interface{}{
			"current_round":                gorm.Expr("current_round + 1"),
			"current_round_started_at":     now,
			"current_round_ends_at":        endsAt,
			"current_round_extended_by_sec": 0,
		}).Error
}

// EndAuction marks the auction terminal and clears round timers.
func (r *AuctionRepository) EndAuction(ctx context.Context, tx *gorm.DB, auctionID string) error {
	return tx.WithContext(ctx).
		Model(&model.Auction{}).
		Where("id = ?", auctionID).
		Updates(map[string]interface{}{
			"status":                        model.AuctionStatusEnded,
			"current_round_started_at":      nil,
			"current_round_ends_at":         nil,
			"current_round_extended_by_sec": 0,
		}).Error
}

// ExtendRound applies an anti-snipe extension inside the PlaceBid
// transaction. The new deadline and running total are computed relative to
// the columns' current values via gorm.Expr, not the caller's possibly-
// stale read, so two concurrent extensions compose instead of one clobbering
// the other — the same guarded-relative-update pattern user_repo.go uses for
// wallet fields. The update is gated on the round still being the one the
// caller observed and the auction still running, so an extension computed
// before a concurrent SettleRound ended the auction can never resurrect its
// round timer after the fact. Returns false, nil (not an error) if the
// round had already advanced or ended by the time this ran.
//
// When maxTotalExtensionSec is positive, the actual increment applied is
// LEAST(extensionSec, remaining budget) where "remaining budget" is
// maxTotalExtensionSec minus the row's own current_round_extended_by_sec —
// evaluated by MySQL against the pre-update row in the same statement as
// the write, not against a snapshot this transaction read earlier. Two
// concurrent PlaceBid calls extending the same round therefore each clamp
// against the other's already-committed total instead of both clamping
// against the same stale snapshot and together overrunning the cap.
// maxTotalExtensionSec == 0 means unlimited: the full extensionSec is
// always applied.
func (r *AuctionRepository) ExtendRound(ctx context.Context, tx *gorm.DB, auctionID string, round, extensionSec, maxTotalExtensionSec int) (bool, error) {
	db := tx.WithContext(ctx).
		Model(&model.Auction{}).
		Where("id = ? AND status = ? AND current_round = ?", auctionID, model.AuctionStatusRunning, round)

	var result *gorm.DB
	if maxTotalExtensionSec > 0 {
		result = db.Updates(map[string]interface{}{
			"current_round_ends_at": gorm.Expr(
				"DATE_ADD(current_round_ends_at, INTERVAL LEAST(?, GREATEST(? - current_round_extended_by_sec, 0)) SECOND)",
				extensionSec, maxTotalExtensionSec),
			"current_round_extended_by_sec": gorm.Expr(
				"current_round_extended_by_sec + LEAST(?, GREATEST(? - current_round_extended_by_sec, 0))",
				extensionSec, maxTotalExtensionSec),
		})
	} else {
		result = db.Updates(map[string]interface{}{
			"current_round_ends_at":         gorm.Expr("DATE_ADD(current_round_ends_at, INTERVAL ? SECOND)", extensionSec),
			"current_round_extended_by_sec": gorm.Expr("current_round_extended_by_sec + ?", extensionSec),
		})
	}
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
