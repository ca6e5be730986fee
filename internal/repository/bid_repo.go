package repository

import (
	"context"
	"errors"
	"time"

	"sealedauction/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrBidNotFound = errors.New("bid not found")

type BidRepository struct {
	db *gorm.DB
}

func NewBidRepository(db *gorm.DB) *BidRepository {
	return &BidRepository{db: db}
}

// GetForUpdate loads the bid row for (auctionID,userID,entryID) within tx,
// locked for update so concurrent PlaceBid calls on the same triple
// serialize at the transaction layer.
func (r *BidRepository) GetForUpdate(ctx context.Context, tx *gorm.DB, auctionID, userID, entryID string) (*model.Bid, error) {
	var bid model.Bid
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("auction_id = ? AND user_id = ? AND entry_id = ?", auctionID, userID, entryID).
		First(&bid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBidNotFound
		}
		return nil, err
	}
	return &bid, nil
}

// Upsert inserts a new bid row or raises an existing one's amount, per
// spec.md §4.4 step 6.
func (r *BidRepository) Upsert(ctx context.Context, tx *gorm.DB, auctionID, userID, entryID string, amountCents int64, now time.Time, existing *model.Bid) error {
	if existing == nil {
		bid := &model.Bid{
			AuctionID:   auctionID,
			UserID:      userID,
			EntryID:     entryID,
			AmountCents: amountCents,
			Active:      true,
			LastBidAt:   now,
		}
		return tx.WithContext(ctx).Create(bid).Error
	}
	return tx.WithContext(ctx).
		Model(&model.Bid{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"amount_cents": amountCents,
			"active":       true,
			"last_bid_at":  now,
		}).Error
}

// TopActive fetches up to K active bids for an auction, ordered by the
// spec's winner-selection order: amount desc, lastBidAt asc, id asc as the
// final deterministic tiebreaker.
func (r *BidRepository) TopActive(ctx context.Context, tx *gorm.DB, auctionID string, k int) ([]*model.Bid, error) {
	var bids []*model.Bid
	err := tx.WithContext(ctx).
		Where("auction_id = ? AND active = ?", auctionID, true).
		Order("amount_cents DESC, last_bid_at ASC, id ASC").
		Limit(k).
		Find(&bids).Error
	return bids, err
}

// AllActive fetches every remaining active bid for an auction — used on
// auction-end to refund the round's losers plus any never-winning entries.
func (r *BidRepository) AllActive(ctx context.Context, tx *gorm.DB, auctionID string) ([]*model.Bid, error) {
	var bids []*model.Bid
	err := tx.WithContext(ctx).
		Where("auction_id = ? AND active = ?", auctionID, true).
		Order("id ASC").
		Find(&bids).Error
	return bids, err
}

// Deactivate clears Active on a bid inside the settlement transaction.
func (r *BidRepository) Deactivate(ctx context.Context, tx *gorm.DB, bidID int64) error {
	return tx.WithContext(ctx).
		Model(&model.Bid{}).
		Where("id = ?", bidID).
		Update("active", false).Error
}

// Leaderboard fetches active bids for the read-only leaderboard endpoint.
func (r *BidRepository) Leaderboard(ctx context.Context, auctionID string, limit int) ([]*model.Bid, error) {
	var bids []*model.Bid
	err := r.db.WithContext(ctx).
		Where("auction_id = ? AND active = ?", auctionID, true).
		Order("amount_cents DESC, last_bid_at ASC, id ASC").
		Limit(limit).
		Find(&bids).Error
	return bids, err
}
