package repository

import (
	"context"

	"sealedauction/internal/model"

	"gorm.io/gorm"
)

type WinnerRepository struct {
	db *gorm.DB
}

func NewWinnerRepository(db *gorm.DB) *WinnerRepository {
	return &WinnerRepository{db: db}
}

func (r *WinnerRepository) Create(ctx context.Context, tx *gorm.DB, winner *model.Winner) error {
	return tx.WithContext(ctx).Create(winner).Error
}

func (r *WinnerRepository) ListByAuction(ctx context.Context, auctionID string, limit int) ([]*model.Winner, error) {
	var winners []*model.Winner
	err := r.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("gift_number ASC").
		Limit(limit).
		Find(&winners).Error
	return winners, err
}

func (r *WinnerRepository) CountByAuction(ctx context.Context, auctionID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Winner{}).
		Where("auction_id = ?", auctionID).
		Count(&count).Error
	return count, err
}
