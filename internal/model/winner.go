package model

import "time"

// Winner is an immutable snapshot of one awarded item, created only inside
// settlement. (AuctionID, Round, GiftNumber) and (AuctionID, GiftNumber)
// are both unique (I4).
type Winner struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AuctionID   string    `gorm:"type:varchar(32);uniqueIndex:idx_winner_round_gift;uniqueIndex:idx_winner_gift;not null" json:"auctionId"`
	Round       int       `gorm:"uniqueIndex:idx_winner_round_gift;not null" json:"round"`
	GiftNumber  int       `gorm:"uniqueIndex:idx_winner_round_gift;uniqueIndex:idx_winner_gift;not null" json:"giftNumber"`
	UserID      string    `gorm:"type:varchar(32);index;not null" json:"userId"`
	EntryID     string    `gorm:"type:varchar(64);not null" json:"entryId"`
	AmountCents int64     `gorm:"not null" json:"amountCents"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Winner) TableName() string {
	return "winners"
}
