package model

import "time"

// DefaultEntryID is used when a caller does not specify an entryId,
// permitting the common case of one bid per user per auction while still
// allowing multiple distinct bids under different entry ids.
const DefaultEntryID = "default"

// Bid is keyed uniquely by (AuctionID, UserID, EntryID). AmountCents is
// strictly increasing across successive PlaceBid calls for the same key
// (I7). Active is cleared the instant the bid wins (charged) or the
// auction ends (refunded).
type Bid struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AuctionID   string    `gorm:"type:varchar(32);uniqueIndex:idx_bid_triple;index:idx_bid_leaderboard,priority:1;not null" json:"auctionId"`
	UserID      string    `gorm:"type:varchar(32);uniqueIndex:idx_bid_triple;index;not null" json:"userId"`
	EntryID     string    `gorm:"type:varchar(64);uniqueIndex:idx_bid_triple;not null;default:default" json:"entryId"`
	AmountCents int64     `gorm:"not null;index:idx_bid_leaderboard,priority:3,sort:desc" json:"amountCents"`
	Active      bool      `gorm:"not null;default:true;index:idx_bid_leaderboard,priority:2" json:"active"`
	LastBidAt   time.Time `gorm:"index:idx_bid_leaderboard,priority:4,sort:asc;not null" json:"lastBidAt"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Bid) TableName() string {
	return "bids"
}
