package model

import "time"

// AuctionStatus is the closed set of auction lifecycle states.
type AuctionStatus string

const (
	AuctionStatusDraft   AuctionStatus = "draft"
	AuctionStatusRunning AuctionStatus = "running"
	AuctionStatusEnded   AuctionStatus = "ended"
)

// auctionTransitions mirrors the teacher's ValidStatusTransitions /
// CanTransitionTo shape, generalized to the auction's three-state machine:
// draft -> running -> ended, with running -> running self-loops (round
// advance) expressed separately since the status itself does not change.
var auctionTransitions = map[AuctionStatus][]AuctionStatus{
	AuctionStatusDraft:   {AuctionStatusRunning},
	AuctionStatusRunning: {AuctionStatusEnded},
}

// CanTransitionTo reports whether an auction may move from one status to
// another. Round advances (running -> running) are not a status change and
// are not governed by this table.
func CanTransitionTo(from, to AuctionStatus) bool {
	for _, s := range auctionTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Auction is the static configuration plus dynamic round state for one
// multi-round sealed auction, plus its settlement lease fields.
type Auction struct {
	ID    string `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Title string `gorm:"type:varchar(200);not null" json:"title"`

	MinBidCents   int64 `gorm:"not null" json:"minBidCents"`
	TotalItems    int   `gorm:"not null" json:"totalItems"`
	ItemsPerRound int   `gorm:"not null" json:"itemsPerRound"`
	RoundDurationSec int `gorm:"not null" json:"roundDurationSec"`

	AntiSnipeWindowSec           int `gorm:"not null;default:0" json:"antiSnipeWindowSec"`
	AntiSnipeExtensionSec        int `gorm:"not null;default:0" json:"antiSnipeExtensionSec"`
	AntiSnipeMaxTotalExtensionSec int `gorm:"not null;default:0" json:"antiSnipeMaxTotalExtensionSec"`

	Status                    AuctionStatus `gorm:"type:varchar(16);index:idx_auction_due,priority:1;not null;default:draft" json:"status"`
	CurrentRound              int           `gorm:"not null;default:0" json:"currentRound"`
	CurrentRoundStartedAt     *time.Time    `json:"currentRoundStartedAt,omitempty"`
	CurrentRoundEndsAt        *time.Time    `gorm:"index:idx_auction_due,priority:2" json:"currentRoundEndsAt,omitempty"`
	CurrentRoundExtendedBySec int           `gorm:"not null;default:0" json:"currentRoundExtendedBySec"`
	RemainingItems            int           `gorm:"not null" json:"remainingItems"`
	NextGiftNumber            int           `gorm:"not null;default:1" json:"nextGiftNumber"`

	// Settlement lease: fenced, conditionally-acquired claim on this
	// auction's current round. Released on commit, release-on-abort is
	// best-effort; the stale-lease sweep is the real safety net.
	Settling       bool       `gorm:"not null;default:false" json:"-"`
	SettlingLockID string     `gorm:"type:varchar(64)" json:"-"`
	SettlingAt     *time.Time `json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Auction) TableName() string {
	return "auctions"
}
