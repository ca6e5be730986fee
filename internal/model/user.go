package model

import "time"

// User is an identity plus its embedded wallet. AvailableCents and
// ReservedCents are always non-negative (I1); Version is bumped on every
// wallet update as an audit counter. Wallet mutations (Reserve,
// ChargeReserved, RefundReserved, Topup) gate on the relevant balance
// column itself rather than on Version, so an unrelated concurrent write to
// the same row never forces a caller to retry.
type User struct {
	ID             string    `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Username       string    `gorm:"uniqueIndex;type:varchar(32);not null" json:"username"`
	AvailableCents int64     `gorm:"not null;default:0" json:"availableCents"`
	ReservedCents  int64     `gorm:"not null;default:0" json:"reservedCents"`
	Version        int       `gorm:"not null;default:0" json:"-"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
