package model

import "time"

// LedgerKind is the closed set of money-movement kinds. Represented as a
// tagged variant (a plain string enum), not an interface hierarchy — there
// is exactly one shape of ledger row regardless of kind.
type LedgerKind string

const (
	LedgerKindTopup   LedgerKind = "TOPUP"
	LedgerKindReserve LedgerKind = "RESERVE"
	LedgerKindRelease LedgerKind = "RELEASE"
	LedgerKindCharge  LedgerKind = "CHARGE"
	LedgerKindRefund  LedgerKind = "REFUND"
)

// LedgerEntry is an append-only audit record of one atomic money movement.
// Never updated or deleted. AmountCents is always positive; direction is
// carried by Kind.
type LedgerEntry struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string     `gorm:"type:varchar(32);index;not null" json:"userId"`
	Kind        LedgerKind `gorm:"type:varchar(16);index;not null" json:"kind"`
	AmountCents int64      `gorm:"not null" json:"amountCents"`
	RefType     string     `gorm:"type:varchar(32);uniqueIndex:idx_ledger_ref;not null" json:"refType"`
	// RefID plus RefType form an idempotency-friendly composite string, per
	// spec.md's refId open question: made database-unique here.
	RefID     string    `gorm:"type:varchar(96);uniqueIndex:idx_ledger_ref;not null" json:"refId"`
	Meta      string    `gorm:"type:text" json:"meta,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
