package models

import "time"

// WaitlistEntryTableName is the table provisioned by the waitlist repository.
const WaitlistEntryTableName = "waitlist_entries"

// WaitlistEntry pairs a Twitter handle with a wallet address. Rows are never
// updated or deleted; id and created_at are assigned by the store.
type WaitlistEntry struct {
	ID              uint      `gorm:"primaryKey;column:id"`
	TwitterUsername string    `gorm:"column:twitter_username;type:varchar(255);not null"`
	WalletAddress   string    `gorm:"column:wallet_address;type:varchar(42);not null"`
	CreatedAt       time.Time `gorm:"column:created_at;<-:false;autoCreateTime:false"`
}

func (WaitlistEntry) TableName() string {
	return WaitlistEntryTableName
}
