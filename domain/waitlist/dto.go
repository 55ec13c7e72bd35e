package waitlist

import (
	"github.com/akeren/wallet-waitlist/internal/models"
	"github.com/akeren/wallet-waitlist/pkg/constants"
)

type CreateWaitlistEntryRequest struct {
	TwitterUsername string `json:"twitter_username" binding:"required,min=1,max=255"`
	WalletAddress   string `json:"wallet_address" binding:"required,min=1,max=42"`
}

type WaitlistEntryResponse struct {
	ID              uint   `json:"id"`
	TwitterUsername string `json:"twitter_username"`
	WalletAddress   string `json:"wallet_address"`
	CreatedAt       string `json:"created_at"`
}

type WaitlistCountResponse struct {
	Count int64 `json:"count"`
}

// ========================================
// Mappers
// ========================================

func ToWaitlistEntryResponse(entry *models.WaitlistEntry) WaitlistEntryResponse {
	if entry == nil {
		return WaitlistEntryResponse{}
	}
	return WaitlistEntryResponse{
		ID:              entry.ID,
		TwitterUsername: entry.TwitterUsername,
		WalletAddress:   entry.WalletAddress,
		CreatedAt:       entry.CreatedAt.Format(constants.RFC3339DateTimeFormat),
	}
}
