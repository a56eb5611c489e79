package models

import (
	"time"
)

// Loyalty tiers, lowest to highest.
const (
	TierBronze = "Bronze"
	TierSilver = "Silver"
	TierGold   = "Gold"
)

// TierThreshold maps a tier to the minimum cumulative points it requires.
type TierThreshold struct {
	Tier      string
	MinPoints int64
}

// TierLevels is the static promotion table. Only accrual consults it;
// redemption never does, because tier reflects lifetime engagement rather
// than the current balance.
var TierLevels = []TierThreshold{
	{TierBronze, 0},
	{TierSilver, 500},
	{TierGold, 2000},
}

// TierFor returns the highest tier whose threshold is at or below points.
func TierFor(points int64) string {
	tier := TierLevels[0].Tier
	for _, level := range TierLevels {
		if points >= level.MinPoints {
			tier = level.Tier
		}
	}
	return tier
}

// LoyaltyProfile is a document in the loyalty_profiles collection. Its
// document ID equals the owning customer's ID, so profile lookups by
// customer need no index.
type LoyaltyProfile struct {
	CustomerID   string    `firestore:"customer_id" json:"customer_id"`
	Points       int64     `firestore:"points" json:"points"`
	Tier         string    `firestore:"tier" json:"tier"`
	ReferralCode string    `firestore:"referral_code" json:"referral_code"`
	CreatedAt    time.Time `firestore:"createdAt,serverTimestamp" json:"createdAt"`
}
