package services

import (
	"context"

	"crmpro-backend/models"
)

// ProfileUpdate is the write set produced by a profile transaction. Points
// is always written; Tier is written only when non-nil, so an unchanged
// tier generates no field write.
type ProfileUpdate struct {
	Points int64
	Tier   *string
}

// ProfileStore is the slice of the document store the loyalty engine needs.
// The production implementation (store package) talks to Firestore; tests
// substitute an in-memory fake.
type ProfileStore interface {
	// GetProfile returns the profile whose document ID is customerID, or
	// ErrProfileNotFound.
	GetProfile(ctx context.Context, customerID string) (*models.LoyaltyProfile, error)

	// UpdateProfile runs mutate inside a single-document optimistic
	// transaction: the current profile is read under conflict detection and
	// the returned write set committed against that read version. mutate
	// returning an error aborts the transaction and propagates the error
	// unchanged. A missing document aborts with ErrProfileNotFound.
	UpdateProfile(ctx context.Context, customerID string, mutate func(models.LoyaltyProfile) (ProfileUpdate, error)) error

	// FindProfileByReferralCode resolves a referral code to at most one
	// profile, or ErrInvalidReferralCode when nothing matches.
	FindProfileByReferralCode(ctx context.Context, code string) (*models.LoyaltyProfile, error)

	// AddPoints applies a commutative atomic increment to a profile's
	// balance outside any transaction. It never touches tier.
	AddPoints(ctx context.Context, customerID string, delta int64) error

	// CreateCustomerWithProfile inserts both documents in one
	// all-or-nothing batch. Neither write reads the other, so no
	// transaction is needed.
	CreateCustomerWithProfile(ctx context.Context, customer *models.Customer, profile *models.LoyaltyProfile) error

	// AttachLoyaltyRef stores the profile ID back onto the customer
	// document. Best-effort follow-up to CreateCustomerWithProfile.
	AttachLoyaltyRef(ctx context.Context, customerID string) error
}
