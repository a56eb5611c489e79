package services

import (
	"context"
)

// ReferralBonusPoints is credited to the referrer each time their code is
// used by another customer.
const ReferralBonusPoints = 100

// ApplyReferral resolves code to the referring profile and credits the bonus
// with a bare atomic increment. Increments commute, so no read-modify-write
// transaction is needed and the write can never conflict-fail. The
// referrer's tier is NOT reevaluated here; the banked points only count
// toward tier on their next purchase accrual.
func (s *LoyaltyService) ApplyReferral(ctx context.Context, newCustomerID, code string) (string, error) {
	referrer, err := s.store.FindProfileByReferralCode(ctx, code)
	if err != nil {
		return "", err
	}

	if referrer.CustomerID == newCustomerID {
		return "", ErrSelfReferral
	}

	if err := s.store.AddPoints(ctx, referrer.CustomerID, ReferralBonusPoints); err != nil {
		return "", err
	}
	return referrer.CustomerID, nil
}
