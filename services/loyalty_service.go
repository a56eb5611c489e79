package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"

	"crmpro-backend/models"
	"crmpro-backend/utils"
)

// Notifier delivers best-effort customer notifications after a loyalty
// mutation has committed. Failures are the notifier's to log.
type Notifier interface {
	NotifyTierPromotion(ctx context.Context, customerID, tier string)
}

// LoyaltyService owns every mutation of loyalty-profile state. All three
// mutations touch exactly one profile document; operations on different
// profiles need no coordination.
type LoyaltyService struct {
	store    ProfileStore
	notifier Notifier
}

func NewLoyaltyService(store ProfileStore) *LoyaltyService {
	return &LoyaltyService{store: store}
}

// WithNotifier attaches an optional tier-promotion notifier.
func (s *LoyaltyService) WithNotifier(n Notifier) *LoyaltyService {
	s.notifier = n
	return s
}

// AccrualResult reports the outcome of a points accrual.
type AccrualResult struct {
	NewPoints int64  `json:"new_points"`
	NewTier   string `json:"new_tier"`
}

// GetProfile looks up a loyalty profile by customer ID.
func (s *LoyaltyService) GetProfile(ctx context.Context, customerID string) (*models.LoyaltyProfile, error) {
	return s.store.GetProfile(ctx, customerID)
}

// Redeem subtracts points inside a transaction so two concurrent redemptions
// can never both observe a stale balance and overdraw it. Tier is left
// untouched: it reflects lifetime engagement, not the current balance.
func (s *LoyaltyService) Redeem(ctx context.Context, customerID string, points int64) (int64, error) {
	var newBalance int64
	err := s.store.UpdateProfile(ctx, customerID, func(p models.LoyaltyProfile) (ProfileUpdate, error) {
		if p.Points < points {
			return ProfileUpdate{}, ErrInsufficientPoints
		}
		newBalance = p.Points - points
		return ProfileUpdate{Points: newBalance}, nil
	})
	if err != nil {
		return 0, err
	}
	return newBalance, nil
}

// AccruePoints adds earned points and reevaluates tier against the promotion
// table, all inside a transaction. The current tier is kept whenever the new
// total sits below the first paid threshold, so accrual never resets a tier
// to Bronze. A missing profile is reported as ErrProfileNotFound so call
// sites choose their own not-found semantics.
func (s *LoyaltyService) AccruePoints(ctx context.Context, customerID string, earned int64) (*AccrualResult, error) {
	var result AccrualResult
	var promoted bool
	err := s.store.UpdateProfile(ctx, customerID, func(p models.LoyaltyProfile) (ProfileUpdate, error) {
		newTotal := p.Points + earned

		newTier := p.Tier
		if t := models.TierFor(newTotal); t != models.TierBronze {
			newTier = t
		}

		update := ProfileUpdate{Points: newTotal}
		if newTier != p.Tier {
			update.Tier = &newTier
		}

		result = AccrualResult{NewPoints: newTotal, NewTier: newTier}
		promoted = newTier != p.Tier
		return update, nil
	})
	if err != nil {
		return nil, err
	}

	if result.NewTier != models.TierBronze {
		log.Printf("Tier check: %s is now %s", customerID, result.NewTier)
	}
	if promoted && s.notifier != nil {
		s.notifier.NotifyTierPromotion(ctx, customerID, result.NewTier)
	}
	return &result, nil
}

// PointsForPurchase converts a monetary amount to earned points: one point
// per whole currency unit, with a floor of one point for any positive amount.
// Amounts beyond the int64 range earn the maximum; converting those directly
// would be implementation-defined.
func PointsForPurchase(amount float64) int64 {
	if amount >= math.MaxInt64 {
		return math.MaxInt64
	}
	points := int64(amount)
	if points <= 0 {
		points = 1
	}
	return points
}

// NewCustomer is the input for customer enrollment.
type NewCustomer struct {
	Name    string
	Email   string
	Phone   string
	Company string
}

const referralCodeAttempts = 5

// EnrollCustomer creates the customer and its loyalty profile (zero points,
// Bronze, fresh referral code) in one all-or-nothing batch, then attaches
// the profile reference to the customer. The follow-up is best-effort: both
// documents share an ID, so a failed attach still leaves them linkable.
func (s *LoyaltyService) EnrollCustomer(ctx context.Context, in NewCustomer) (string, error) {
	code, err := s.uniqueReferralCode(ctx, in.Name)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	customer := &models.Customer{
		ID:      id,
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Company: in.Company,
	}
	profile := &models.LoyaltyProfile{
		CustomerID:   id,
		Points:       0,
		Tier:         models.TierBronze,
		ReferralCode: code,
	}

	if err := s.store.CreateCustomerWithProfile(ctx, customer, profile); err != nil {
		return "", err
	}

	if err := s.store.AttachLoyaltyRef(ctx, id); err != nil {
		log.Printf("Attach loyalty ref failed for customer %s: %v", id, err)
	}
	return id, nil
}

// uniqueReferralCode generates a code and regenerates on collision. The
// check-then-insert pair is not transactional (the creation batch must stay
// read-free), so a concurrent enrollment can still race a duplicate through;
// with 36^4 suffixes per prefix that window is accepted.
func (s *LoyaltyService) uniqueReferralCode(ctx context.Context, name string) (string, error) {
	for i := 0; i < referralCodeAttempts; i++ {
		code, err := utils.GenerateReferralCode(name)
		if err != nil {
			return "", err
		}
		_, err = s.store.FindProfileByReferralCode(ctx, code)
		if errors.Is(err, ErrInvalidReferralCode) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("no unique referral code after %d attempts", referralCodeAttempts)
}
