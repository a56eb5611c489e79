package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"crmpro-backend/models"
	"crmpro-backend/services"
)

// Profiles implements services.ProfileStore on Firestore. It holds a client
// provider rather than a client so a store that was unreachable at startup
// still surfaces per-request 503s instead of poisoning the process.
type Profiles struct {
	db func() (*firestore.Client, error)
}

func NewProfiles(db func() (*firestore.Client, error)) *Profiles {
	return &Profiles{db: db}
}

func (p *Profiles) GetProfile(ctx context.Context, customerID string) (*models.LoyaltyProfile, error) {
	client, err := p.db()
	if err != nil {
		return nil, err
	}

	snap, err := client.Collection(models.CollectionLoyaltyProfiles).Doc(customerID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, services.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get loyalty profile %s: %w", customerID, err)
	}

	var profile models.LoyaltyProfile
	if err := snap.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("decode loyalty profile %s: %w", customerID, err)
	}
	return &profile, nil
}

// UpdateProfile is the optimistic read-modify-write primitive. RunTransaction
// captures the document's read version and fails the commit on conflict;
// the client library retries aborted attempts a bounded number of times
// before surfacing the conflict.
func (p *Profiles) UpdateProfile(ctx context.Context, customerID string, mutate func(models.LoyaltyProfile) (services.ProfileUpdate, error)) error {
	client, err := p.db()
	if err != nil {
		return err
	}

	ref := client.Collection(models.CollectionLoyaltyProfiles).Doc(customerID)
	return client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return services.ErrProfileNotFound
		}
		if err != nil {
			return fmt.Errorf("read loyalty profile %s: %w", customerID, err)
		}

		var profile models.LoyaltyProfile
		if err := snap.DataTo(&profile); err != nil {
			return fmt.Errorf("decode loyalty profile %s: %w", customerID, err)
		}

		update, err := mutate(profile)
		if err != nil {
			return err
		}

		writes := []firestore.Update{{Path: "points", Value: update.Points}}
		if update.Tier != nil {
			writes = append(writes, firestore.Update{Path: "tier", Value: *update.Tier})
		}
		return tx.Update(ref, writes)
	})
}

func (p *Profiles) FindProfileByReferralCode(ctx context.Context, code string) (*models.LoyaltyProfile, error) {
	client, err := p.db()
	if err != nil {
		return nil, err
	}

	iter := client.Collection(models.CollectionLoyaltyProfiles).
		Where("referral_code", "==", code).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, services.ErrInvalidReferralCode
	}
	if err != nil {
		return nil, fmt.Errorf("referral code lookup: %w", err)
	}

	var profile models.LoyaltyProfile
	if err := snap.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("decode loyalty profile %s: %w", snap.Ref.ID, err)
	}
	if profile.CustomerID == "" {
		profile.CustomerID = snap.Ref.ID
	}
	return &profile, nil
}

// AddPoints is a commutative single-field increment; concurrent increments
// merge server-side without the conflict failures a read-then-write
// transaction can hit.
func (p *Profiles) AddPoints(ctx context.Context, customerID string, delta int64) error {
	client, err := p.db()
	if err != nil {
		return err
	}

	_, err = client.Collection(models.CollectionLoyaltyProfiles).Doc(customerID).Update(ctx, []firestore.Update{
		{Path: "points", Value: firestore.Increment(delta)},
	})
	if status.Code(err) == codes.NotFound {
		return services.ErrProfileNotFound
	}
	if err != nil {
		return fmt.Errorf("increment points for %s: %w", customerID, err)
	}
	return nil
}

func (p *Profiles) CreateCustomerWithProfile(ctx context.Context, customer *models.Customer, profile *models.LoyaltyProfile) error {
	client, err := p.db()
	if err != nil {
		return err
	}

	batch := client.Batch()
	batch.Set(client.Collection(models.CollectionCustomers).Doc(customer.ID), customer)
	batch.Set(client.Collection(models.CollectionLoyaltyProfiles).Doc(profile.CustomerID), profile)
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("create customer %s with loyalty profile: %w", customer.ID, err)
	}
	return nil
}

func (p *Profiles) AttachLoyaltyRef(ctx context.Context, customerID string) error {
	client, err := p.db()
	if err != nil {
		return err
	}

	_, err = client.Collection(models.CollectionCustomers).Doc(customerID).Update(ctx, []firestore.Update{
		{Path: "loyalty_profile_id", Value: customerID},
	})
	if err != nil {
		return fmt.Errorf("attach loyalty ref to customer %s: %w", customerID, err)
	}
	return nil
}
