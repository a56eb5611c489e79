package services

import (
	"context"
	"sync"

	"crmpro-backend/models"
)

// fakeStore is an in-memory ProfileStore. Its mutex gives mutations the same
// isolation the real store's optimistic transactions provide: no mutation
// ever commits against a balance another mutation has since changed.
type fakeStore struct {
	mu        sync.Mutex
	profiles  map[string]*models.LoyaltyProfile
	customers map[string]*models.Customer

	lastUpdate *ProfileUpdate

	codeLookups int
	codeTaken   int // pretend the first N generated codes collide
	txnErr      error
	linkErr     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles:  map[string]*models.LoyaltyProfile{},
		customers: map[string]*models.Customer{},
	}
}

func (f *fakeStore) seedProfile(p models.LoyaltyProfile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[p.CustomerID] = &p
}

func (f *fakeStore) profile(customerID string) models.LoyaltyProfile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.profiles[customerID]
}

func (f *fakeStore) GetProfile(_ context.Context, customerID string) (*models.LoyaltyProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[customerID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, customerID string, mutate func(models.LoyaltyProfile) (ProfileUpdate, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.txnErr != nil {
		return f.txnErr
	}
	p, ok := f.profiles[customerID]
	if !ok {
		return ErrProfileNotFound
	}
	update, err := mutate(*p)
	if err != nil {
		return err
	}
	p.Points = update.Points
	if update.Tier != nil {
		p.Tier = *update.Tier
	}
	f.lastUpdate = &update
	return nil
}

func (f *fakeStore) FindProfileByReferralCode(_ context.Context, code string) (*models.LoyaltyProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codeLookups++
	if f.codeTaken > 0 {
		f.codeTaken--
		return &models.LoyaltyProfile{CustomerID: "someone-else", ReferralCode: code}, nil
	}
	for _, p := range f.profiles {
		if p.ReferralCode == code {
			copied := *p
			return &copied, nil
		}
	}
	return nil, ErrInvalidReferralCode
}

func (f *fakeStore) AddPoints(_ context.Context, customerID string, delta int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[customerID]
	if !ok {
		return ErrProfileNotFound
	}
	p.Points += delta
	return nil
}

func (f *fakeStore) CreateCustomerWithProfile(_ context.Context, customer *models.Customer, profile *models.LoyaltyProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *customer
	p := *profile
	f.customers[c.ID] = &c
	f.profiles[p.CustomerID] = &p
	return nil
}

func (f *fakeStore) AttachLoyaltyRef(_ context.Context, customerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.linkErr != nil {
		return f.linkErr
	}
	if c, ok := f.customers[customerID]; ok {
		c.LoyaltyProfileID = customerID
	}
	return nil
}
