package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmpro-backend/config"
	"crmpro-backend/models"
	"crmpro-backend/services"
)

// memStore is a minimal in-memory services.ProfileStore for handler tests.
// Setting fail makes every call return that error.
type memStore struct {
	mu       sync.Mutex
	profiles map[string]*models.LoyaltyProfile
	fail     error
}

func newMemStore() *memStore {
	return &memStore{profiles: map[string]*models.LoyaltyProfile{}}
}

func (m *memStore) seed(p models.LoyaltyProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.CustomerID] = &p
}

func (m *memStore) GetProfile(_ context.Context, customerID string) (*models.LoyaltyProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	p, ok := m.profiles[customerID]
	if !ok {
		return nil, services.ErrProfileNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *memStore) UpdateProfile(_ context.Context, customerID string, mutate func(models.LoyaltyProfile) (services.ProfileUpdate, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	p, ok := m.profiles[customerID]
	if !ok {
		return services.ErrProfileNotFound
	}
	update, err := mutate(*p)
	if err != nil {
		return err
	}
	p.Points = update.Points
	if update.Tier != nil {
		p.Tier = *update.Tier
	}
	return nil
}

func (m *memStore) FindProfileByReferralCode(_ context.Context, code string) (*models.LoyaltyProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	for _, p := range m.profiles {
		if p.ReferralCode == code {
			copied := *p
			return &copied, nil
		}
	}
	return nil, services.ErrInvalidReferralCode
}

func (m *memStore) AddPoints(_ context.Context, customerID string, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	p, ok := m.profiles[customerID]
	if !ok {
		return services.ErrProfileNotFound
	}
	p.Points += delta
	return nil
}

func (m *memStore) CreateCustomerWithProfile(_ context.Context, _ *models.Customer, profile *models.LoyaltyProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	p := *profile
	m.profiles[p.CustomerID] = &p
	return nil
}

func (m *memStore) AttachLoyaltyRef(context.Context, string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fail
}

func newTestRouter(store services.ProfileStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	loyalty := services.NewLoyaltyService(store)

	loyaltyController := &LoyaltyController{Service: loyalty}
	customerController := &CustomerController{Loyalty: loyalty}

	r := gin.New()
	api := r.Group("/api")
	api.POST("/customer", customerController.Create)
	api.GET("/loyalty/:customerId", loyaltyController.GetProfile)
	api.POST("/loyalty/:customerId/redeem", loyaltyController.Redeem)
	api.POST("/loyalty/:customerId/use-referral", loyaltyController.UseReferral)
	api.POST("/simulate-purchase", loyaltyController.SimulatePurchase)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestGetLoyaltyProfile(t *testing.T) {
	store := newMemStore()
	store.seed(models.LoyaltyProfile{CustomerID: "c1", Points: 600, Tier: models.TierSilver, ReferralCode: "ALICE-X7Q9"})
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodGet, "/api/loyalty/c1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(600), body["points"])
	assert.Equal(t, models.TierSilver, body["tier"])
	assert.Equal(t, "ALICE-X7Q9", body["referral_code"])

	w = doJSON(t, r, http.MethodGet, "/api/loyalty/ghost", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Loyalty profile not found", decodeBody(t, w)["error"])
}

func TestRedeemEndpoint(t *testing.T) {
	store := newMemStore()
	store.seed(models.LoyaltyProfile{CustomerID: "c1", Points: 200, Tier: models.TierBronze})
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodPost, "/api/loyalty/c1/redeem", gin.H{"points_to_redeem": 150})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(50), decodeBody(t, w)["new_points_balance"])

	// Insufficient balance is a business rule, not a server fault.
	w = doJSON(t, r, http.MethodPost, "/api/loyalty/c1/redeem", gin.H{"points_to_redeem": 100})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Insufficient points", decodeBody(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/api/loyalty/ghost/redeem", gin.H{"points_to_redeem": 10})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Profile not found", decodeBody(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/api/loyalty/c1/redeem", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/loyalty/c1/redeem", gin.H{"points_to_redeem": -5})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Points must be a positive integer", decodeBody(t, w)["error"])
}

func TestRedeemInsufficientLeavesBalanceUnchanged(t *testing.T) {
	store := newMemStore()
	store.seed(models.LoyaltyProfile{CustomerID: "c1", Points: 20, Tier: models.TierBronze})
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodPost, "/api/loyalty/c1/redeem", gin.H{"points_to_redeem": 50})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/loyalty/c1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(20), decodeBody(t, w)["points"])
}

func TestUseReferralEndpoint(t *testing.T) {
	store := newMemStore()
	store.seed(models.LoyaltyProfile{CustomerID: "alice", Points: 0, Tier: models.TierBronze, ReferralCode: "ALICE-X7Q9"})
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodPost, "/api/loyalty/bob/use-referral", gin.H{"referral_code": "ALICE-X7Q9"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decodeBody(t, w)["message"], "100 points sent to alice")

	w = doJSON(t, r, http.MethodGet, "/api/loyalty/alice", nil)
	assert.Equal(t, float64(100), decodeBody(t, w)["points"])

	w = doJSON(t, r, http.MethodPost, "/api/loyalty/alice/use-referral", gin.H{"referral_code": "ALICE-X7Q9"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cannot refer yourself", decodeBody(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/api/loyalty/bob/use-referral", gin.H{"referral_code": "NOPE-0000"})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Invalid referral code", decodeBody(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/api/loyalty/bob/use-referral", gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Referral code required", decodeBody(t, w)["error"])
}

func TestSimulatePurchaseEndpoint(t *testing.T) {
	store := newMemStore()
	store.seed(models.LoyaltyProfile{CustomerID: "c1", Points: 0, Tier: models.TierBronze})
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodPost, "/api/simulate-purchase", gin.H{"customer_id": "c1", "amount": 899.99})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(899), body["points_added"])
	assert.Equal(t, float64(899), body["new_points_balance"])
	assert.Equal(t, models.TierSilver, body["new_tier"])

	w = doJSON(t, r, http.MethodPost, "/api/simulate-purchase", gin.H{"customer_id": "ghost", "amount": 10})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Loyalty profile not found", decodeBody(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/api/simulate-purchase", gin.H{"amount": 10})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "customer_id is required", decodeBody(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/api/simulate-purchase", gin.H{"customer_id": "c1"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "amount is required", decodeBody(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/api/simulate-purchase", gin.H{"customer_id": "c1", "amount": 0})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "amount must be greater than zero", decodeBody(t, w)["error"])
}

func TestSimulatePurchaseAmountValidation(t *testing.T) {
	store := newMemStore()
	store.seed(models.LoyaltyProfile{CustomerID: "c1", Points: 0, Tier: models.TierBronze})
	r := newTestRouter(store)

	// A present but malformed amount must name the amount, not customer_id.
	w := doJSON(t, r, http.MethodPost, "/api/simulate-purchase", gin.H{"customer_id": "c1", "amount": "abc"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "amount must be a number", decodeBody(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/api/simulate-purchase", gin.H{"customer_id": "c1", "amount": true})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "amount must be a number", decodeBody(t, w)["error"])

	// Numeric strings convert, as upstream clients send them.
	w = doJSON(t, r, http.MethodPost, "/api/simulate-purchase", gin.H{"customer_id": "c1", "amount": "12.5"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(12), decodeBody(t, w)["points_added"])
}

func TestSimulatePurchaseSmallAmountEarnsOnePoint(t *testing.T) {
	store := newMemStore()
	store.seed(models.LoyaltyProfile{CustomerID: "c1", Points: 0, Tier: models.TierBronze})
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodPost, "/api/simulate-purchase", gin.H{"customer_id": "c1", "amount": 0.25})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["points_added"])
}

func TestCreateCustomerEndpoint(t *testing.T) {
	store := newMemStore()
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodPost, "/api/customer", gin.H{"name": "Alice Smith", "email": "alice@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)

	w = doJSON(t, r, http.MethodGet, "/api/loyalty/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decodeBody(t, w)
	assert.Equal(t, float64(0), profile["points"])
	assert.Equal(t, models.TierBronze, profile["tier"])

	w = doJSON(t, r, http.MethodPost, "/api/customer", gin.H{"name": "No Email"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Name and email are required", decodeBody(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/api/customer", gin.H{"name": "Bad Phone", "email": "x@example.com", "phone": "abc"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid phone number format", decodeBody(t, w)["error"])
}

func TestStoreUnavailableMapsTo503(t *testing.T) {
	store := newMemStore()
	store.fail = config.ErrStoreUnavailable
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodGet, "/api/loyalty/c1", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Database connection failed", decodeBody(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/api/loyalty/c1/redeem", gin.H{"points_to_redeem": 10})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/customer", gin.H{"name": "Alice", "email": "a@example.com"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestUnexpectedStoreFailureMapsTo500(t *testing.T) {
	store := newMemStore()
	store.seed(models.LoyaltyProfile{CustomerID: "c1", Points: 100, Tier: models.TierBronze})
	store.fail = errors.New("rpc error: code = Aborted desc = too much contention")
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodPost, "/api/loyalty/c1/redeem", gin.H{"points_to_redeem": 10})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	// Store-internal detail must never leak to the client.
	assert.Equal(t, "Internal Server Error", decodeBody(t, w)["error"])
}
