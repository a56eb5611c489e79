package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"crmpro-backend/config"
	"crmpro-backend/services"
	"crmpro-backend/utils"
)

// RedeemInput defines the expected JSON structure for redeeming points
type RedeemInput struct {
	PointsToRedeem *int64 `json:"points_to_redeem" binding:"required"`
}

// UseReferralInput defines the expected JSON structure for applying a referral code
type UseReferralInput struct {
	ReferralCode string `json:"referral_code"`
}

// LoyaltyController serves the loyalty endpoints on top of the injected
// engine.
type LoyaltyController struct {
	Service *services.LoyaltyService
}

// GetProfile returns a customer's loyalty profile.
func (ctl *LoyaltyController) GetProfile(c *gin.Context) {
	customerID := c.Param("customerId")

	profile, err := ctl.Service.GetProfile(c.Request.Context(), customerID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProfileNotFound):
			utils.RespondWithError(c, http.StatusNotFound, "Loyalty profile not found")
		case errors.Is(err, config.ErrStoreUnavailable):
			utils.RespondWithError(c, http.StatusServiceUnavailable, err.Error())
		default:
			log.Printf("Error fetching loyalty profile for %s: %v", customerID, err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Redeem redeems points against a customer's balance.
func (ctl *LoyaltyController) Redeem(c *gin.Context) {
	customerID := c.Param("customerId")

	var input RedeemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "points_to_redeem required")
		return
	}
	if *input.PointsToRedeem <= 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Points must be a positive integer")
		return
	}

	newBalance, err := ctl.Service.Redeem(c.Request.Context(), customerID, *input.PointsToRedeem)
	if err != nil {
		switch {
		// Both business failures are client errors with their text surfaced
		// verbatim; a missing profile here is a bad request, not a 404.
		case errors.Is(err, services.ErrProfileNotFound), errors.Is(err, services.ErrInsufficientPoints):
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, config.ErrStoreUnavailable):
			utils.RespondWithError(c, http.StatusServiceUnavailable, err.Error())
		default:
			log.Printf("Redeem error for %s: %v", customerID, err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"message":            "Redemption successful",
		"new_points_balance": newBalance,
	})
}

// UseReferral applies a referral code. The customer ID in the URL is the NEW
// customer; the bonus goes to whoever owns the code.
func (ctl *LoyaltyController) UseReferral(c *gin.Context) {
	customerID := c.Param("customerId")

	var input UseReferralInput
	if err := c.ShouldBindJSON(&input); err != nil || input.ReferralCode == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Referral code required")
		return
	}

	referrerID, err := ctl.Service.ApplyReferral(c.Request.Context(), customerID, input.ReferralCode)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidReferralCode):
			utils.RespondWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrSelfReferral):
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, config.ErrStoreUnavailable):
			utils.RespondWithError(c, http.StatusServiceUnavailable, err.Error())
		default:
			log.Printf("Referral error: %v", err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Referral applied. %d points sent to %s.", services.ReferralBonusPoints, referrerID),
	})
}

// SimulatePurchase awards loyalty points for a purchase amount.
func (ctl *LoyaltyController) SimulatePurchase(c *gin.Context) {
	// The fields are checked one at a time so each failure names its own
	// field; a malformed body just leaves them unset.
	var raw map[string]interface{}
	_ = c.ShouldBindJSON(&raw)

	customerID, _ := raw["customer_id"].(string)
	if customerID == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "customer_id is required")
		return
	}
	amountField, ok := raw["amount"]
	if !ok || amountField == nil {
		utils.RespondWithError(c, http.StatusBadRequest, "amount is required")
		return
	}
	amount, err := parseAmount(amountField)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "amount must be a number")
		return
	}
	if amount <= 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "amount must be greater than zero")
		return
	}

	pointsToAdd := services.PointsForPurchase(amount)
	result, err := ctl.Service.AccruePoints(c.Request.Context(), customerID, pointsToAdd)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProfileNotFound):
			utils.RespondWithError(c, http.StatusNotFound, "Loyalty profile not found")
		case errors.Is(err, config.ErrStoreUnavailable):
			utils.RespondWithError(c, http.StatusServiceUnavailable, err.Error())
		default:
			log.Printf("Error simulating purchase for %s: %v", customerID, err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"customer_id":        customerID,
		"points_added":       pointsToAdd,
		"new_points_balance": result.NewPoints,
		"new_tier":           result.NewTier,
	})
}

// parseAmount accepts a JSON number or a numeric string for the purchase
// amount.
func parseAmount(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		return strconv.ParseFloat(n, 64)
	default:
		return 0, fmt.Errorf("amount has type %T", v)
	}
}
