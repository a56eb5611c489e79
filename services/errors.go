package services

import (
	"errors"
)

// Business failures the loyalty engine returns. Controllers branch on these
// with errors.Is and surface their text verbatim; anything else is an
// internal fault whose detail never reaches a client.
var (
	ErrProfileNotFound     = errors.New("Profile not found")
	ErrInsufficientPoints  = errors.New("Insufficient points")
	ErrInvalidReferralCode = errors.New("Invalid referral code")
	ErrSelfReferral        = errors.New("Cannot refer yourself")
	ErrLeadNotFound        = errors.New("Lead not found")
	ErrOpportunityNotFound = errors.New("Opportunity not found")
)
