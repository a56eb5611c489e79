package models

// Firestore collection names.
const (
	CollectionCustomers       = "customers"
	CollectionLoyaltyProfiles = "loyalty_profiles"
	CollectionLeads           = "leads"
	CollectionOpportunities   = "opportunities"
	CollectionTickets         = "tickets"
)
