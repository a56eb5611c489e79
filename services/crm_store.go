package services

import (
	"context"

	"crmpro-backend/models"
)

// CRMStore is the slice of the document store the lead, opportunity,
// ticket and dashboard handlers need.
type CRMStore interface {
	CreateLead(ctx context.Context, lead *models.Lead) (string, error)
	GetLead(ctx context.Context, leadID string) (*models.Lead, error)
	MarkLeadConverted(ctx context.Context, leadID string) error
	AssignLead(ctx context.Context, leadID, repID, repName string) error

	CreateOpportunity(ctx context.Context, opportunity *models.Opportunity) (string, error)
	UpdateOpportunityStage(ctx context.Context, opportunityID, stage string, closed bool) error
	ListOpportunities(ctx context.Context) ([]models.Opportunity, error)

	CreateTicket(ctx context.Context, ticket *models.Ticket) (string, error)
	// ListTickets returns tickets newest first. A limit of zero or less
	// returns every ticket.
	ListTickets(ctx context.Context, limit int) ([]models.Ticket, error)

	ListCustomers(ctx context.Context) ([]models.Customer, error)
}
