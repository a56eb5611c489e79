package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"crmpro-backend/models"
	"crmpro-backend/services"
)

// CRM implements services.CRMStore on Firestore. Like Profiles, it holds a
// client provider so a store that was unreachable at startup still surfaces
// per-request 503s.
type CRM struct {
	db func() (*firestore.Client, error)
}

func NewCRM(db func() (*firestore.Client, error)) *CRM {
	return &CRM{db: db}
}

func (s *CRM) CreateLead(ctx context.Context, lead *models.Lead) (string, error) {
	client, err := s.db()
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	if _, err := client.Collection(models.CollectionLeads).Doc(id).Set(ctx, lead); err != nil {
		return "", fmt.Errorf("create lead: %w", err)
	}
	return id, nil
}

func (s *CRM) GetLead(ctx context.Context, leadID string) (*models.Lead, error) {
	client, err := s.db()
	if err != nil {
		return nil, err
	}

	snap, err := client.Collection(models.CollectionLeads).Doc(leadID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, services.ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lead %s: %w", leadID, err)
	}

	var lead models.Lead
	if err := snap.DataTo(&lead); err != nil {
		return nil, fmt.Errorf("decode lead %s: %w", leadID, err)
	}
	lead.ID = snap.Ref.ID
	return &lead, nil
}

func (s *CRM) MarkLeadConverted(ctx context.Context, leadID string) error {
	client, err := s.db()
	if err != nil {
		return err
	}

	_, err = client.Collection(models.CollectionLeads).Doc(leadID).Update(ctx, []firestore.Update{
		{Path: "status", Value: models.LeadStatusConverted},
		{Path: "convertedAt", Value: firestore.ServerTimestamp},
	})
	if status.Code(err) == codes.NotFound {
		return services.ErrLeadNotFound
	}
	if err != nil {
		return fmt.Errorf("convert lead %s: %w", leadID, err)
	}
	return nil
}

func (s *CRM) AssignLead(ctx context.Context, leadID, repID, repName string) error {
	client, err := s.db()
	if err != nil {
		return err
	}

	_, err = client.Collection(models.CollectionLeads).Doc(leadID).Update(ctx, []firestore.Update{
		{Path: "assigned_to_id", Value: repID},
		{Path: "assigned_to_name", Value: repName},
		{Path: "assignedAt", Value: firestore.ServerTimestamp},
	})
	if status.Code(err) == codes.NotFound {
		return services.ErrLeadNotFound
	}
	if err != nil {
		return fmt.Errorf("assign lead %s: %w", leadID, err)
	}
	return nil
}

func (s *CRM) CreateOpportunity(ctx context.Context, opportunity *models.Opportunity) (string, error) {
	client, err := s.db()
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	if _, err := client.Collection(models.CollectionOpportunities).Doc(id).Set(ctx, opportunity); err != nil {
		return "", fmt.Errorf("create opportunity: %w", err)
	}
	return id, nil
}

func (s *CRM) UpdateOpportunityStage(ctx context.Context, opportunityID, stage string, closed bool) error {
	client, err := s.db()
	if err != nil {
		return err
	}

	updates := []firestore.Update{
		{Path: "stage", Value: stage},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	}
	if closed {
		updates = append(updates, firestore.Update{Path: "closedAt", Value: firestore.ServerTimestamp})
	}

	_, err = client.Collection(models.CollectionOpportunities).Doc(opportunityID).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return services.ErrOpportunityNotFound
	}
	if err != nil {
		return fmt.Errorf("update opportunity %s: %w", opportunityID, err)
	}
	return nil
}

func (s *CRM) ListOpportunities(ctx context.Context) ([]models.Opportunity, error) {
	client, err := s.db()
	if err != nil {
		return nil, err
	}

	opportunities := []models.Opportunity{}
	iter := client.Collection(models.CollectionOpportunities).Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list opportunities: %w", err)
		}

		var opportunity models.Opportunity
		if err := snap.DataTo(&opportunity); err != nil {
			return nil, fmt.Errorf("decode opportunity %s: %w", snap.Ref.ID, err)
		}
		opportunity.ID = snap.Ref.ID
		opportunities = append(opportunities, opportunity)
	}
	return opportunities, nil
}

func (s *CRM) CreateTicket(ctx context.Context, ticket *models.Ticket) (string, error) {
	client, err := s.db()
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	if _, err := client.Collection(models.CollectionTickets).Doc(id).Set(ctx, ticket); err != nil {
		return "", fmt.Errorf("create ticket: %w", err)
	}
	return id, nil
}

func (s *CRM) ListTickets(ctx context.Context, limit int) ([]models.Ticket, error) {
	client, err := s.db()
	if err != nil {
		return nil, err
	}

	query := client.Collection(models.CollectionTickets).Query
	if limit > 0 {
		query = query.OrderBy("created_at", firestore.Desc).Limit(limit)
	}

	tickets := []models.Ticket{}
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list tickets: %w", err)
		}

		var ticket models.Ticket
		if err := snap.DataTo(&ticket); err != nil {
			return nil, fmt.Errorf("decode ticket %s: %w", snap.Ref.ID, err)
		}
		ticket.ID = snap.Ref.ID
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

func (s *CRM) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	client, err := s.db()
	if err != nil {
		return nil, err
	}

	customers := []models.Customer{}
	iter := client.Collection(models.CollectionCustomers).Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list customers: %w", err)
		}

		var customer models.Customer
		if err := snap.DataTo(&customer); err != nil {
			return nil, fmt.Errorf("decode customer %s: %w", snap.Ref.ID, err)
		}
		customer.ID = snap.Ref.ID
		customers = append(customers, customer)
	}
	return customers, nil
}
