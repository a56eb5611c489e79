package services

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/robfig/cron/v3"
	"google.golang.org/api/iterator"

	"crmpro-backend/models"
)

// SLAService scans open support tickets and flags the ones past their SLA
// deadline so dashboards can surface them.
type SLAService struct {
	db func() (*firestore.Client, error)
}

func NewSLAService(db func() (*firestore.Client, error)) *SLAService {
	return &SLAService{db: db}
}

// StartScheduler runs the breach scan at the top of every hour.
func (s *SLAService) StartScheduler() {
	c := cron.New()
	c.AddFunc("0 * * * *", s.FlagBreachedTickets)
	c.Start()
	log.Println("SLA watcher started")
}

// FlagBreachedTickets marks open tickets whose deadline has passed.
func (s *SLAService) FlagBreachedTickets() {
	client, err := s.db()
	if err != nil {
		log.Printf("SLA scan skipped: %v", err)
		return
	}

	ctx := context.Background()
	now := time.Now().UTC()

	iter := client.Collection(models.CollectionTickets).
		Where("status", "==", models.TicketStatusOpen).
		Documents(ctx)
	defer iter.Stop()

	flagged := 0
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Printf("SLA scan failed: %v", err)
			return
		}

		var ticket models.Ticket
		if err := snap.DataTo(&ticket); err != nil {
			log.Printf("SLA scan: decode ticket %s: %v", snap.Ref.ID, err)
			continue
		}
		if ticket.SLABreached || ticket.SLADeadline == "" {
			continue
		}

		deadline, err := time.Parse(time.RFC3339, ticket.SLADeadline)
		if err != nil {
			log.Printf("SLA scan: bad deadline on ticket %s: %v", snap.Ref.ID, err)
			continue
		}
		if !now.After(deadline) {
			continue
		}

		if _, err := snap.Ref.Update(ctx, []firestore.Update{
			{Path: "sla_breached", Value: true},
		}); err != nil {
			log.Printf("SLA scan: flag ticket %s: %v", snap.Ref.ID, err)
			continue
		}
		flagged++
	}

	if flagged > 0 {
		log.Printf("SLA watcher flagged %d overdue tickets", flagged)
	}
}
