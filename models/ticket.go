package models

import (
	"time"
)

// Ticket statuses and default priority.
const (
	TicketStatusOpen   = "Open"
	TicketStatusClosed = "Closed"

	TicketPriorityDefault = "Medium"
)

// TicketSLA is how long a ticket may stay open before it breaches its SLA.
const TicketSLA = 24 * time.Hour

// Ticket is a document in the tickets collection. The SLA deadline is stored
// as an RFC 3339 string so dashboards can render it without conversion.
type Ticket struct {
	ID string `firestore:"-" json:"id"`

	CustomerID string `firestore:"customer_id" json:"customer_id"`
	Issue      string `firestore:"issue" json:"issue"`
	Status     string `firestore:"status" json:"status"`
	Priority   string `firestore:"priority" json:"priority"`

	CreatedAt   time.Time  `firestore:"created_at,serverTimestamp" json:"created_at"`
	SLADeadline string     `firestore:"sla_deadline" json:"sla_deadline"`
	ResolvedAt  *time.Time `firestore:"resolved_at,omitempty" json:"resolved_at,omitempty"`
	SLABreached bool       `firestore:"sla_breached,omitempty" json:"sla_breached,omitempty"`
}
