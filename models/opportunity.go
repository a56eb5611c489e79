package models

import (
	"time"
)

// Opportunity pipeline stages, in pipeline order.
const (
	StageQualification = "Qualification"
	StageProposal      = "Proposal"
	StageNegotiation   = "Negotiation"
	StageWon           = "Won"
	StageLost          = "Lost"
)

var opportunityStages = []string{
	StageQualification,
	StageProposal,
	StageNegotiation,
	StageWon,
	StageLost,
}

// ValidOpportunityStage reports whether stage is one of the pipeline stages.
func ValidOpportunityStage(stage string) bool {
	for _, s := range opportunityStages {
		if s == stage {
			return true
		}
	}
	return false
}

// ClosedStage reports whether stage terminates the opportunity.
func ClosedStage(stage string) bool {
	return stage == StageWon || stage == StageLost
}

// Opportunity is a document in the opportunities collection, created when a
// lead is converted.
type Opportunity struct {
	ID string `firestore:"-" json:"id"`

	LeadID string  `firestore:"lead_id" json:"lead_id"`
	Name   string  `firestore:"name" json:"name"`
	Email  string  `firestore:"email" json:"email"`
	Source string  `firestore:"source" json:"source"`
	Stage  string  `firestore:"stage" json:"stage"`
	Amount float64 `firestore:"amount" json:"amount"`

	CreatedAt time.Time  `firestore:"createdAt,serverTimestamp" json:"createdAt"`
	UpdatedAt *time.Time `firestore:"updatedAt,omitempty" json:"updatedAt,omitempty"`
	ClosedAt  *time.Time `firestore:"closedAt,omitempty" json:"closedAt,omitempty"`
}
