package models

import (
	"time"
)

// Lead statuses.
const (
	LeadStatusNew       = "New"
	LeadStatusConverted = "Converted"
)

// Lead is a document in the leads collection.
type Lead struct {
	ID string `firestore:"-" json:"id"`

	Name   string `firestore:"name" json:"name"`
	Email  string `firestore:"email" json:"email"`
	Source string `firestore:"source" json:"source"`
	Status string `firestore:"status" json:"status"`

	AssignedToID   string `firestore:"assigned_to_id,omitempty" json:"assigned_to_id,omitempty"`
	AssignedToName string `firestore:"assigned_to_name,omitempty" json:"assigned_to_name,omitempty"`

	CreatedAt   time.Time  `firestore:"createdAt,serverTimestamp" json:"createdAt"`
	ConvertedAt *time.Time `firestore:"convertedAt,omitempty" json:"convertedAt,omitempty"`
	AssignedAt  *time.Time `firestore:"assignedAt,omitempty" json:"assignedAt,omitempty"`
}
