package models

import (
	"time"
)

// Customer is a document in the customers collection. Its loyalty profile
// lives in a separate collection under the same document ID, so the stored
// back-reference is informational only.
type Customer struct {
	ID string `firestore:"-" json:"id"`

	Name    string `firestore:"name" json:"name"`
	Email   string `firestore:"email" json:"email"`
	Phone   string `firestore:"phone" json:"phone"`
	Company string `firestore:"company" json:"company"`

	LoyaltyProfileID string    `firestore:"loyalty_profile_id,omitempty" json:"loyalty_profile_id,omitempty"`
	CreatedAt        time.Time `firestore:"createdAt,serverTimestamp" json:"createdAt"`
}
