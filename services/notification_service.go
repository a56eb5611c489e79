package services

import (
	"context"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"crmpro-backend/models"
)

// TierNotifier texts a customer when a purchase promotes their loyalty tier.
// Delivery is best-effort; the points mutation has already committed by the
// time this runs.
type TierNotifier struct {
	db     func() (*firestore.Client, error)
	client *twilio.RestClient
	from   string
}

// NewTierNotifier returns nil when the Twilio environment is not configured,
// which disables promotion texts without touching the engine.
func NewTierNotifier(db func() (*firestore.Client, error)) *TierNotifier {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_FROM_NUMBER")
	if accountSid == "" || authToken == "" || from == "" {
		return nil
	}

	return &TierNotifier{
		db:   db,
		from: from,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (n *TierNotifier) NotifyTierPromotion(ctx context.Context, customerID, tier string) {
	client, err := n.db()
	if err != nil {
		log.Printf("Promotion text skipped for %s: %v", customerID, err)
		return
	}

	snap, err := client.Collection(models.CollectionCustomers).Doc(customerID).Get(ctx)
	if err != nil {
		log.Printf("Promotion text: customer %s lookup failed: %v", customerID, err)
		return
	}
	var customer models.Customer
	if err := snap.DataTo(&customer); err != nil {
		log.Printf("Promotion text: decode customer %s: %v", customerID, err)
		return
	}
	if customer.Phone == "" {
		return
	}

	body := fmt.Sprintf("Congratulations %s! You have reached the %s tier.", customer.Name, tier)
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(customer.Phone)
	params.SetFrom(n.from)
	params.SetBody(body)

	if _, err := n.client.Api.CreateMessage(params); err != nil {
		log.Printf("Promotion text to %s failed: %v", customerID, err)
	}
}
