package config

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// ErrStoreUnavailable is the normalized connection failure surfaced to
// clients as a 503. The underlying detail stays in the server log.
var ErrStoreUnavailable = errors.New("Database connection failed")

var (
	connectOnce sync.Once
	client      *firestore.Client
	connectErr  error
)

// ConnectDB initializes the Firestore client exactly once per process.
// Every later call reuses the first outcome, success or failure.
func ConnectDB(ctx context.Context) (*firestore.Client, error) {
	connectOnce.Do(func() {
		credFile := os.Getenv("FIREBASE_CREDENTIALS")
		if credFile == "" {
			credFile = "serviceAccountKey.json"
		}

		app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credFile))
		if err != nil {
			log.Printf("Firebase init failed: %v", err)
			connectErr = ErrStoreUnavailable
			return
		}

		client, err = app.Firestore(ctx)
		if err != nil {
			log.Printf("Firestore client init failed: %v", err)
			connectErr = ErrStoreUnavailable
			return
		}

		log.Println("Firestore client initialized")
	})

	if connectErr != nil {
		return nil, connectErr
	}
	return client, nil
}

// Firestore is the process-wide accessor handed to handlers and services.
// It returns ErrStoreUnavailable when the process never managed to connect.
func Firestore() (*firestore.Client, error) {
	return ConnectDB(context.Background())
}
