// Package firebase builds the Firebase Admin clients used for token verification
// and, when Firestore is the remote store, for profile and price persistence.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// ErrNoProject is returned when no Firebase project id is configured.
var ErrNoProject = errors.New("firebase project id is required")

// Config holds Firebase configuration.
type Config struct {
	ProjectID string
	// CredentialsFile is a service account JSON path. Empty uses application default
	// credentials, or none at all when the emulators are configured.
	CredentialsFile string
	// Firestore opens a Firestore client next to the Auth client.
	Firestore bool
}

// Clients holds initialized Firebase clients. Firestore is nil unless requested.
type Clients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
}

// InitializeClients sets up the Firebase app and the clients cfg asks for.
func InitializeClients(ctx context.Context, cfg Config) (*Clients, error) {
	if cfg.ProjectID == "" {
		return nil, ErrNoProject
	}
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}

	clients := &Clients{}
	if clients.Auth, err = app.Auth(ctx); err != nil {
		return nil, fmt.Errorf("firebase auth: %w", err)
	}
	if cfg.Firestore {
		if clients.Firestore, err = app.Firestore(ctx); err != nil {
			return nil, fmt.Errorf("firestore: %w", err)
		}
	}
	return clients, nil
}

func clientOptions(cfg Config) ([]option.ClientOption, error) {
	if cfg.CredentialsFile == "" {
		return nil, nil
	}
	creds, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading credentials: %w", err)
	}
	return []option.ClientOption{option.WithCredentialsJSON(creds)}, nil
}

// PingFirestore reads at most one document to confirm Firestore answers.
func (c *Clients) PingFirestore(ctx context.Context) error {
	if c.Firestore == nil {
		return nil
	}
	_, err := c.Firestore.Collection("accounts").Limit(1).Documents(ctx).GetAll()
	return err
}

// Close closes the Firestore client.
func (c *Clients) Close() error {
	if c.Firestore != nil {
		return c.Firestore.Close()
	}
	return nil
}
