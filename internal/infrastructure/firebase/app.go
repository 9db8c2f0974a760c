package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"

	"servicemarket/pkg/config"
	"servicemarket/pkg/logger"
)

// Clients bundles the Firebase services the backend talks to. Database and
// Firestore are only set for the backend selected by STORE_BACKEND.
type Clients struct {
	App       *fbapp.App
	Auth      *auth.Client
	Database  *db.Client
	Firestore *firestore.Client
	Option    option.ClientOption
}

// CredentialsOption prefers inline service account JSON (production) over a
// key file on disk (local development).
func CredentialsOption(cfg *config.Config) (option.ClientOption, error) {
	if cfg.FirebaseServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountJSON)), nil
	}
	if cfg.FirebaseServiceAccountPath == "" {
		return nil, fmt.Errorf("FIREBASE_SERVICE_ACCOUNT_JSON or FIREBASE_SERVICE_ACCOUNT_PATH must be set")
	}
	if _, err := os.Stat(cfg.FirebaseServiceAccountPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("service account file does not exist: %s", cfg.FirebaseServiceAccountPath)
	}
	logger.Info("Using Firebase service account from file: %s", cfg.FirebaseServiceAccountPath)
	return option.WithCredentialsFile(cfg.FirebaseServiceAccountPath), nil
}

func NewClients(ctx context.Context, cfg *config.Config) (*Clients, error) {
	opt, err := CredentialsOption(cfg)
	if err != nil {
		return nil, err
	}

	app, err := fbapp.NewApp(ctx, &fbapp.Config{
		ProjectID:   cfg.FirebaseProject,
		DatabaseURL: cfg.FirebaseDatabaseURL,
	}, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase Auth: %w", err)
	}

	clients := &Clients{App: app, Auth: authClient, Option: opt}

	switch cfg.StoreBackend {
	case config.BackendRealtime:
		if cfg.FirebaseDatabaseURL == "" {
			return nil, fmt.Errorf("FIREBASE_DATABASE_URL is required for the realtime backend")
		}
		clients.Database, err = app.Database(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Realtime Database: %w", err)
		}
	case config.BackendFirestore:
		clients.Firestore, err = app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create Firestore client: %w", err)
		}
	case config.BackendMemory:
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	return clients, nil
}

func (c *Clients) Close() {
	if c.Firestore != nil {
		if err := c.Firestore.Close(); err != nil {
			logger.Warn("closing Firestore client: %v", err)
		}
	}
}
