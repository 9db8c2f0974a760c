// Package store opens the repositories for the backend named by STORE_BACKEND.
package store

import (
	"context"
	"fmt"

	adapter "servicemarket/internal/adapter/repository"
	"servicemarket/internal/adapter/repository/memory"
	"servicemarket/internal/domain/repository"
	"servicemarket/internal/infrastructure/firebase"
	"servicemarket/pkg/config"
	"servicemarket/pkg/logger"
)

type Store struct {
	Repositories *repository.Repositories
	// Firebase is nil for the memory backend.
	Firebase *firebase.Clients
}

func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	s := &Store{}
	if cfg.UsesFirebase() {
		clients, err := firebase.NewClients(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s.Firebase = clients
	}

	switch cfg.StoreBackend {
	case config.BackendMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		s.Repositories = memory.NewRepositories(memory.NewStore())
		return s, nil
	case config.BackendRealtime:
		s.Repositories = adapter.NewRealtimeRepositories(s.Firebase.Database)
	case config.BackendFirestore:
		s.Repositories = adapter.NewFirestoreRepositories(s.Firebase.Firestore)
	default:
		s.Close()
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	logger.Info("using %s store backend", cfg.StoreBackend)
	return s, nil
}

func (s *Store) Close() {
	if s.Firebase != nil {
		s.Firebase.Close()
	}
}
