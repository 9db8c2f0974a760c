package repository

import (
	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/db"

	"servicemarket/internal/domain/repository"
)

func NewRealtimeRepositories(client *db.Client) *repository.Repositories {
	return &repository.Repositories{
		Users:      NewRealtimeUserRepository(client),
		Providers:  NewRealtimeProviderRepository(client),
		Bookings:   NewRealtimeBookingRepository(client),
		Reviews:    NewRealtimeReviewRepository(client),
		Categories: NewRealtimeCategoryRepository(client),
	}
}

func NewFirestoreRepositories(client *firestore.Client) *repository.Repositories {
	return &repository.Repositories{
		Users:      NewFirestoreUserRepository(client),
		Providers:  NewFirestoreProviderRepository(client),
		Bookings:   NewFirestoreBookingRepository(client),
		Reviews:    NewFirestoreReviewRepository(client),
		Categories: NewFirestoreCategoryRepository(client),
	}
}
