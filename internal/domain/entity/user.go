package entity

import (
	"fmt"
	"time"
)

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleProvider UserRole = "provider"
	RoleAdmin    UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID                string    `json:"id,omitempty" firestore:"-"`
	Email             string    `json:"email" firestore:"email"`
	FullName          string    `json:"full_name" firestore:"full_name"`
	PhoneNumber       string    `json:"phone_number,omitempty" firestore:"phone_number,omitempty"`
	ProfilePictureURL string    `json:"profile_picture_url,omitempty" firestore:"profile_picture_url,omitempty"`
	Role              UserRole  `json:"role" firestore:"role"`
	City              string    `json:"city,omitempty" firestore:"city,omitempty"`
	State             string    `json:"state,omitempty" firestore:"state,omitempty"`
	Pincode           string    `json:"pincode,omitempty" firestore:"pincode,omitempty"`
	IsActive          bool      `json:"is_active" firestore:"is_active"`
	IsVerified        bool      `json:"is_verified" firestore:"is_verified"`
	CreatedAt         time.Time `json:"created_at" firestore:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" firestore:"updated_at"`
}

func (u *User) SetID(id string) { u.ID = id }

func (u *User) Validate() error {
	if u.Role != "" && !u.Role.Valid() {
		return fmt.Errorf("user %s: unknown role %q", u.ID, u.Role)
	}
	return nil
}

// UserSummary is the trimmed user view attached to provider listings.
type UserSummary struct {
	FullName          string `json:"full_name"`
	ProfilePictureURL string `json:"profile_picture_url"`
	City              string `json:"city"`
	PhoneNumber       string `json:"phone_number"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		FullName:          u.FullName,
		ProfilePictureURL: u.ProfilePictureURL,
		City:              u.City,
		PhoneNumber:       u.PhoneNumber,
	}
}

// UserProfile is a user together with the provider record that extends it, if any.
type UserProfile struct {
	*User
	Provider *ServiceProvider `json:"service_provider,omitempty"`
}
