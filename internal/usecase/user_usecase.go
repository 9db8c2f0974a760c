package usecase

import (
	"context"
	"time"

	"servicemarket/internal/domain/entity"
	"servicemarket/internal/domain/repository"
	"servicemarket/pkg/errors"
	"servicemarket/pkg/logger"
)

type UserUseCase struct {
	userRepo     repository.UserRepository
	providerRepo repository.ProviderRepository
}

func NewUserUseCase(userRepo repository.UserRepository, providerRepo repository.ProviderRepository) *UserUseCase {
	return &UserUseCase{
		userRepo:     userRepo,
		providerRepo: providerRepo,
	}
}

// GetProfile returns the user together with the provider record that extends
// it when the user is a provider.
func (uc *UserUseCase) GetProfile(ctx context.Context, uid string) (*entity.UserProfile, error) {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	profile := &entity.UserProfile{User: user}
	if user.Role != entity.RoleProvider {
		return profile, nil
	}

	provider, err := uc.providerRepo.GetByID(ctx, uid)
	switch {
	case err == nil:
		profile.Provider = provider
	case errors.IsNotFound(err):
		logger.Warn("user %s has provider role but no provider record", uid)
	default:
		return nil, err
	}
	return profile, nil
}

// SyncSession makes sure a signed-in identity has a user record, creating a
// customer from the token claims on first sign-in.
func (uc *UserUseCase) SyncSession(ctx context.Context, claims SessionClaims) (*entity.UserProfile, error) {
	if claims.UID == "" {
		return nil, errors.Unauthorized("Missing user identity", nil)
	}

	profile, err := uc.GetProfile(ctx, claims.UID)
	if err == nil {
		return profile, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		ID:                claims.UID,
		Email:             claims.Email,
		FullName:          claims.Name,
		ProfilePictureURL: claims.Picture,
		Role:              entity.RoleCustomer,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	logger.Info("created user record for %s", claims.UID)
	return &entity.UserProfile{User: user}, nil
}

type UpdateProfileInput struct {
	FullName          *string `json:"full_name" validate:"omitempty,min=2,max=100"`
	PhoneNumber       *string `json:"phone_number" validate:"omitempty,len=10,numeric"`
	ProfilePictureURL *string `json:"profile_picture_url" validate:"omitempty,url"`
	City              *string `json:"city" validate:"omitempty,max=100"`
	State             *string `json:"state" validate:"omitempty,max=100"`
	Pincode           *string `json:"pincode" validate:"omitempty,max=10"`
}

func (in UpdateProfileInput) fields() map[string]interface{} {
	fields := make(map[string]interface{})
	set := func(key string, v *string) {
		if v != nil {
			fields[key] = *v
		}
	}
	set("full_name", in.FullName)
	set("phone_number", in.PhoneNumber)
	set("profile_picture_url", in.ProfilePictureURL)
	set("city", in.City)
	set("state", in.State)
	set("pincode", in.Pincode)
	return fields
}

// UpdateUserProfile merges the provided fields into the user record.
func (uc *UserUseCase) UpdateUserProfile(ctx context.Context, uid string, input UpdateProfileInput) (*entity.UserProfile, error) {
	if input.PhoneNumber != nil && *input.PhoneNumber != "" && !isPhoneNumber(*input.PhoneNumber) {
		return nil, errors.BadRequest("Phone number must be 10 digits", nil)
	}

	fields := input.fields()
	if len(fields) == 0 {
		return nil, errors.BadRequest("No fields to update", nil)
	}

	if err := uc.userRepo.Update(ctx, uid, fields); err != nil {
		return nil, err
	}
	return uc.GetProfile(ctx, uid)
}

// isPhoneNumber repeats the phone_number tag rule for callers that reach the
// use case without going through the HTTP validator.
func isPhoneNumber(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
