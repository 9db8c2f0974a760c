package usecase

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"servicemarket/internal/domain/entity"
	"servicemarket/internal/domain/repository"
	"servicemarket/internal/infrastructure/cache"
	"servicemarket/pkg/errors"
	"servicemarket/pkg/logger"
)

const userFetchConcurrency = 8

type ProviderUseCase struct {
	providerRepo repository.ProviderRepository
	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
	cache        cache.Cache
}

func NewProviderUseCase(
	providerRepo repository.ProviderRepository,
	userRepo repository.UserRepository,
	categoryRepo repository.CategoryRepository,
	c cache.Cache,
) *ProviderUseCase {
	return &ProviderUseCase{
		providerRepo: providerRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		cache:        c,
	}
}

// ProviderFilter narrows a provider listing. Zero values mean "no constraint".
type ProviderFilter struct {
	CategoryID         string
	VerificationStatus entity.VerificationStatus
	MinRating          float64
	AvailableOnly      bool
	Limit              int
}

// FilterProviders applies every constraint in f, orders the result by
// average rating (then review count, then id) and truncates it to f.Limit.
// The output does not depend on the order of the input.
func FilterProviders(providers []*entity.ServiceProvider, f ProviderFilter) []*entity.ServiceProvider {
	out := make([]*entity.ServiceProvider, 0, len(providers))
	for _, p := range providers {
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.VerificationStatus != "" && p.VerificationStatus != f.VerificationStatus {
			continue
		}
		if f.MinRating > 0 && p.AverageRating < f.MinRating {
			continue
		}
		if f.AvailableOnly && !p.IsAvailable {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.AverageRating != b.AverageRating {
			return a.AverageRating > b.AverageRating
		}
		if a.TotalReviews != b.TotalReviews {
			return a.TotalReviews > b.TotalReviews
		}
		return a.ID < b.ID
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

func (uc *ProviderUseCase) GetServiceProviders(ctx context.Context, filter ProviderFilter) ([]*entity.ProviderListing, error) {
	if filter.VerificationStatus != "" && !filter.VerificationStatus.Valid() {
		return nil, errors.BadRequest("Invalid verification status", nil)
	}

	providers, err := uc.providerRepo.List(ctx, filter.VerificationStatus)
	if err != nil {
		return nil, err
	}

	return uc.attachUsers(ctx, FilterProviders(providers, filter))
}

// attachUsers fetches the user behind each provider. A missing user yields an
// empty summary; any other read failure fails the whole listing.
func (uc *ProviderUseCase) attachUsers(ctx context.Context, providers []*entity.ServiceProvider) ([]*entity.ProviderListing, error) {
	listings := make([]*entity.ProviderListing, len(providers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(userFetchConcurrency)
	for i, p := range providers {
		i, p := i, p
		g.Go(func() error {
			listing := &entity.ProviderListing{ServiceProvider: p}
			user, err := uc.userRepo.GetByID(gctx, p.ID)
			switch {
			case err == nil:
				listing.Users = user.Summary()
			case errors.IsNotFound(err):
				logger.Warn("provider %s has no user record", p.ID)
			default:
				return err
			}
			listings[i] = listing
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return listings, nil
}

func (uc *ProviderUseCase) GetProvider(ctx context.Context, id string) (*entity.ProviderListing, error) {
	if id == "" {
		return nil, errors.BadRequest("Provider ID is required", nil)
	}
	provider, err := uc.providerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	listings, err := uc.attachUsers(ctx, []*entity.ServiceProvider{provider})
	if err != nil {
		return nil, err
	}
	return listings[0], nil
}

// FeaturedProviders returns the best rated verified providers that accept
// bookings. The list is cached and may lag behind rating changes.
func (uc *ProviderUseCase) FeaturedProviders(ctx context.Context) ([]*entity.ProviderListing, error) {
	return cache.Fetch(ctx, uc.cache, cacheKeyFeatured, func(ctx context.Context) ([]*entity.ProviderListing, error) {
		return uc.GetServiceProviders(ctx, ProviderFilter{
			VerificationStatus: entity.VerificationVerified,
			AvailableOnly:      true,
			Limit:              featuredProviderCount,
		})
	})
}

type CreateProviderInput struct {
	ID                 string                    `json:"id"`
	CategoryID         string                    `json:"category_id"`
	ExperienceYears    int                       `json:"experience_years"`
	HourlyRate         float64                   `json:"hourly_rate"`
	ServiceDescription string                    `json:"service_description"`
	ServicesOffered    []string                  `json:"services_offered"`
	PortfolioImages    []string                  `json:"portfolio_images"`
	VerificationStatus entity.VerificationStatus `json:"verification_status"`
}

// CreateServiceProvider writes a provider record with zeroed aggregates,
// replacing any existing record with the same id.
func (uc *ProviderUseCase) CreateServiceProvider(ctx context.Context, input CreateProviderInput) (*entity.ServiceProvider, error) {
	if input.ID == "" {
		return nil, errors.BadRequest("Provider ID is required", nil)
	}
	if input.VerificationStatus == "" {
		input.VerificationStatus = entity.VerificationPending
	}
	if !input.VerificationStatus.Valid() {
		return nil, errors.BadRequest("Invalid verification status", nil)
	}

	now := time.Now()
	provider := &entity.ServiceProvider{
		ID:                 input.ID,
		CategoryID:         input.CategoryID,
		ExperienceYears:    input.ExperienceYears,
		HourlyRate:         input.HourlyRate,
		ServiceDescription: input.ServiceDescription,
		ServicesOffered:    input.ServicesOffered,
		PortfolioImages:    input.PortfolioImages,
		VerificationStatus: input.VerificationStatus,
		IsAvailable:        true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if provider.ServicesOffered == nil {
		provider.ServicesOffered = []string{}
	}
	if provider.PortfolioImages == nil {
		provider.PortfolioImages = []string{}
	}

	if err := uc.providerRepo.Create(ctx, provider); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, uc.cache, cacheKeyFeatured)
	return provider, nil
}

const (
	MinExperienceYears = 0
	MaxExperienceYears = 50
	MinHourlyRate      = 100
	MaxHourlyRate      = 10000
)

type OnboardProviderInput struct {
	CategoryID         string   `json:"category_id" validate:"required"`
	ExperienceYears    int      `json:"experience_years" validate:"gte=0,lte=50"`
	HourlyRate         float64  `json:"hourly_rate" validate:"gte=100,lte=10000"`
	ServiceDescription string   `json:"service_description" validate:"required,min=20,max=1000"`
	ServicesOffered    []string `json:"services_offered" validate:"required,min=1,dive,required"`
	PortfolioImages    []string `json:"portfolio_images" validate:"max=10,dive,url"`
}

// OnboardProvider turns an existing user into a provider.
func (uc *ProviderUseCase) OnboardProvider(ctx context.Context, uid string, input OnboardProviderInput) (*entity.UserProfile, error) {
	if input.ExperienceYears < MinExperienceYears || input.ExperienceYears > MaxExperienceYears {
		return nil, errors.BadRequest("Experience must be between 0 and 50 years", nil)
	}
	if input.HourlyRate < MinHourlyRate || input.HourlyRate > MaxHourlyRate {
		return nil, errors.BadRequest("Hourly rate must be between 100 and 10000", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	if _, err := uc.providerRepo.GetByID(ctx, uid); err == nil {
		return nil, errors.Conflict("Provider profile already exists")
	} else if !errors.IsNotFound(err) {
		return nil, err
	}

	if err := uc.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	provider, err := uc.CreateServiceProvider(ctx, CreateProviderInput{
		ID:                 uid,
		CategoryID:         input.CategoryID,
		ExperienceYears:    input.ExperienceYears,
		HourlyRate:         input.HourlyRate,
		ServiceDescription: input.ServiceDescription,
		ServicesOffered:    input.ServicesOffered,
		PortfolioImages:    input.PortfolioImages,
	})
	if err != nil {
		return nil, err
	}

	if err := uc.userRepo.Update(ctx, uid, map[string]interface{}{"role": string(entity.RoleProvider)}); err != nil {
		return nil, err
	}
	user.Role = entity.RoleProvider

	return &entity.UserProfile{User: user, Provider: provider}, nil
}

func (uc *ProviderUseCase) checkCategory(ctx context.Context, id string) error {
	categories, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return err
	}
	for _, c := range categories {
		if c.ID == id {
			return nil
		}
	}
	return errors.BadRequest("Unknown service category", nil)
}

func (uc *ProviderUseCase) SetVerificationStatus(ctx context.Context, id string, status entity.VerificationStatus) (*entity.ServiceProvider, error) {
	if !status.Valid() {
		return nil, errors.BadRequest("Invalid verification status", nil)
	}
	if err := uc.providerRepo.Update(ctx, id, map[string]interface{}{
		"verification_status": string(status),
	}); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, uc.cache, cacheKeyFeatured)
	return uc.providerRepo.GetByID(ctx, id)
}
