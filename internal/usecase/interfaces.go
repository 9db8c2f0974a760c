package usecase

const (
	cacheKeyCategories = "categories"
	cacheKeyFeatured   = "providers:featured"

	featuredProviderCount = 6
)

// SessionClaims are the identity token fields used to bootstrap a user record.
type SessionClaims struct {
	UID     string
	Email   string
	Name    string
	Picture string
}
