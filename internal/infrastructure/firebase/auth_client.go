package firebase

import (
	"context"
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"

	"servicemarket/pkg/client"
)

// Identity is the subset of a verified ID token the backend cares about.
type Identity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

type FirebaseAuthClient struct {
	client     *auth.Client
	apiKey     string
	httpClient *http.Client
}

func NewFirebaseAuthClient(client *auth.Client, apiKey string) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client:     client,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (*Identity, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}

	identity := &Identity{UID: result.UID}
	if v, ok := result.Claims["email"].(string); ok {
		identity.Email = v
	}
	if v, ok := result.Claims["name"].(string); ok {
		identity.Name = v
	}
	if v, ok := result.Claims["picture"].(string); ok {
		identity.Picture = v
	}
	return identity, nil
}

func (f *FirebaseAuthClient) GenerateToken(ctx context.Context, uid string) (string, error) {
	return f.client.CustomToken(ctx, uid)
}

// GenerateDevToken mints a custom token for uid and, when a web API key is
// configured, exchanges it for an ID token usable as a Bearer credential.
func (f *FirebaseAuthClient) GenerateDevToken(ctx context.Context, uid string) (string, error) {
	customToken, err := f.client.CustomToken(ctx, uid)
	if err != nil {
		return "", err
	}

	if f.apiKey == "" {
		return customToken, nil
	}

	tokens, err := client.SignInWithCustomToken(ctx, f.httpClient, f.apiKey, customToken)
	if err != nil {
		return "", err
	}
	return tokens.IDToken, nil
}

// DevVerifier trusts the bearer token as the user id. It exists for local runs
// of the memory backend without Firebase credentials and must never be used
// in production.
type DevVerifier struct{}

func (DevVerifier) VerifyToken(_ context.Context, token string) (*Identity, error) {
	return &Identity{UID: token}, nil
}
