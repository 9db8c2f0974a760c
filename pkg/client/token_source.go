package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	DefaultSecureTokenEndpoint     = "https://securetoken.googleapis.com/v1/token"
	DefaultIdentityToolkitEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithCustomToken"
)

// IdentityToolkitEndpoint is where custom tokens are exchanged for ID tokens.
var IdentityToolkitEndpoint = DefaultIdentityToolkitEndpoint

// TokenPair is an ID token together with the refresh token that renews it.
type TokenPair struct {
	IDToken      string
	RefreshToken string
	Expiry       time.Time
}

// FirebaseTokenSource renews Firebase ID tokens with a refresh token at the
// secure token endpoint. The refresh token is rotated when the endpoint
// returns a new one.
type FirebaseTokenSource struct {
	APIKey     string
	Endpoint   string
	HTTPClient *http.Client

	mu           sync.Mutex
	refreshToken string
}

func NewFirebaseTokenSource(apiKey, refreshToken string) *FirebaseTokenSource {
	return &FirebaseTokenSource{
		APIKey:       apiKey,
		Endpoint:     DefaultSecureTokenEndpoint,
		HTTPClient:   &http.Client{Timeout: DefaultTimeout},
		refreshToken: refreshToken,
	}
}

func (s *FirebaseTokenSource) Token(ctx context.Context) (*Token, error) {
	s.mu.Lock()
	refresh := s.refreshToken
	s.mu.Unlock()
	if refresh == "" {
		return nil, ErrSignedOut
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refresh)

	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = DefaultSecureTokenEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		endpoint+"?key="+url.QueryEscape(s.APIKey), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out struct {
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    string `json:"expires_in"`
	}
	if err := doTokenRequest(httpClientOrDefault(s.HTTPClient), req, &out); err != nil {
		return nil, err
	}

	if out.RefreshToken != "" {
		s.mu.Lock()
		s.refreshToken = out.RefreshToken
		s.mu.Unlock()
	}
	return &Token{Value: out.IDToken, Expiry: expiryFrom(out.ExpiresIn)}, nil
}

// SignInWithCustomToken exchanges a custom token minted by the Admin SDK for
// an ID token and refresh token.
func SignInWithCustomToken(ctx context.Context, hc *http.Client, apiKey, customToken string) (*TokenPair, error) {
	body, err := json.Marshal(map[string]interface{}{
		"token":             customToken,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		IdentityToolkitEndpoint+"?key="+url.QueryEscape(apiKey), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		IDToken      string `json:"idToken"`
		RefreshToken string `json:"refreshToken"`
		ExpiresIn    string `json:"expiresIn"`
	}
	if err := doTokenRequest(httpClientOrDefault(hc), req, &out); err != nil {
		return nil, err
	}
	return &TokenPair{
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
		Expiry:       expiryFrom(out.ExpiresIn),
	}, nil
}

func doTokenRequest(hc *http.Client, req *http.Request, out interface{}) error {
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("client: token endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return json.Unmarshal(data, out)
}

func expiryFrom(expiresIn string) time.Time {
	secs, err := strconv.Atoi(expiresIn)
	if err != nil || secs <= 0 {
		return time.Time{}
	}
	return time.Now().Add(time.Duration(secs) * time.Second)
}

func httpClientOrDefault(hc *http.Client) *http.Client {
	if hc != nil {
		return hc
	}
	return &http.Client{Timeout: DefaultTimeout}
}
