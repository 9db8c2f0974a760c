package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrSignedOut is returned once the session has been signed out, either
// explicitly or because the server kept rejecting refreshed tokens.
var ErrSignedOut = errors.New("client: signed out")

// expirySkew refreshes tokens slightly before they actually expire.
const expirySkew = time.Minute

// Token is a bearer credential and the time it stops being valid.
// A zero Expiry means the token does not expire on its own.
type Token struct {
	Value  string
	Expiry time.Time
}

func (t *Token) valid(now time.Time) bool {
	if t == nil || t.Value == "" {
		return false
	}
	return t.Expiry.IsZero() || now.Add(expirySkew).Before(t.Expiry)
}

// TokenSource mints a fresh token every time it is called.
type TokenSource interface {
	Token(ctx context.Context) (*Token, error)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) (*Token, error)

func (f TokenSourceFunc) Token(ctx context.Context) (*Token, error) { return f(ctx) }

// Session owns the token lifecycle for one signed-in user: it caches the
// current token, collapses concurrent refreshes into one call to the source
// and tells subscribers when the user is signed out.
type Session struct {
	mu          sync.Mutex
	source      TokenSource
	token       *Token
	signedOut   bool
	subscribers map[int]chan struct{}
	nextSub     int
	now         func() time.Time

	group singleflight.Group
}

func NewSession(source TokenSource) *Session {
	return &Session{
		source:      source,
		subscribers: make(map[int]chan struct{}),
		now:         time.Now,
	}
}

// Token returns the cached token, fetching a new one when it is missing or
// about to expire.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.signedOut {
		s.mu.Unlock()
		return "", ErrSignedOut
	}
	if s.token.valid(s.now()) {
		value := s.token.Value
		s.mu.Unlock()
		return value, nil
	}
	s.mu.Unlock()
	return s.fetch(ctx)
}

// Refresh discards the cached token and fetches a new one.
func (s *Session) Refresh(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.signedOut {
		s.mu.Unlock()
		return "", ErrSignedOut
	}
	s.token = nil
	s.mu.Unlock()
	return s.fetch(ctx)
}

func (s *Session) fetch(ctx context.Context) (string, error) {
	v, err, _ := s.group.Do("token", func() (interface{}, error) {
		s.mu.Lock()
		if s.token.valid(s.now()) {
			value := s.token.Value
			s.mu.Unlock()
			return value, nil
		}
		source := s.source
		s.mu.Unlock()

		tok, err := source.Token(ctx)
		if err != nil {
			return "", err
		}
		if tok == nil || tok.Value == "" {
			return "", errors.New("client: token source returned an empty token")
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.signedOut {
			return "", ErrSignedOut
		}
		s.token = tok
		return tok.Value, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// SignOut clears the token and notifies every subscriber. Only the first call
// after a sign-in notifies.
func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.signedOut {
		return
	}
	s.signedOut = true
	s.token = nil
	for _, ch := range s.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// SignIn resumes the session with a new source after a sign-out.
func (s *Session) SignIn(source TokenSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = source
	s.token = nil
	s.signedOut = false
}

func (s *Session) SignedOut() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signedOut
}

// Subscribe returns a channel that receives a value on every sign-out, and a
// function that stops the subscription.
func (s *Session) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan struct{}, 1)
	s.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subscribers, id)
		})
	}
}
