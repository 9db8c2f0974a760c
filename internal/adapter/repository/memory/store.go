// Package memory is an in-process store backend with the same atomicity
// guarantees as the Firebase backends. It backs tests and local development.
package memory

import (
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"servicemarket/internal/domain/entity"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// Store holds every collection behind one lock so cross-collection writes are atomic.
type Store struct {
	mu sync.Mutex

	users        map[string]*entity.User
	providers    map[string]*entity.ServiceProvider
	bookings     map[string]*entity.Booking
	reviews      map[string]*entity.Review
	reviewClaims map[string]string
	categories   map[string]*entity.ServiceCategory

	seq int
	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:        make(map[string]*entity.User),
		providers:    make(map[string]*entity.ServiceProvider),
		bookings:     make(map[string]*entity.Booking),
		reviews:      make(map[string]*entity.Review),
		reviewClaims: make(map[string]string),
		categories:   make(map[string]*entity.ServiceCategory),
		now:          time.Now,
	}
}

// SetClock replaces the time source used for updated_at stamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// clone deep-copies a record so callers never share memory with the store.
func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	data, err := codec.Marshal(v)
	if err != nil {
		panic(err)
	}
	out := new(T)
	if err := codec.Unmarshal(data, out); err != nil {
		panic(err)
	}
	return out
}

// merge applies a field map to a record the same way a document store merge would.
func merge[T any](v *T, fields map[string]interface{}) (*T, error) {
	data, err := codec.Marshal(v)
	if err != nil {
		return nil, err
	}
	doc := map[string]interface{}{}
	if err := codec.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	for k, val := range fields {
		doc[k] = val
	}
	data, err = codec.Marshal(doc)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := codec.Unmarshal(data, out); err != nil {
		return nil, err
	}
	return out, nil
}
