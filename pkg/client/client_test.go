package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servicemarket/internal/domain/entity"
	"servicemarket/pkg/client"
)

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestClient_RefreshesOnceAfter401(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.Header.Get("Authorization") != "Bearer tok-2" {
			writeJSON(w, http.StatusUnauthorized, `{"success":false,"error":{"code":"UNAUTHORIZED","message":"expired"}}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"id":"plumbing","name":"Plumbing"},"timestamp":"now"}`)
	}))
	defer srv.Close()

	src := &countingSource{}
	c := client.New(srv.URL, client.NewSession(src))

	var out entity.ServiceCategory
	err := c.Do(context.Background(), http.MethodGet, "/api/x", nil, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, "Plumbing", out.Name)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
	assert.Equal(t, 2, src.Calls())
	assert.False(t, c.Session().SignedOut())
}

func TestClient_SecondUnauthorizedSignsOut(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeJSON(w, http.StatusUnauthorized, `{"success":false,"error":{"code":"UNAUTHORIZED","message":"nope"}}`)
	}))
	defer srv.Close()

	session := client.NewSession(&countingSource{})
	signedOut, stop := session.Subscribe()
	defer stop()
	c := client.New(srv.URL, session)

	_, err := c.ListCategories(context.Background())
	assert.ErrorIs(t, err, client.ErrSignedOut)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
	assert.True(t, session.SignedOut())

	select {
	case <-signedOut:
	default:
		t.Fatal("sign-out was not broadcast")
	}

	_, err = c.ListCategories(context.Background())
	assert.ErrorIs(t, err, client.ErrSignedOut)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits), "signed-out client must not hit the server")
}

func TestClient_FailedRefreshSignsOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{}`)
	}))
	defer srv.Close()

	var calls int32
	session := client.NewSession(client.TokenSourceFunc(func(ctx context.Context) (*client.Token, error) {
		if atomic.AddInt32(&calls, 1) > 1 {
			return nil, errors.New("refresh token revoked")
		}
		return &client.Token{Value: "stale"}, nil
	}))
	c := client.New(srv.URL, session)

	_, err := c.GetProfile(context.Background())
	assert.ErrorIs(t, err, client.ErrSignedOut)
	assert.True(t, session.SignedOut())
}

func TestClient_APIErrorFromEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"success":false,"error":{"code":"NOT_FOUND","message":"Service provider not found"}}`)
	}))
	defer srv.Close()

	c := client.New(srv.URL, client.NewSession(&countingSource{}))
	_, err := c.GetProvider(context.Background(), "ghost")
	require.Error(t, err)

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "Service provider not found", apiErr.Message)
	assert.Equal(t, http.StatusNotFound, client.StatusCode(err))
	assert.False(t, c.Session().SignedOut())
}

func TestClient_DecodesBareBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id":"p1","category_id":"plumbing","average_rating":4.5,"users":{"full_name":"Ravi"}}]`)
	}))
	defer srv.Close()

	c := client.New(srv.URL, client.NewSession(&countingSource{}))
	listings, err := c.ListProviders(context.Background(), client.ProviderQuery{})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "p1", listings[0].ID)
	assert.Equal(t, "Ravi", listings[0].Users.FullName)
}

func TestClient_ListProvidersSendsFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/api/providers", r.URL.Path)
		assert.Equal(t, "plumbing", q.Get("category_id"))
		assert.Equal(t, "4.5", q.Get("min_rating"))
		assert.Equal(t, "true", q.Get("available"))
		assert.Equal(t, "3", q.Get("limit"))
		writeJSON(w, http.StatusOK, `{"success":true,"data":[]}`)
	}))
	defer srv.Close()

	c := client.New(srv.URL, client.NewSession(&countingSource{}))
	listings, err := c.ListProviders(context.Background(), client.ProviderQuery{
		CategoryID:    "plumbing",
		MinRating:     4.5,
		AvailableOnly: true,
		Limit:         3,
	})
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestClient_ListBookingsPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "provider", r.URL.Query().Get("role"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"items":[{"id":"b1","status":"pending"}],"total":21,"page":2,"pageSize":20,"totalPages":2}}`)
	}))
	defer srv.Close()

	c := client.New(srv.URL, client.NewSession(&countingSource{}))
	page, err := c.ListBookings(context.Background(), entity.RoleProvider, "", 2, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, entity.BookingPending, page.Items[0].Status)
	assert.Equal(t, int64(21), page.Total)
	assert.Equal(t, 2, page.TotalPages)
}

func TestClient_CompleteBookingSendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/bookings/b1/complete", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"id":"b1","status":"completed","final_price":700}}`)
	}))
	defer srv.Close()

	price := 700.0
	c := client.New(srv.URL, client.NewSession(&countingSource{}))
	b, err := c.CompleteBooking(context.Background(), "b1", &price)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingCompleted, b.Status)
	require.NotNil(t, b.FinalPrice)
	assert.InDelta(t, 700.0, *b.FinalPrice, 1e-9)
}
