package client_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servicemarket/pkg/client"
)

// countingSource hands out "tok-1", "tok-2", ... and records how often it ran.
type countingSource struct {
	calls int32
	gate  chan struct{}
	err   error
}

func (s *countingSource) Token(ctx context.Context) (*client.Token, error) {
	n := atomic.AddInt32(&s.calls, 1)
	if s.gate != nil {
		<-s.gate
	}
	if s.err != nil {
		return nil, s.err
	}
	return &client.Token{Value: "tok-" + string(rune('0'+n))}, nil
}

func (s *countingSource) Calls() int { return int(atomic.LoadInt32(&s.calls)) }

func TestSession_ConcurrentTokenCallsShareOneFetch(t *testing.T) {
	src := &countingSource{gate: make(chan struct{})}
	session := client.NewSession(src)

	const callers = 20
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, err := session.Token(context.Background())
			assert.NoError(t, err)
			results[i] = tok
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	assert.Equal(t, 1, src.Calls())
	for _, tok := range results {
		assert.Equal(t, "tok-1", tok)
	}
}

func TestSession_RefreshReplacesToken(t *testing.T) {
	src := &countingSource{}
	session := client.NewSession(src)

	first, err := session.Token(context.Background())
	require.NoError(t, err)
	cached, err := session.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	refreshed, err := session.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", refreshed)
	assert.Equal(t, 2, src.Calls())
}

func TestSession_ExpiredTokenIsRefetched(t *testing.T) {
	var calls int32
	session := client.NewSession(client.TokenSourceFunc(func(ctx context.Context) (*client.Token, error) {
		atomic.AddInt32(&calls, 1)
		return &client.Token{Value: "short", Expiry: time.Now().Add(30 * time.Second)}, nil
	}))

	_, err := session.Token(context.Background())
	require.NoError(t, err)
	_, err = session.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSession_SignOutNotifiesOnce(t *testing.T) {
	session := client.NewSession(&countingSource{})
	first, stopFirst := session.Subscribe()
	defer stopFirst()
	second, stopSecond := session.Subscribe()
	defer stopSecond()
	gone, stopGone := session.Subscribe()
	stopGone()

	session.SignOut()
	session.SignOut()

	for _, ch := range []<-chan struct{}{first, second} {
		select {
		case <-ch:
		default:
			t.Fatal("subscriber was not notified")
		}
		select {
		case <-ch:
			t.Fatal("subscriber notified twice")
		default:
		}
	}
	select {
	case <-gone:
		t.Fatal("stopped subscriber was notified")
	default:
	}

	assert.True(t, session.SignedOut())
	_, err := session.Token(context.Background())
	assert.ErrorIs(t, err, client.ErrSignedOut)
}

func TestSession_SignInResumes(t *testing.T) {
	session := client.NewSession(&countingSource{err: errors.New("revoked")})
	session.SignOut()

	session.SignIn(client.TokenSourceFunc(func(ctx context.Context) (*client.Token, error) {
		return &client.Token{Value: "fresh"}, nil
	}))
	assert.False(t, session.SignedOut())

	tok, err := session.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", tok)
}

func TestSession_EmptyTokenIsAnError(t *testing.T) {
	session := client.NewSession(client.TokenSourceFunc(func(ctx context.Context) (*client.Token, error) {
		return &client.Token{}, nil
	}))
	_, err := session.Token(context.Background())
	assert.Error(t, err)
}
