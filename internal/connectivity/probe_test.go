package connectivity

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func TestHostPort(t *testing.T) {
	cases := map[string]string{
		"https://randomuser.me/api": "randomuser.me:443",
		"http://localhost/api":      "localhost:80",
		"http://127.0.0.1:8080/x":   "127.0.0.1:8080",
	}
	for in, want := range cases {
		got, err := hostPort(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := hostPort("/relative/only")
	assert.Error(t, err)
}

func TestProbeAgainstLiveServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	p, err := NewProbe(srv.URL, time.Minute, time.Second, nopLogger())
	require.NoError(t, err)

	assert.True(t, p.Check(context.Background()))
	assert.True(t, p.Reachable())

	srv.Close()
	assert.False(t, p.Check(context.Background()))
	assert.False(t, p.Reachable())
}

func TestProbeRunUpdatesSignal(t *testing.T) {
	p, err := NewProbe("http://provider.test", 5*time.Millisecond, time.Second, nopLogger())
	require.NoError(t, err)

	healthy := make(chan struct{})
	p.dial = func(ctx context.Context, network, addr string) (net.Conn, error) {
		select {
		case <-healthy:
		default:
			return nil, errors.New("connection refused")
		}
		c1, c2 := net.Pipe()
		c2.Close()
		return c1, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- p.Run(ctx) }()

	assert.Eventually(t, func() bool { return !p.Reachable() }, time.Second, time.Millisecond)
	close(healthy)
	assert.Eventually(t, p.Reachable, time.Second, time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}

func TestStatic(t *testing.T) {
	var c Checker = Static(false)
	assert.False(t, c.Reachable())
	assert.True(t, Static(true).Reachable())
}
