package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubListener struct {
	addr net.Addr
}

func (s *stubListener) Accept() (net.Conn, error) { return nil, errors.New("accept failure") }
func (s *stubListener) Close() error              { return nil }
func (s *stubListener) Addr() net.Addr            { return s.addr }

func TestNetHTTPServerServesCustomListener(t *testing.T) {
	l := &stubListener{addr: &net.TCPAddr{IP: net.IPv4zero, Port: 0}}
	s := netHTTPServer{srv: &http.Server{Handler: http.NewServeMux()}, listener: l}

	assert.Error(t, s.ListenAndServe(), "expected serve error from stub listener")
}

func TestNetHTTPServerReturnsAfterShutdown(t *testing.T) {
	s := newNetHTTPServer("127.0.0.1:0", http.NewServeMux())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe() }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, s.Shutdown(context.Background()))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listen did not return after shutdown")
	}
}

func TestNewNetHTTPServerAppliesTimeouts(t *testing.T) {
	handler := http.NewServeMux()
	s := newNetHTTPServer(":1234", handler)

	assert.Equal(t, ":1234", s.Addr())
	assert.Equal(t, http.Handler(handler), s.Handler())
	assert.Equal(t, readTimeout, s.srv.ReadTimeout)
	assert.Equal(t, writeTimeout, s.srv.WriteTimeout)
	assert.Equal(t, idleTimeout, s.srv.IdleTimeout)
}
