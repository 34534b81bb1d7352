package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue-finder/config"
	"venue-finder/logging"
)

func TestVenueFinderHttpServer_ServeAndShutdown(t *testing.T) {
	muxRouter := mux.NewRouter()
	srv := NewVenueFinderHttpServer(
		NewRouter(&MockVenueHandler{}, muxRouter),
		muxRouter,
		config.HTTPConfig{ReadTimeout: time.Second, WriteTimeout: time.Second, ShutdownTimeout: time.Second},
		logging.Discard(),
	)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	var body []byte
	require.Eventually(t, func() bool {
		res, err := http.Get("http://" + ln.Addr().String() + "/ping")
		if err != nil {
			return false
		}
		defer res.Body.Close()
		body, _ = io.ReadAll(res.Body)
		return res.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "ping", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
}
