package profiler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) *Server {
	t.Helper()

	server := New(0)
	require.NoError(t, server.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	})
	return server
}

func TestServer_Addr(t *testing.T) {
	assert.Empty(t, New(0).Addr())

	server := startServer(t)
	assert.Contains(t, server.Addr(), "127.0.0.1:")
}

func TestServer_ShutdownBeforeStart(t *testing.T) {
	assert.NoError(t, New(0).Shutdown(context.Background()))
}

func TestServer_PprofEndpoints(t *testing.T) {
	baseURL := "http://" + startServer(t).Addr()

	for _, endpoint := range []string{
		"/debug/pprof/",
		"/debug/pprof/cmdline",
		"/debug/pprof/symbol",
		"/debug/pprof/goroutine?debug=1",
	} {
		t.Run(endpoint, func(t *testing.T) {
			resp, err := http.Get(baseURL + endpoint)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})
	}
}
