package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/reluguard-site/internal/app/bootstrap"
	appconfig "github.com/wolfman30/reluguard-site/internal/config"
	"github.com/wolfman30/reluguard-site/pkg/logging"
)

func TestNewServerTimeouts(t *testing.T) {
	srv := newServer(&appconfig.Config{Port: "9090"}, http.NotFoundHandler())
	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, 120*time.Second, srv.WriteTimeout)

	srv = newServer(&appconfig.Config{Port: "9090", UpstreamTimeout: 30 * time.Second}, http.NotFoundHandler())
	assert.Equal(t, 45*time.Second, srv.WriteTimeout)
}

func TestServerServesSite(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("REDIS_ADDR", "")
	cfg := appconfig.Load()

	site, err := bootstrap.BuildSite(context.Background(), cfg, logging.NewWithWriter("error", io.Discard))
	require.NoError(t, err)
	defer site.Close()

	ts := httptest.NewServer(newServer(cfg, site.Handler).Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
