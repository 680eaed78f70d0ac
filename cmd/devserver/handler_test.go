package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipebook/recipebook-client/internal/apitest"
	"github.com/recipebook/recipebook-client/internal/logger"
)

func TestHandler(t *testing.T) {
	api := apitest.New()
	api.Seed()
	handler, err := newHandler(api, logger.New(logger.Config{Writer: io.Discard}))
	require.NoError(t, err)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/recipes/get")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(server.URL+"/recipes/recipe-4/like", "application/json", nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `devserver_requests_total{method="GET",route="/recipes/get",status="200"} 1`)
	assert.Contains(t, string(body), `route="/recipes/{id}/like",status="401"`)
	assert.Contains(t, string(body), "go_goroutines")
}
