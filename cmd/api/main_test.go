package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/treasury-ledger/internal/config"
)

func TestNewApp_Routes(t *testing.T) {
	app, err := newApp(&config.Config{})
	require.NoError(t, err)

	tests := []struct {
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/api/v1/accounts", "", http.StatusOK},
		{http.MethodGet, "/api/v1/accounts/bank_usd_1", "", http.StatusOK},
		{http.MethodGet, "/api/v1/summary", "", http.StatusOK},
		{http.MethodGet, "/api/v1/transactions", "", http.StatusOK},
		{http.MethodGet, "/api/v1/fx/rate?from=USD&to=NGN", "", http.StatusOK},
		{http.MethodGet, "/api/v1/fx/currencies", "", http.StatusOK},
		{http.MethodPost, "/api/v1/transfers", `{"from_account_id":"bank_usd_1","to_account_id":"bank_usd_2","amount":"5"}`, http.StatusCreated},
		{http.MethodGet, "/api/v1/transfers", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/metrics", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			app.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestNewApp_MetricsCountTransfers(t *testing.T) {
	app, err := newApp(&config.Config{})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers",
		strings.NewReader(`{"from_account_id":"bank_usd_1","to_account_id":"mpesa_kes_1","amount":"5"}`))
	app.ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, `outcome="completed"`)
	assert.Contains(t, body, `from_currency="USD"`)
}

func TestNewApp_BadSeedFile(t *testing.T) {
	_, err := newApp(&config.Config{SeedFile: "/nonexistent/seed.yaml"})
	assert.Error(t, err)
}
