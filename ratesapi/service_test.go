package ratesapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goldex "go-gold-exchange"
)

func stubServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/v4/latest/USD", req.URL.Path)
		rw.WriteHeader(status)
		_, _ = rw.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestService_LatestRates(t *testing.T) {
	server := stubServer(t, http.StatusOK, `{
		"base": "USD",
		"date": "2026-10-19",
		"rates": {
			"USD": 1,
			"EUR": 0.9,
			"INR": 83
		}
	}`)

	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s := NewService(server.URL+"/v4/latest/USD", time.Second).(*service)
	s.now = func() time.Time { return now }

	table, err := s.LatestRates(context.Background())

	require.NoError(t, err)
	assert.Equal(t, goldex.Rate(0.9), table.Rates["EUR"])
	assert.Equal(t, goldex.Rate(83), table.Rates["INR"])
	assert.Equal(t, goldex.Rate(1), table.Rates["USD"])
	assert.Equal(t, now, table.FetchedAt)
}

func TestService_LatestRatesFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"non-2xx", http.StatusServiceUnavailable, `{"rates":{"EUR":0.9}}`},
		{"malformed", http.StatusOK, `{"rates":`},
		{"missing rates", http.StatusOK, `{"base":"USD"}`},
		{"wrong base", http.StatusOK, `{"base":"EUR","rates":{"USD":1.1}}`},
		{"zero rate", http.StatusOK, `{"rates":{"EUR":0}}`},
		{"negative rate", http.StatusOK, `{"rates":{"EUR":-2}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := stubServer(t, tt.status, tt.body)
			s := NewService(server.URL+"/v4/latest/USD", time.Second)

			table, err := s.LatestRates(context.Background())

			assert.Nil(t, table.Rates)
			assert.ErrorIs(t, err, goldex.ErrFetchFailure)
		})
	}
}

func TestService_LatestRatesTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		time.Sleep(50 * time.Millisecond)
		_, _ = rw.Write([]byte("{}"))
	}))
	defer server.Close()

	s := NewService(server.URL, 1*time.Millisecond)

	_, err := s.LatestRates(context.Background())

	assert.ErrorIs(t, err, goldex.ErrFetchFailure)
	assert.Contains(t, err.Error(), "Client.Timeout") // fragile :-(
}

func TestNewService_DefaultURL(t *testing.T) {
	s := NewService("", time.Second).(*service)
	assert.Equal(t, DefaultURL, s.url)
}
