package ratesource_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/adapters/ratesource"
	"github.com/SscSPs/currency_exchange_app/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	static, err := ratesource.NewFromConfig(&config.Config{RateSource: config.RateSourceStatic}, logger)
	require.NoError(t, err)
	rate, err := static.GetRate(context.Background(), "USD", "JPY")
	require.NoError(t, err)
	assert.Equal(t, "153.6", rate.String())

	srv, _ := newServer(t, http.StatusOK, `{"success":true,"result":0.5}`)
	remote, err := ratesource.NewFromConfig(&config.Config{
		RateSource:        config.RateSourceExchangeRateHost,
		ExchangeAPIURL:    srv.URL,
		ExchangeAPIKey:    "secret",
		RateSourceTimeout: time.Second,
		RateSourceMaxRPS:  10,
	}, logger)
	require.NoError(t, err)
	rate, err = remote.GetRate(context.Background(), "USD", "JPY")
	require.NoError(t, err)
	assert.Equal(t, "0.5", rate.String())

	_, err = ratesource.NewFromConfig(&config.Config{RateSource: "oracle"}, logger)
	assert.Error(t, err)
}
