package ratesource

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/currency_exchange_app/internal/core/ports/providers"
	"github.com/SscSPs/currency_exchange_app/internal/platform/config"
)

// NewFromConfig builds the rate source named by cfg.RateSource.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (providers.RateSource, error) {
	switch cfg.RateSource {
	case config.RateSourceExchangeRateHost:
		opts := []ClientOption{WithTimeout(cfg.RateSourceTimeout)}
		if cfg.ExchangeAPIURL != "" {
			opts = append(opts, WithBaseURL(cfg.ExchangeAPIURL))
		}
		if cfg.RateSourceMaxRPS > 0 {
			opts = append(opts, WithMaxRequestsPerSecond(cfg.RateSourceMaxRPS))
		}
		return NewExchangeRateHostClient(cfg.ExchangeAPIKey, logger, opts...), nil
	case config.RateSourceStatic:
		logger.Warn("Using static rate table. Rates never change.")
		return NewStaticRateSource(nil), nil
	}
	return nil, fmt.Errorf("unknown rate source %q", cfg.RateSource)
}
