package services

import (
	"github.com/SscSPs/currency_exchange_app/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/currency_exchange_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_exchange_app/internal/core/ports/services"
	"github.com/SscSPs/currency_exchange_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, source providers.RateSource) *portssvc.ServiceContainer {
	var conversionOptions []ConversionServiceOption
	if cfg.CoalesceRateFetches {
		conversionOptions = append(conversionOptions, WithFetchCoalescing())
	}

	return &portssvc.ServiceContainer{
		Conversion: NewConversionService(repos.RateHistoryRepo, source, conversionOptions...),
		Audit:      NewAuditService(repos.RateHistoryRepo),
	}
}
