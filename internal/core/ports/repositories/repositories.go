package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	RateHistoryRepo RateHistoryRepositoryFacade

	// Close releases the underlying store. It is never nil.
	Close func()
}
