package application

import (
	"localservices-frontend/internal/domain/ports/adapter"
	"localservices-frontend/internal/usecase"
)

// Backend is the whole REST surface the frontend drives. *api.Client
// satisfies it; tests pass a stub server or a fake.
type Backend interface {
	usecase.AuthBackend
	usecase.CatalogBackend
	usecase.PortfolioBackend
	usecase.AdminBackend
}

// UI is what the shell around the frontend provides: somewhere to navigate,
// a place for transient messages and a yes/no prompt.
type UI struct {
	Nav       adapter.Navigator
	Notifier  adapter.Notifier
	Confirmer adapter.Confirmer
}
