// Package di provides dependency injection configuration for the Creator Hub server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/creatorhubapp/creatorhub-server/internal/auth"
	"github.com/creatorhubapp/creatorhub-server/internal/config"
	"github.com/creatorhubapp/creatorhub-server/internal/di/providers"
	"github.com/creatorhubapp/creatorhub-server/internal/logger"
	"github.com/creatorhubapp/creatorhub-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideTokenService)

	// Storage and external clients
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideIdentityClient)

	// Mirror managers
	do.Provide(injector, providers.ProvideContentManager)
	do.Provide(injector, providers.ProvideUserManager)
	do.Provide(injector, providers.ProvideSyncManager)

	// Background jobs
	do.Provide(injector, providers.ProvideSyncJob)
	do.Provide(injector, providers.ProvideSweepJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*providers.IdentityClientHandle](injector)

	_ = do.MustInvoke[*service.ContentManager](injector)
	_ = do.MustInvoke[*service.UserManager](injector)
	_ = do.MustInvoke[*service.SyncManager](injector)

	_ = do.MustInvoke[*providers.SyncJob](injector)
	_ = do.MustInvoke[*providers.SweepJob](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
