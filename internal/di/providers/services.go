package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/creatorhubapp/creatorhub-server/internal/auth"
	"github.com/creatorhubapp/creatorhub-server/internal/config"
	"github.com/creatorhubapp/creatorhub-server/internal/logger"
	"github.com/creatorhubapp/creatorhub-server/internal/service"
)

// ProvideContentManager provides the content mirror, loaded from the store
// and indexed into the search index.
func ProvideContentManager(i do.Injector) (*service.ContentManager, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	manager := service.NewContentManager(
		storeHandle.Badger,
		service.NewBleveIndexer(searchHandle.Index),
		log.Logger,
	)

	if err := manager.Load(context.Background()); err != nil {
		return nil, err
	}

	log.Info("Content mirror loaded",
		"content", len(manager.ListContent()),
		"tags", len(manager.ListTags()),
	)

	return manager, nil
}

// ProvideUserManager provides the user mirror, loaded from the store and
// wired to the content manager so content deletions prune user lists.
func ProvideUserManager(i do.Injector) (*service.UserManager, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	identityHandle := do.MustInvoke[*IdentityClientHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	contentManager := do.MustInvoke[*service.ContentManager](i)
	log := do.MustInvoke[*logger.Logger](i)

	manager := service.NewUserManager(
		storeHandle.Badger,
		identityHandle.Client,
		tokens,
		contentManager,
		cfg.Jobs.SweepInterval,
		log.Logger,
	)

	if err := manager.Load(context.Background()); err != nil {
		return nil, err
	}

	contentManager.SetUserPruner(manager)

	log.Info("User mirror loaded")

	return manager, nil
}

// ProvideSyncManager provides the periodic mirror-to-store reconciler.
func ProvideSyncManager(i do.Injector) (*service.SyncManager, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	contentManager := do.MustInvoke[*service.ContentManager](i)
	userManager := do.MustInvoke[*service.UserManager](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSyncManager(
		storeHandle.Badger,
		contentManager,
		userManager,
		cfg.Jobs.SyncInterval,
		log.Logger,
	), nil
}
