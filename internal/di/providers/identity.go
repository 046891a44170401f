package providers

import (
	"github.com/samber/do/v2"

	"github.com/creatorhubapp/creatorhub-server/internal/config"
	"github.com/creatorhubapp/creatorhub-server/internal/identity"
	"github.com/creatorhubapp/creatorhub-server/internal/logger"
)

// IdentityClientHandle wraps the OAuth2 provider client with shutdown
// capability.
type IdentityClientHandle struct {
	*identity.Client
}

// Shutdown implements do.Shutdownable.
func (h *IdentityClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideIdentityClient provides the Discord OAuth2 client. With no client
// credentials configured, logins fail at the provider and the public catalog
// endpoints keep working.
func ProvideIdentityClient(i do.Injector) (*IdentityClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Discord.ClientID == "" {
		log.Warn("Discord OAuth2 credentials not configured, login is disabled")
	}

	client := identity.New(identity.Config{
		ClientID:     cfg.Discord.ClientID,
		ClientSecret: cfg.Discord.ClientSecret,
		RedirectURL:  cfg.Discord.RedirectURL,
		APIBase:      cfg.Discord.APIBase,
	}, log.Logger)

	return &IdentityClientHandle{Client: client}, nil
}
