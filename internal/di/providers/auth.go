package providers

import (
	"github.com/samber/do/v2"

	"github.com/creatorhubapp/creatorhub-server/internal/auth"
	"github.com/creatorhubapp/creatorhub-server/internal/config"
	"github.com/creatorhubapp/creatorhub-server/internal/logger"
)

// AuthKey is the PASETO v4 symmetric key as a hex string.
type AuthKey string

// ProvideAuthKey resolves the session credential key. A key from the
// configuration wins; otherwise one is loaded from, or generated into,
// the data directory.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Auth.TokenKeyHex != "" {
		log.Info("Using configured credential key")
		return AuthKey(cfg.Auth.TokenKeyHex), nil
	}

	key, err := auth.LoadOrGenerateKey(cfg.Store.DataPath)
	if err != nil {
		return "", err
	}

	log.Info("Credential key loaded", "session_duration", cfg.Auth.SessionDuration)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService(string(authKey), cfg.Auth.SessionDuration)
}
