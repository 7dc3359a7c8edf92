package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/amniuelmohamed/freshconcept/internal/async"
	"github.com/amniuelmohamed/freshconcept/internal/auth/token"
	"github.com/amniuelmohamed/freshconcept/internal/cache"
	"github.com/amniuelmohamed/freshconcept/internal/config"
	"github.com/amniuelmohamed/freshconcept/internal/notifier"
	"github.com/amniuelmohamed/freshconcept/internal/security"
	"github.com/amniuelmohamed/freshconcept/internal/support/hash"
)

// Infrastructure bundles the shared helpers the service layer depends on.
type Infrastructure struct {
	Cache       cache.Store
	Token       *token.Manager
	Hasher      hash.Hasher
	Notifier    notifier.Service
	Events      *async.EventQueue
	RateLimiter *security.RateLimiter
	Audit       security.Recorder
}

// BuildInfrastructure wires cache, token, hash, rate limit, and webhook
// helpers from the loaded configuration. signingKey comes from the resolver,
// never straight from the config default.
func BuildInfrastructure(cfg *config.Config, signingKey string, logger *slog.Logger) (*Infrastructure, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if signingKey == "" || signingKey == defaultSigningKey {
		return nil, fmt.Errorf("auth.signing_key must be changed from default value")
	}

	cacheStore := cache.NewStore(cache.Options{
		Prefix:          "freshconcept",
		DefaultTTL:      cfg.Cache.DefaultTTL,
		CleanupInterval: cfg.Cache.CleanupInterval,
	})

	tokenManager, err := token.NewManager(token.Options{
		SigningKey: []byte(signingKey),
		Issuer:     cfg.Auth.Issuer,
		Audience:   cfg.Auth.Audience,
		TTL:        cfg.Auth.TokenTTL,
		Leeway:     cfg.Auth.Leeway,
	})
	if err != nil {
		return nil, fmt.Errorf("token manager: %w", err)
	}

	hasher, err := hash.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("bcrypt hasher: %w", err)
	}

	rateLimiter, err := security.NewRateLimiter(cacheStore)
	if err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var notif notifier.Service
	if cfg.Webhooks.Enabled {
		notif = notifier.NewWebhookService(notifier.WebhookOptions{
			Timeout:    cfg.Webhooks.Timeout,
			MaxRetries: cfg.Webhooks.MaxRetries,
			Logger:     logger,
		})
	} else {
		notif = notifier.NewLoggerService(logger)
	}

	return &Infrastructure{
		Cache:       cacheStore,
		Token:       tokenManager,
		Hasher:      hasher,
		Notifier:    notif,
		Events:      async.NewEventQueue(),
		RateLimiter: rateLimiter,
		Audit:       security.NewLoggerRecorder(logger),
	}, nil
}
