package auth

import (
	"mealtrack/internal/auth/adapter/security"
	"mealtrack/internal/auth/adapter/session"
	"mealtrack/internal/auth/config"
	"mealtrack/internal/auth/domain/repository"
	"mealtrack/internal/auth/usecase"
	"mealtrack/internal/shared/eventbus"
	"mealtrack/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

// AuthModule bundles the session management components.
type AuthModule struct {
	sessions repository.SessionStore
	usecase  usecase.AuthUsecaseInterface
	config   *config.Config
}

// NewAuthModule creates the auth module with an in-memory session store.
func NewAuthModule(remote repository.UserRemote, cfg *config.Config, bus eventbus.EventBusInterface, log logger.Logger) *AuthModule {
	return newModule(remote, session.NewMemoryStore(), cfg, bus, log)
}

// NewAuthModuleWithRedis creates the auth module with a Redis-backed session
// store, for sessions that outlive one process.
func NewAuthModuleWithRedis(remote repository.UserRemote, client *redis.Client, cfg *config.Config, bus eventbus.EventBusInterface, log logger.Logger) *AuthModule {
	return newModule(remote, session.NewRedisStore(client, cfg, log), cfg, bus, log)
}

// NewAuthModuleWithStore creates the auth module around an externally owned
// session store, so other components (the HTTP gateway) can share it.
func NewAuthModuleWithStore(remote repository.UserRemote, store repository.SessionStore, cfg *config.Config, bus eventbus.EventBusInterface, log logger.Logger) *AuthModule {
	return newModule(remote, store, cfg, bus, log)
}

func newModule(remote repository.UserRemote, store repository.SessionStore, cfg *config.Config, bus eventbus.EventBusInterface, log logger.Logger) *AuthModule {
	uc := usecase.NewAuthUsecase(remote, store, security.NewTokenInspector(), bus, log)
	return &AuthModule{
		sessions: store,
		usecase:  uc,
		config:   cfg,
	}
}

// Usecase returns the session management usecase.
func (m *AuthModule) Usecase() usecase.AuthUsecaseInterface {
	return m.usecase
}

// Sessions returns the underlying session store.
func (m *AuthModule) Sessions() repository.SessionStore {
	return m.sessions
}
