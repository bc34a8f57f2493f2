package di

import (
	"context"
	"fmt"
	"sync"

	"mealtrack/internal/auth"
	"mealtrack/internal/auth/adapter/security"
	"mealtrack/internal/auth/adapter/session"
	authconfig "mealtrack/internal/auth/config"
	authrepo "mealtrack/internal/auth/domain/repository"
	"mealtrack/internal/meals"
	mealsconfig "mealtrack/internal/meals/config"
	"mealtrack/internal/shared/errors"
	"mealtrack/internal/shared/eventbus"
	"mealtrack/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

// Container wires the client modules together with proper construction
// order: shared infrastructure first, then the meals module around the
// session store, then the auth module around the gateway.
type Container struct {
	mu sync.Mutex

	// Module instances
	AuthModule  *auth.AuthModule
	MealsModule *meals.MealsModule

	// Shared infrastructure
	EventBus *eventbus.EventBus
	Sessions authrepo.SessionStore
	Logger   logger.Logger

	// Configuration
	AuthConfig  *authconfig.Config
	MealsConfig *mealsconfig.Config
}

// NewContainer creates an empty DI container.
func NewContainer() *Container {
	return &Container{}
}

// Initialize builds the full client with an in-memory session store.
func (c *Container) Initialize() error {
	return c.initialize(nil)
}

// InitializeWithRedis builds the full client with a Redis-backed session
// store, so the login survives process restarts.
func (c *Container) InitializeWithRedis(redisClient *redis.Client) error {
	return c.initialize(redisClient)
}

func (c *Container) initialize(redisClient *redis.Client) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Logger == nil {
		c.Logger = logger.NewLogger()
	}
	c.EventBus = eventbus.NewEventBus(c.Logger)

	authCfg, err := authconfig.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load auth config: %w", err)
	}
	c.AuthConfig = authCfg

	mealsCfg, err := mealsconfig.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load meals config: %w", err)
	}
	c.MealsConfig = mealsCfg

	if redisClient != nil {
		c.Sessions = session.NewRedisStore(redisClient, authCfg, c.Logger)
	} else {
		c.Sessions = session.NewMemoryStore()
	}

	// The gateway and the auth usecase depend on each other's concerns
	// (bearer token vs. remote account calls). The session bridge breaks
	// the cycle: both sides talk to the store, not to each other.
	bridge := &sessionBridge{
		store:     c.Sessions,
		inspector: security.NewTokenInspector(),
		bus:       c.EventBus,
	}

	c.MealsModule = meals.NewMealsModule(mealsCfg, bridge, bridge, c.EventBus, c.Logger)
	c.AuthModule = auth.NewAuthModuleWithStore(c.MealsModule.UserRemote(), c.Sessions, authCfg, c.EventBus, c.Logger)
	return nil
}

// sessionBridge adapts the session store into the gateway's token source
// and the coordinator's session invalidator.
type sessionBridge struct {
	store     authrepo.SessionStore
	inspector *security.TokenInspector
	bus       eventbus.EventBusInterface
}

// Token returns the stored bearer token, treating expired tokens as absent.
func (b *sessionBridge) Token(ctx context.Context) (string, error) {
	sess, err := b.store.Current(ctx)
	if err != nil {
		return "", err
	}
	if !sess.Valid() || b.inspector.Expired(sess.Token) {
		return "", errors.ErrNoSession
	}
	return sess.Token, nil
}

// InvalidateSession drops the rejected session and announces the expiry.
func (b *sessionBridge) InvalidateSession(ctx context.Context) {
	_ = b.store.Clear(ctx)
	if b.bus != nil {
		b.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(eventbus.EventTypeSessionExpired, nil, "session-bridge"))
	}
}
