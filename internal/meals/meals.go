package meals

import (
	authrepo "mealtrack/internal/auth/domain/repository"
	"mealtrack/internal/meals/adapter/remote"
	"mealtrack/internal/meals/cache"
	"mealtrack/internal/meals/config"
	"mealtrack/internal/meals/domain/service"
	"mealtrack/internal/meals/usecase"
	"mealtrack/internal/shared/eventbus"
	"mealtrack/internal/shared/logger"
)

// MealsModule bundles the synchronized meal collection: the HTTP gateway,
// the record cache, the mutation coordinator and the derivation services.
type MealsModule struct {
	Config       *config.Config
	Gateway      *remote.Gateway
	Cache        *cache.RecordCache
	Projection   service.ProjectionService
	Stats        service.StatsService
	SyncUsecase  usecase.SyncUsecaseInterface
	AdminUsecase *usecase.AdminUsecase
	Logger       logger.Logger
}

// NewMealsModule creates and wires the meal collection module. The token
// source and session invalidator come from the auth module; the event bus
// is shared so render layers can subscribe to cache changes.
func NewMealsModule(
	cfg *config.Config,
	tokens remote.TokenSource,
	sessions usecase.SessionInvalidator,
	bus eventbus.EventBusInterface,
	log logger.Logger,
) *MealsModule {
	if log == nil {
		log = logger.NewLogger()
	}

	gateway := remote.NewGateway(cfg, tokens, log)
	recordCache := cache.NewRecordCache()
	projection := service.NewProjectionService()

	sync := usecase.NewSyncUsecase(gateway, recordCache, projection, sessions, bus, log)
	admin := usecase.NewAdminUsecase(gateway, gateway, log)

	return &MealsModule{
		Config:       cfg,
		Gateway:      gateway,
		Cache:        recordCache,
		Projection:   projection,
		Stats:        service.NewStatsService(),
		SyncUsecase:  sync,
		AdminUsecase: admin,
		Logger:       log,
	}
}

// UserRemote exposes the gateway's account endpoints for the auth module.
func (m *MealsModule) UserRemote() authrepo.UserRemote {
	return m.Gateway
}
