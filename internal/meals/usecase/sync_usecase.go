package usecase

import (
	"context"
	"fmt"
	"sync"

	"mealtrack/internal/meals/cache"
	"mealtrack/internal/meals/domain/model"
	"mealtrack/internal/meals/domain/repository"
	"mealtrack/internal/meals/domain/service"
	"mealtrack/internal/shared/errors"
	"mealtrack/internal/shared/eventbus"
	"mealtrack/internal/shared/logger"

	"github.com/google/uuid"
)

// localIDPrefix marks transient ids held by optimistic create records until
// the server assigns the real one.
const localIDPrefix = "local-"

// SessionInvalidator clears the ambient session when the remote store
// rejects the credential. Implemented by the auth usecase.
type SessionInvalidator interface {
	InvalidateSession(ctx context.Context)
}

// SyncUsecaseInterface defines the contract for the mutation coordinator.
// It is the only component that calls the remote store for mutations and
// the only component that writes to the record cache.
type SyncUsecaseInterface interface {
	Refresh(ctx context.Context, ownerID string, opts model.ListOptions) error
	Meals() []*model.Meal
	Meal(id string) (*model.Meal, bool)
	View(p model.Projection) ([]*model.Meal, error)
	UpdateField(ctx context.Context, id, field string, value interface{}) error
	CreateMeal(ctx context.Context, draft *model.MealDraft) (*model.Meal, error)
	DeleteMeal(ctx context.Context, id string) error
}

// fieldKey identifies one mutable field of one record for sequence tracking.
type fieldKey struct {
	id    string
	field string
}

// SyncUsecase coordinates optimistic mutations between the record cache and
// the remote store.
type SyncUsecase struct {
	remote     repository.RemoteStore
	cache      *cache.RecordCache
	projection service.ProjectionService
	sessions   SessionInvalidator
	bus        eventbus.EventBusInterface
	log        logger.Logger

	// mu guards the reconciliation bookkeeping below. seq carries a
	// per-(record,field) mutation sequence number; a response whose token
	// no longer matches is stale and must neither confirm nor roll back.
	// epoch is bumped on every authoritative refresh, which invalidates
	// every outstanding token at once.
	mu    sync.Mutex
	seq   map[fieldKey]uint64
	epoch uint64
}

// NewSyncUsecase creates a new mutation coordinator.
func NewSyncUsecase(
	remote repository.RemoteStore,
	recordCache *cache.RecordCache,
	projection service.ProjectionService,
	sessions SessionInvalidator,
	bus eventbus.EventBusInterface,
	log logger.Logger,
) *SyncUsecase {
	if log == nil {
		log = logger.NewLogger()
	}
	return &SyncUsecase{
		remote:     remote,
		cache:      recordCache,
		projection: projection,
		sessions:   sessions,
		bus:        bus,
		log:        log.WithComponent("sync-usecase"),
		seq:        make(map[fieldKey]uint64),
	}
}

// Refresh performs a full authoritative fetch and replaces the cache
// contents. Outstanding optimistic reconciliation state is discarded.
func (uc *SyncUsecase) Refresh(ctx context.Context, ownerID string, opts model.ListOptions) error {
	meals, err := uc.remote.FetchMeals(ctx, ownerID, opts)
	if err != nil {
		appErr := errors.WrapError(err, "failed to fetch meals")
		uc.handleAuthFailure(ctx, appErr)
		return appErr
	}

	uc.mu.Lock()
	uc.cache.ReplaceAll(meals)
	uc.epoch++
	uc.seq = make(map[fieldKey]uint64)
	uc.mu.Unlock()

	uc.log.WithContext(ctx).Debugf("Refreshed cache with %d meals for owner %s", len(meals), ownerID)
	uc.publish(ctx, eventbus.EventTypeMealsRefreshed, ownerID)
	return nil
}

// Meals returns a snapshot of the cache contents in cache order.
func (uc *SyncUsecase) Meals() []*model.Meal {
	return uc.cache.Snapshot()
}

// Meal returns a copy of one cached record.
func (uc *SyncUsecase) Meal(id string) (*model.Meal, bool) {
	return uc.cache.Get(id)
}

// View derives the displayed sequence from the cache and the projection
// parameters without mutating the cache.
func (uc *SyncUsecase) View(p model.Projection) ([]*model.Meal, error) {
	if err := uc.projection.ValidateProjection(p); err != nil {
		return nil, err
	}
	return uc.projection.Project(uc.cache.Snapshot(), p), nil
}

// UpdateField applies an optimistic single-field mutation, issues the
// remote patch, and reconciles the outcome. On remote failure the
// pre-mutation value is restored and a MutationFailed error is returned.
// A stale response (the field was mutated again, or the cache was
// refreshed, while the call was in flight) is discarded entirely.
func (uc *SyncUsecase) UpdateField(ctx context.Context, id, field string, value interface{}) error {
	if !model.IsMutableField(field) {
		return errors.NewValidationError(errors.ErrUnknownField.Error()).WithDetail("field", field)
	}
	if err := model.ValidateFieldValue(field, value); err != nil {
		return err
	}

	key := fieldKey{id: id, field: field}

	uc.mu.Lock()
	rec, ok := uc.cache.Get(id)
	if !ok {
		uc.mu.Unlock()
		return errors.NewNotFoundError("meal").WithDetail("id", id)
	}
	snapshot := rec.FieldValue(field)
	epoch := uc.epoch
	uc.seq[key]++
	token := uc.seq[key]

	// optimistic apply: visible to projections before the call resolves
	if err := rec.SetField(field, value); err != nil {
		uc.mu.Unlock()
		return err
	}
	uc.cache.Upsert(rec)
	uc.mu.Unlock()

	uc.publish(ctx, eventbus.EventTypeMealUpdated, id)

	_, err := uc.remote.UpdateMeal(ctx, id, repository.FieldPatch{Field: field, Value: value})

	uc.mu.Lock()
	stale := epoch != uc.epoch || uc.seq[key] != token
	if err == nil {
		// confirmed; the optimistic value stands. Nothing to do even when
		// stale: a newer mutation owns the field now.
		uc.mu.Unlock()
		return nil
	}

	appErr := errors.WrapError(err, fmt.Sprintf("failed to update %s", field))
	if stale {
		uc.mu.Unlock()
		uc.log.WithContext(ctx).Warnf("Discarding stale reconciliation for meal %s field %s: %v", id, field, appErr)
		uc.handleAuthFailure(ctx, appErr)
		return errors.NewMutationFailed(id, field, appErr)
	}

	// rollback: restore only the mutated field, preserving any confirmed
	// changes to other fields that landed meanwhile
	if current, present := uc.cache.Get(id); present {
		if rbErr := current.SetField(field, snapshot); rbErr == nil {
			uc.cache.Upsert(current)
		}
	}
	uc.mu.Unlock()

	uc.publish(ctx, eventbus.EventTypeMealUpdated, id)
	uc.handleAuthFailure(ctx, appErr)
	return errors.NewMutationFailed(id, field, appErr)
}

// CreateMeal validates the draft, holds a transient optimistic record under
// a temporary local id, and reconciles with the server-assigned record on
// success. On failure the transient record is removed, leaving the cache as
// it was. The draft is never retried automatically.
func (uc *SyncUsecase) CreateMeal(ctx context.Context, draft *model.MealDraft) (*model.Meal, error) {
	if draft == nil {
		return nil, errors.NewValidationError("meal draft is required")
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	localID := localIDPrefix + uuid.New().String()
	uc.cache.Upsert(draft.Meal(localID))
	uc.publish(ctx, eventbus.EventTypeMealCreated, localID)

	created, err := uc.remote.CreateMeal(ctx, draft)
	if err != nil {
		uc.cache.Remove(localID)
		uc.publish(ctx, eventbus.EventTypeMealDeleted, localID)
		appErr := errors.WrapError(err, "failed to create meal")
		uc.handleAuthFailure(ctx, appErr)
		return nil, appErr
	}

	uc.cache.Replace(localID, created)
	uc.publish(ctx, eventbus.EventTypeMealUpdated, created.ID)
	uc.log.WithContext(ctx).Infof("Created meal %s (%s)", created.ID, created.Name)
	return created.Clone(), nil
}

// DeleteMeal removes a meal pessimistically: the cached record stays until
// the remote delete is confirmed. On failure the record remains and the
// classified error is surfaced.
func (uc *SyncUsecase) DeleteMeal(ctx context.Context, id string) error {
	if _, ok := uc.cache.Get(id); !ok {
		return errors.NewNotFoundError("meal").WithDetail("id", id)
	}

	if err := uc.remote.DeleteMeal(ctx, id); err != nil {
		appErr := errors.WrapError(err, "failed to delete meal")
		uc.handleAuthFailure(ctx, appErr)
		return errors.NewMutationFailed(id, "", appErr)
	}

	uc.cache.Remove(id)

	uc.mu.Lock()
	for key := range uc.seq {
		if key.id == id {
			delete(uc.seq, key)
		}
	}
	uc.mu.Unlock()

	uc.publish(ctx, eventbus.EventTypeMealDeleted, id)
	return nil
}

// handleAuthFailure clears the session when the remote store rejected the
// credential; the caller remains responsible for re-authentication. The
// invalidator announces the expiry on the event bus.
func (uc *SyncUsecase) handleAuthFailure(ctx context.Context, err error) {
	if !errors.IsAuthorization(err) {
		return
	}
	uc.log.WithContext(ctx).Warn("Credential rejected by remote store, clearing session")
	if uc.sessions != nil {
		uc.sessions.InvalidateSession(ctx)
	}
}

func (uc *SyncUsecase) publish(ctx context.Context, eventType string, data interface{}) {
	if uc.bus == nil {
		return
	}
	uc.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(eventType, data, "sync-usecase"))
}

// Ensure SyncUsecase implements SyncUsecaseInterface
var _ SyncUsecaseInterface = (*SyncUsecase)(nil)
