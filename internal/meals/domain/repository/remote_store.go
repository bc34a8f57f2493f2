package repository

import (
	"context"

	"mealtrack/internal/meals/domain/model"
)

// FieldPatch is a single-field mutation sent to the remote store. The
// coordinator never batches two fields into one patch, which keeps
// rollback snapshots unambiguous.
type FieldPatch struct {
	Field string
	Value interface{}
}

// RemoteStore is the gateway to the authoritative meal service. It applies
// no business logic of its own; every call may fail with one of the
// classified error kinds from the shared errors package.
type RemoteStore interface {
	// FetchMeals lists the owner's meals, optionally server-sorted.
	FetchMeals(ctx context.Context, ownerID string, opts model.ListOptions) ([]*model.Meal, error)

	// FetchAllMeals lists every meal on the service (admin overview).
	FetchAllMeals(ctx context.Context) ([]*model.Meal, error)

	// CreateMeal stores a new meal and returns it with its server-assigned id.
	CreateMeal(ctx context.Context, draft *model.MealDraft) (*model.Meal, error)

	// UpdateMeal patches one field of an existing meal and returns the
	// updated record.
	UpdateMeal(ctx context.Context, id string, patch FieldPatch) (*model.Meal, error)

	// DeleteMeal removes a meal.
	DeleteMeal(ctx context.Context, id string) error
}
