package service

import (
	"sort"
	"strings"

	"mealtrack/internal/meals/domain/model"
	"mealtrack/internal/shared/errors"
)

// ProjectionService derives the displayed subset and order of a cache
// snapshot from the active filter and sort parameters. It never mutates
// its input and caches nothing; callers re-project on every change.
type ProjectionService interface {
	// Project applies filter then sort to a cache snapshot.
	Project(meals []*model.Meal, p model.Projection) []*model.Meal

	// ValidateProjection checks the sort key and direction.
	ValidateProjection(p model.Projection) error
}

type projectionService struct{}

// NewProjectionService creates a new projection service
func NewProjectionService() ProjectionService {
	return &projectionService{}
}

// Project implements filtering and stable sorting as pure functions
func (s *projectionService) Project(meals []*model.Meal, p model.Projection) []*model.Meal {
	return sortMeals(filterMeals(meals, p.Filter), p.SortBy, p.Direction)
}

// ValidateProjection checks the sort key and direction
func (s *projectionService) ValidateProjection(p model.Projection) error {
	if !p.SortBy.Valid() {
		return errors.NewValidationError("unknown sort key").WithDetail("sort_by", string(p.SortBy))
	}
	switch p.Direction {
	case "", model.Ascending, model.Descending:
		return nil
	}
	return errors.NewValidationError("sort direction must be asc or desc").WithDetail("order_by", p.Direction)
}

// Pure functions for view projection

// filterMeals keeps meals whose name contains the filter text,
// case-insensitively. Empty filter text keeps everything.
func filterMeals(meals []*model.Meal, filter string) []*model.Meal {
	if filter == "" {
		out := make([]*model.Meal, len(meals))
		copy(out, meals)
		return out
	}

	needle := strings.ToLower(filter)
	out := make([]*model.Meal, 0, len(meals))
	for _, m := range meals {
		if m == nil {
			continue
		}
		if strings.Contains(strings.ToLower(m.Name), needle) {
			out = append(out, m)
		}
	}
	return out
}

// sortMeals orders meals by the given key. The sort is stable so ties keep
// their relative cache order; the empty key preserves cache order entirely.
func sortMeals(meals []*model.Meal, key model.SortKey, direction string) []*model.Meal {
	if key == "" {
		return meals
	}

	desc := direction == model.Descending
	less := lessFunc(key)

	sort.SliceStable(meals, func(i, j int) bool {
		a, b := meals[i], meals[j]
		// undated meals sort last regardless of direction
		if key == model.SortByLastEaten && (a.LastEaten == nil || b.LastEaten == nil) {
			return a.LastEaten != nil && b.LastEaten == nil
		}
		if desc {
			a, b = b, a
		}
		return less(a, b)
	})
	return meals
}

func lessFunc(key model.SortKey) func(a, b *model.Meal) bool {
	switch key {
	case model.SortByName:
		return func(a, b *model.Meal) bool { return a.Name < b.Name }
	case model.SortByRating:
		return func(a, b *model.Meal) bool { return a.Rating < b.Rating }
	case model.SortByLastEaten:
		return func(a, b *model.Meal) bool { return a.LastEaten.Before(*b.LastEaten) }
	}
	return func(a, b *model.Meal) bool { return false }
}
