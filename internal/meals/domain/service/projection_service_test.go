package service

import (
	"testing"
	"time"

	"mealtrack/internal/meals/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *model.Date {
	dt := model.NewDate(y, m, d)
	return &dt
}

func names(meals []*model.Meal) []string {
	out := make([]string, len(meals))
	for i, m := range meals {
		out[i] = m.Name
	}
	return out
}

func sampleMeals() []*model.Meal {
	return []*model.Meal{
		{ID: "1", Name: "Chicken Tacos", Rating: 4, LastEaten: date(2026, time.March, 10)},
		{ID: "2", Name: "Ramen", Rating: 5, LastEaten: nil},
		{ID: "3", Name: "Fish Tacos", Rating: 3, LastEaten: date(2026, time.June, 1)},
		{ID: "4", Name: "Green Curry", Rating: 4.5, LastEaten: date(2026, time.January, 5)},
	}
}

func TestProject_FilterCaseInsensitiveSubstring(t *testing.T) {
	svc := NewProjectionService()

	got := svc.Project(sampleMeals(), model.Projection{Filter: "TACO"})

	assert.Equal(t, []string{"Chicken Tacos", "Fish Tacos"}, names(got))
}

func TestProject_FilterIsIdempotent(t *testing.T) {
	svc := NewProjectionService()
	p := model.Projection{Filter: "tacos"}

	once := svc.Project(sampleMeals(), p)
	twice := svc.Project(once, p)

	assert.Equal(t, names(once), names(twice))
}

func TestProject_EmptyProjectionPreservesCacheOrder(t *testing.T) {
	svc := NewProjectionService()
	meals := sampleMeals()

	got := svc.Project(meals, model.Projection{})

	assert.Equal(t, names(meals), names(got))
}

func TestProject_DoesNotMutateInput(t *testing.T) {
	svc := NewProjectionService()
	meals := sampleMeals()

	svc.Project(meals, model.Projection{SortBy: model.SortByName, Direction: model.Descending})

	assert.Equal(t, []string{"Chicken Tacos", "Ramen", "Fish Tacos", "Green Curry"}, names(meals))
}

func TestProject_SortByName(t *testing.T) {
	svc := NewProjectionService()

	asc := svc.Project(sampleMeals(), model.Projection{SortBy: model.SortByName, Direction: model.Ascending})
	desc := svc.Project(sampleMeals(), model.Projection{SortBy: model.SortByName, Direction: model.Descending})

	assert.Equal(t, []string{"Chicken Tacos", "Fish Tacos", "Green Curry", "Ramen"}, names(asc))
	assert.Equal(t, []string{"Ramen", "Green Curry", "Fish Tacos", "Chicken Tacos"}, names(desc))
}

func TestProject_SortByRating_DescendingReversesAscending(t *testing.T) {
	svc := NewProjectionService()

	asc := svc.Project(sampleMeals(), model.Projection{SortBy: model.SortByRating, Direction: model.Ascending})
	desc := svc.Project(sampleMeals(), model.Projection{SortBy: model.SortByRating, Direction: model.Descending})

	require.Equal(t, []string{"Fish Tacos", "Chicken Tacos", "Green Curry", "Ramen"}, names(asc))
	for i := range asc {
		assert.Equal(t, asc[i].ID, desc[len(desc)-1-i].ID, "with no ties, descending is the exact reverse")
	}
}

func TestProject_SortTiesKeepCacheOrder(t *testing.T) {
	svc := NewProjectionService()
	meals := []*model.Meal{
		{ID: "1", Name: "A", Rating: 4},
		{ID: "2", Name: "B", Rating: 4},
		{ID: "3", Name: "C", Rating: 4},
	}

	got := svc.Project(meals, model.Projection{SortBy: model.SortByRating, Direction: model.Descending})

	assert.Equal(t, []string{"A", "B", "C"}, names(got))
}

func TestProject_UndatedMealsSortLastBothDirections(t *testing.T) {
	svc := NewProjectionService()

	asc := svc.Project(sampleMeals(), model.Projection{SortBy: model.SortByLastEaten, Direction: model.Ascending})
	desc := svc.Project(sampleMeals(), model.Projection{SortBy: model.SortByLastEaten, Direction: model.Descending})

	assert.Equal(t, []string{"Green Curry", "Chicken Tacos", "Fish Tacos", "Ramen"}, names(asc))
	assert.Equal(t, []string{"Fish Tacos", "Chicken Tacos", "Green Curry", "Ramen"}, names(desc))
}

func TestValidateProjection(t *testing.T) {
	svc := NewProjectionService()

	tests := []struct {
		name    string
		p       model.Projection
		wantErr bool
	}{
		{name: "empty", p: model.Projection{}, wantErr: false},
		{name: "valid sort and direction", p: model.Projection{SortBy: model.SortByRating, Direction: model.Descending}, wantErr: false},
		{name: "sort key without direction", p: model.Projection{SortBy: model.SortByName}, wantErr: false},
		{name: "unknown sort key", p: model.Projection{SortBy: "calories"}, wantErr: true},
		{name: "unknown direction", p: model.Projection{SortBy: model.SortByName, Direction: "sideways"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidateProjection(tt.p)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
