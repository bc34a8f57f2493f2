package service

import (
	"testing"
	"time"

	"mealtrack/internal/meals/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStats_EmptyCollection(t *testing.T) {
	svc := NewStatsService()

	stats := svc.UserStats(nil)

	assert.Equal(t, 0, stats.MealsLogged)
	assert.Equal(t, model.Rating(0), stats.AverageRating)
	assert.Nil(t, stats.TopRated)
	assert.Nil(t, stats.MostRecentlyEaten)
}

func TestUserStats_Summary(t *testing.T) {
	svc := NewStatsService()
	meals := []*model.Meal{
		{ID: "1", Name: "Chicken Tacos", Rating: 4, LastEaten: date(2026, time.March, 10)},
		{ID: "2", Name: "Ramen", Rating: 5},
		{ID: "3", Name: "Fish Tacos", Rating: 3, LastEaten: date(2026, time.June, 1)},
	}

	stats := svc.UserStats(meals)

	assert.Equal(t, 3, stats.MealsLogged)
	assert.Equal(t, model.Rating(4), stats.AverageRating)
	require.NotNil(t, stats.TopRated)
	assert.Equal(t, "Ramen", stats.TopRated.Name)
	require.NotNil(t, stats.MostRecentlyEaten)
	assert.Equal(t, "Fish Tacos", stats.MostRecentlyEaten.Name)
}

func TestUserStats_AverageRoundsToHalfPoint(t *testing.T) {
	svc := NewStatsService()
	meals := []*model.Meal{
		{ID: "1", Rating: 4},
		{ID: "2", Rating: 4},
		{ID: "3", Rating: 5},
	}

	stats := svc.UserStats(meals)

	// 13/3 = 4.33..., nearest half point is 4.5
	assert.Equal(t, model.Rating(4.5), stats.AverageRating)
}

func TestUserStats_AllUndatedLeavesMostRecentNil(t *testing.T) {
	svc := NewStatsService()
	meals := []*model.Meal{{ID: "1", Rating: 3}, {ID: "2", Rating: 4}}

	stats := svc.UserStats(meals)

	assert.Nil(t, stats.MostRecentlyEaten)
	assert.Equal(t, model.Rating(3.5), stats.AverageRating)
}
