package service

import (
	"math"

	"mealtrack/internal/meals/domain/model"
)

// UserStats summarizes one owner's meal collection for the profile view.
type UserStats struct {
	MealsLogged       int
	AverageRating     model.Rating
	TopRated          *model.Meal
	MostRecentlyEaten *model.Meal
}

// StatsService derives display statistics from a cache snapshot.
type StatsService interface {
	UserStats(meals []*model.Meal) UserStats
}

type statsService struct{}

// NewStatsService creates a new stats service
func NewStatsService() StatsService {
	return &statsService{}
}

func (s *statsService) UserStats(meals []*model.Meal) UserStats {
	stats := UserStats{MealsLogged: len(meals)}
	if len(meals) == 0 {
		return stats
	}

	var sum float64
	for _, m := range meals {
		sum += float64(m.Rating)
		if stats.TopRated == nil || m.Rating > stats.TopRated.Rating {
			stats.TopRated = m
		}
		if m.LastEaten != nil {
			if stats.MostRecentlyEaten == nil ||
				stats.MostRecentlyEaten.LastEaten.Before(*m.LastEaten) {
				stats.MostRecentlyEaten = m
			}
		}
	}

	// rounded to the same half-point grid ratings live on
	stats.AverageRating = model.Rating(math.Round(sum/float64(len(meals))*2) / 2)
	return stats
}
