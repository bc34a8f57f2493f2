package usecase

import (
	"context"
	"strconv"

	authmodel "mealtrack/internal/auth/domain/model"
	authrepo "mealtrack/internal/auth/domain/repository"
	"mealtrack/internal/meals/domain/repository"
	"mealtrack/internal/shared/errors"
	"mealtrack/internal/shared/logger"
)

// AdminOverview summarizes the whole service for the admin view.
type AdminOverview struct {
	TotalUsers int
	TotalMeals int
	NewestUser string
}

// AdminUsecase derives service-wide statistics from the public listing
// endpoints.
type AdminUsecase struct {
	remote repository.RemoteStore
	users  authrepo.UserRemote
	log    logger.Logger
}

// NewAdminUsecase creates a new admin usecase.
func NewAdminUsecase(remote repository.RemoteStore, users authrepo.UserRemote, log logger.Logger) *AdminUsecase {
	if log == nil {
		log = logger.NewLogger()
	}
	return &AdminUsecase{
		remote: remote,
		users:  users,
		log:    log.WithComponent("admin-usecase"),
	}
}

// Overview fetches all users and meals and reduces them to totals plus the
// most recently created account (the highest user id).
func (uc *AdminUsecase) Overview(ctx context.Context) (*AdminOverview, error) {
	users, err := uc.users.ListUsers(ctx)
	if err != nil {
		return nil, errors.WrapError(err, "failed to list users")
	}

	meals, err := uc.remote.FetchAllMeals(ctx)
	if err != nil {
		return nil, errors.WrapError(err, "failed to list meals")
	}

	overview := &AdminOverview{
		TotalUsers: len(users),
		TotalMeals: len(meals),
		NewestUser: newestUsername(users),
	}
	uc.log.WithContext(ctx).Debugf("Admin overview: %d users, %d meals", overview.TotalUsers, overview.TotalMeals)
	return overview, nil
}

// newestUsername picks the account with the highest user id. Ids compare
// numerically when both parse as integers, lexicographically otherwise.
func newestUsername(users []*authmodel.User) string {
	if len(users) == 0 {
		return ""
	}
	newest := users[0]
	for _, u := range users[1:] {
		if idGreater(u.UserID, newest.UserID) {
			newest = u
		}
	}
	return newest.Username
}

func idGreater(a, b string) bool {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return na > nb
	}
	return a > b
}
