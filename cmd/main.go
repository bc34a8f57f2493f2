package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	authmodel "mealtrack/internal/auth/domain/model"
	"mealtrack/internal/di"
	"mealtrack/internal/meals/domain/model"
	"mealtrack/internal/meals/usecase"
	"mealtrack/internal/shared/errors"
	"mealtrack/internal/shared/eventbus"
	"mealtrack/internal/shared/logger"
	"mealtrack/internal/shared/utils"

	"github.com/joho/godotenv"
)

const usage = `mealtrack - synchronized meal collection client

Usage:
  mealtrack login -u <username> [-p <password>]
  mealtrack list [-filter <text>] [-sort name|last_eaten|rating] [-order asc|desc]
  mealtrack add -name <name> -source <source> [-rating <r>] [-ingredients a,b,c]
  mealtrack rate -id <meal-id> -rating <r>
  mealtrack delete -id <meal-id>
  mealtrack stats
  mealtrack admin
  mealtrack logout
`

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	appLogger := logger.NewLogger()

	container := di.NewContainer()
	container.Logger = appLogger
	if err := container.Initialize(); err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	watchSessionExpiry(container.EventBus, os.Stderr)

	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "login":
		err = runLogin(ctx, container, os.Args[2:])
	case "list":
		err = runList(ctx, container, os.Args[2:])
	case "add":
		err = runAdd(ctx, container, os.Args[2:])
	case "rate":
		err = runRate(ctx, container, os.Args[2:])
	case "delete":
		err = runDelete(ctx, container, os.Args[2:])
	case "stats":
		err = runStats(ctx, container)
	case "admin":
		err = runAdmin(ctx, container)
	case "logout":
		err = container.AuthModule.Usecase().Logout(ctx)
	default:
		fmt.Print(usage)
		os.Exit(2)
	}

	if err != nil {
		reportError(err)
		os.Exit(1)
	}
}

func runLogin(ctx context.Context, c *di.Container, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password (prompted when omitted)")
	_ = fs.Parse(args)

	if *password == "" {
		fmt.Print("Password: ")
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		*password = strings.TrimRight(line, "\r\n")
	}

	session, err := c.AuthModule.Usecase().Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (%s)\n", session.User.Username, session.User.Email)
	return nil
}

// watchSessionExpiry prints a re-login hint when the remote store rejects
// the stored credential mid-command.
func watchSessionExpiry(bus eventbus.EventBusInterface, out io.Writer) {
	bus.Subscribe(eventbus.EventTypeSessionExpired, func(ctx context.Context, event eventbus.Event) error {
		fmt.Fprintln(out, "Session expired; run 'mealtrack login' to sign in again.")
		return nil
	})
}

// requireSession loads the stored session and tags the context with the
// caller's identity so log entries carry it.
func requireSession(ctx context.Context, c *di.Container) (context.Context, *authmodel.Session, error) {
	session, err := c.AuthModule.Usecase().CurrentSession(ctx)
	if err != nil {
		return ctx, nil, err
	}
	if session == nil {
		return ctx, nil, errors.NewAuthorizationError("log in first")
	}
	ctx = utils.WithUserID(ctx, session.User.UserID)
	ctx = utils.WithUsername(ctx, session.User.Username)
	return ctx, session, nil
}

func runList(ctx context.Context, c *di.Container, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	filter := fs.String("filter", "", "substring filter on name")
	sortBy := fs.String("sort", "", "sort key: name, last_eaten or rating")
	order := fs.String("order", "", "sort direction: asc or desc")
	_ = fs.Parse(args)

	_, sync, err := loadCollection(ctx, c)
	if err != nil {
		return err
	}

	view, err := sync.View(model.Projection{
		Filter:    *filter,
		SortBy:    model.SortKey(*sortBy),
		Direction: *order,
	})
	if err != nil {
		return err
	}

	for _, m := range view {
		lastEaten := "never"
		if m.LastEaten != nil {
			lastEaten = m.LastEaten.String()
		}
		fmt.Printf("%-24s  %-20s  %-20s  %.1f  last eaten %s\n", m.ID, m.Name, m.Source, float64(m.Rating), lastEaten)
	}
	fmt.Printf("%d meals\n", len(view))
	return nil
}

func runAdd(ctx context.Context, c *di.Container, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "meal name")
	source := fs.String("source", "", "where the recipe comes from")
	rating := fs.Float64("rating", 3, "rating between 1 and 5 in half steps")
	ingredients := fs.String("ingredients", "", "comma-separated ingredients")
	_ = fs.Parse(args)

	ctx, session, err := requireSession(ctx, c)
	if err != nil {
		return err
	}

	draft := &model.MealDraft{
		Name:      *name,
		Source:    *source,
		Rating:    model.Rating(*rating),
		CreatedBy: session.User.UserID,
	}
	if *ingredients != "" {
		draft.Ingredients = strings.Split(*ingredients, ",")
	}

	meal, err := c.MealsModule.SyncUsecase.CreateMeal(ctx, draft)
	if err != nil {
		return err
	}
	fmt.Printf("Added %s (%s)\n", meal.Name, meal.ID)
	return nil
}

func runRate(ctx context.Context, c *di.Container, args []string) error {
	fs := flag.NewFlagSet("rate", flag.ExitOnError)
	id := fs.String("id", "", "meal id")
	rating := fs.Float64("rating", 0, "new rating")
	_ = fs.Parse(args)

	ctx, sync, err := loadCollection(ctx, c)
	if err != nil {
		return err
	}
	if err := sync.UpdateField(ctx, *id, model.FieldRating, model.Rating(*rating)); err != nil {
		return err
	}
	fmt.Printf("Rated %s %.1f\n", *id, *rating)
	return nil
}

func runDelete(ctx context.Context, c *di.Container, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "meal id")
	_ = fs.Parse(args)

	ctx, sync, err := loadCollection(ctx, c)
	if err != nil {
		return err
	}
	if err := sync.DeleteMeal(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", *id)
	return nil
}

// loadCollection authenticates and pulls the caller's meals into the cache;
// each invocation starts from an empty cache, so mutations need a fetch
// before they can resolve ids.
func loadCollection(ctx context.Context, c *di.Container) (context.Context, usecase.SyncUsecaseInterface, error) {
	ctx, session, err := requireSession(ctx, c)
	if err != nil {
		return ctx, nil, err
	}
	sync := c.MealsModule.SyncUsecase
	if err := sync.Refresh(ctx, session.User.UserID, model.ListOptions{}); err != nil {
		return ctx, nil, err
	}
	return ctx, sync, nil
}

func runStats(ctx context.Context, c *di.Container) error {
	_, sync, err := loadCollection(ctx, c)
	if err != nil {
		return err
	}

	stats := c.MealsModule.Stats.UserStats(sync.Meals())
	fmt.Printf("Meals logged:   %d\n", stats.MealsLogged)
	fmt.Printf("Average rating: %.1f\n", float64(stats.AverageRating))
	if stats.TopRated != nil {
		fmt.Printf("Top rated:      %s (%.1f)\n", stats.TopRated.Name, float64(stats.TopRated.Rating))
	}
	if stats.MostRecentlyEaten != nil {
		fmt.Printf("Most recent:    %s (%s)\n", stats.MostRecentlyEaten.Name, stats.MostRecentlyEaten.LastEaten.String())
	}
	return nil
}

func runAdmin(ctx context.Context, c *di.Container) error {
	overview, err := c.MealsModule.AdminUsecase.Overview(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Total users:  %d\n", overview.TotalUsers)
	fmt.Printf("Total meals:  %d\n", overview.TotalMeals)
	newest := overview.NewestUser
	if newest == "" {
		newest = "N/A"
	}
	fmt.Printf("Newest user:  %s\n", newest)
	return nil
}

func reportError(err error) {
	switch {
	case errors.IsValidation(err):
		fmt.Fprintf(os.Stderr, "Invalid input: %v\n", err)
	case errors.IsAuthorization(err):
		fmt.Fprintf(os.Stderr, "Not authorized: %v\n", err)
	case errors.IsNetwork(err):
		fmt.Fprintf(os.Stderr, "Network problem: %v\n", err)
	case errors.IsNotFound(err):
		fmt.Fprintf(os.Stderr, "Not found: %v\n", err)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
