package usecase

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode"

	"mealtrack/internal/auth/adapter/security"
	"mealtrack/internal/auth/domain/model"
	"mealtrack/internal/auth/domain/repository"
	"mealtrack/internal/shared/errors"
	"mealtrack/internal/shared/eventbus"
	"mealtrack/internal/shared/logger"
)

// Password policy enforced client-side before any register call.
const (
	minPasswordLength = 12
	maxPasswordLength = 128
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthUsecaseInterface defines the contract for session management.
type AuthUsecaseInterface interface {
	Login(ctx context.Context, username, password string) (*model.Session, error)
	Register(ctx context.Context, reg repository.Registration) (*model.Session, error)
	Logout(ctx context.Context) error
	CurrentSession(ctx context.Context) (*model.Session, error)
	Token(ctx context.Context) (string, error)
	InvalidateSession(ctx context.Context)
	UpdateProfile(ctx context.Context, patch model.ProfilePatch) (*model.User, error)
	FetchUser(ctx context.Context, userID string) (*model.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// AuthUsecase implements client-side session management against the remote
// account endpoints.
type AuthUsecase struct {
	remote    repository.UserRemote
	sessions  repository.SessionStore
	inspector *security.TokenInspector
	bus       eventbus.EventBusInterface
	log       logger.Logger
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	remote repository.UserRemote,
	sessions repository.SessionStore,
	inspector *security.TokenInspector,
	bus eventbus.EventBusInterface,
	log logger.Logger,
) *AuthUsecase {
	if log == nil {
		log = logger.NewLogger()
	}
	if inspector == nil {
		inspector = security.NewTokenInspector()
	}
	return &AuthUsecase{
		remote:    remote,
		sessions:  sessions,
		inspector: inspector,
		bus:       bus,
		log:       log.WithComponent("auth-usecase"),
	}
}

// Login exchanges credentials for a session and stores it.
func (uc *AuthUsecase) Login(ctx context.Context, username, password string) (*model.Session, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, errors.NewValidationError("username and password are required")
	}

	user, token, err := uc.remote.Login(ctx, repository.Credentials{Username: username, Password: password})
	if err != nil {
		return nil, errors.WrapError(err, "login failed")
	}

	session := &model.Session{User: *user, Token: token, CreatedAt: time.Now()}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, errors.WrapError(err, "failed to store session")
	}

	uc.log.WithContext(ctx).Infof("Logged in as %s", user.Username)
	uc.publish(ctx, eventbus.EventTypeUserLoggedIn, user.UserID)
	return session, nil
}

// Register creates an account, then stores the session the server returned.
func (uc *AuthUsecase) Register(ctx context.Context, reg repository.Registration) (*model.Session, error) {
	if err := uc.validateRegistration(reg); err != nil {
		return nil, err
	}

	user, token, err := uc.remote.Register(ctx, reg)
	if err != nil {
		return nil, errors.WrapError(err, "registration failed")
	}

	session := &model.Session{User: *user, Token: token, CreatedAt: time.Now()}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, errors.WrapError(err, "failed to store session")
	}

	uc.log.WithContext(ctx).Infof("Registered account %s", user.Username)
	uc.publish(ctx, eventbus.EventTypeUserLoggedIn, user.UserID)
	return session, nil
}

// Logout clears the stored session. The remote service holds no session
// state, so logout is purely local.
func (uc *AuthUsecase) Logout(ctx context.Context) error {
	if err := uc.sessions.Clear(ctx); err != nil {
		return errors.WrapError(err, "failed to clear session")
	}
	uc.publish(ctx, eventbus.EventTypeUserLoggedOut, nil)
	return nil
}

// CurrentSession returns the stored session, treating an expired token as
// no session at all.
func (uc *AuthUsecase) CurrentSession(ctx context.Context) (*model.Session, error) {
	session, err := uc.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	if !session.Valid() {
		return nil, nil
	}
	if uc.inspector.Expired(session.Token) {
		uc.log.WithContext(ctx).Debug("Stored session token expired, clearing")
		_ = uc.sessions.Clear(ctx)
		return nil, nil
	}
	return session, nil
}

// Token returns the bearer token for outgoing calls.
func (uc *AuthUsecase) Token(ctx context.Context) (string, error) {
	session, err := uc.CurrentSession(ctx)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", errors.ErrNoSession
	}
	return session.Token, nil
}

// InvalidateSession drops the session after the remote store rejected its
// token. Safe to call from any goroutine.
func (uc *AuthUsecase) InvalidateSession(ctx context.Context) {
	if err := uc.sessions.Clear(ctx); err != nil {
		uc.log.WithContext(ctx).Errorf("Failed to clear rejected session: %v", err)
	}
	uc.publish(ctx, eventbus.EventTypeSessionExpired, nil)
}

// UpdateProfile patches the changed account fields and refreshes the stored
// session's user record.
func (uc *AuthUsecase) UpdateProfile(ctx context.Context, patch model.ProfilePatch) (*model.User, error) {
	if patch.Empty() {
		return nil, errors.NewValidationError("no profile changes given")
	}
	if patch.Email != nil && !emailRegex.MatchString(*patch.Email) {
		return nil, errors.NewValidationError("invalid email format")
	}
	if patch.Password != nil {
		if err := validatePassword(*patch.Password); err != nil {
			return nil, err
		}
	}

	session, err := uc.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errors.NewAuthorizationError(errors.ErrNoSession.Error())
	}

	user, err := uc.remote.UpdateUser(ctx, session.User.UserID, patch)
	if err != nil {
		return nil, errors.WrapError(err, "profile update failed")
	}

	session.User = *user
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, errors.WrapError(err, "failed to store updated session")
	}
	return user, nil
}

// FetchUser retrieves one account by id.
func (uc *AuthUsecase) FetchUser(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, errors.NewValidationError("user id is required")
	}
	user, err := uc.remote.FetchUser(ctx, userID)
	if err != nil {
		return nil, errors.WrapError(err, "failed to fetch user")
	}
	return user, nil
}

// UsernameExists reports whether a username is already taken, for live
// feedback on the registration form.
func (uc *AuthUsecase) UsernameExists(ctx context.Context, username string) (bool, error) {
	if strings.TrimSpace(username) == "" {
		return false, errors.NewValidationError("username is required")
	}
	return uc.remote.UsernameExists(ctx, username)
}

// EmailExists reports whether an email is already registered.
func (uc *AuthUsecase) EmailExists(ctx context.Context, email string) (bool, error) {
	if !emailRegex.MatchString(email) {
		return false, errors.NewValidationError("invalid email format")
	}
	return uc.remote.EmailExists(ctx, email)
}

func (uc *AuthUsecase) validateRegistration(reg repository.Registration) error {
	if strings.TrimSpace(reg.Username) == "" {
		return errors.NewValidationError("username is required")
	}
	if !emailRegex.MatchString(reg.Email) {
		return errors.NewValidationError("invalid email format")
	}
	return validatePassword(reg.Password)
}

// validatePassword enforces the service's password policy: at least 12
// characters with an uppercase letter, a digit and a symbol.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return errors.NewValidationError("password must be at least 12 characters")
	}
	if len(password) > maxPasswordLength {
		return errors.NewValidationError("password is too long")
	}

	var hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	if !hasUpper {
		return errors.NewValidationError("password must contain an uppercase letter")
	}
	if !hasDigit {
		return errors.NewValidationError("password must contain a digit")
	}
	if !hasSymbol {
		return errors.NewValidationError("password must contain a symbol")
	}
	return nil
}

func (uc *AuthUsecase) publish(ctx context.Context, eventType string, data interface{}) {
	if uc.bus == nil {
		return
	}
	uc.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(eventType, data, "auth-usecase"))
}

// Ensure AuthUsecase implements AuthUsecaseInterface
var _ AuthUsecaseInterface = (*AuthUsecase)(nil)
