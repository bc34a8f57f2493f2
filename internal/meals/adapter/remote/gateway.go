package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	authmodel "mealtrack/internal/auth/domain/model"
	authrepo "mealtrack/internal/auth/domain/repository"
	"mealtrack/internal/meals/config"
	"mealtrack/internal/meals/domain/model"
	"mealtrack/internal/meals/domain/repository"
	"mealtrack/internal/shared/errors"
	"mealtrack/internal/shared/logger"
	"mealtrack/internal/shared/utils"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

// TokenSource supplies the bearer token for authenticated calls.
// Implemented by the auth usecase.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Gateway is the HTTP client for the remote meal service. It implements
// both the meal store and the account endpoints over one fasthttp client.
type Gateway struct {
	client    *fasthttp.Client
	baseURL   string
	userAgent string
	timeout   time.Duration
	tokens    TokenSource
	log       logger.Logger
}

// NewGateway creates a gateway against the configured remote service.
func NewGateway(cfg *config.Config, tokens TokenSource, log logger.Logger) *Gateway {
	if log == nil {
		log = logger.NewLogger()
	}
	return &Gateway{
		client: &fasthttp.Client{
			ReadTimeout:  cfg.RequestTimeout,
			WriteTimeout: cfg.RequestTimeout,
		},
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		timeout:   cfg.RequestTimeout,
		tokens:    tokens,
		log:       log.WithComponent("remote-gateway"),
	}
}

// Wire envelopes used by the remote service.
type mealEnvelope struct {
	Meal *model.Meal `json:"meal"`
}

type mealsEnvelope struct {
	Meals []*model.Meal `json:"meals"`
}

type userEnvelope struct {
	User *authmodel.User `json:"user"`
}

type usersEnvelope struct {
	Users []*authmodel.User `json:"users"`
}

type authEnvelope struct {
	User  *authmodel.User `json:"user"`
	Token string          `json:"token"`
}

type msgEnvelope struct {
	Msg string `json:"msg"`
}

// FetchMeals lists the owner's meals, passing the sort parameters through
// to the server.
func (g *Gateway) FetchMeals(ctx context.Context, ownerID string, opts model.ListOptions) ([]*model.Meal, error) {
	query := url.Values{}
	if opts.SortBy != "" {
		query.Set("sort_by", string(opts.SortBy))
	}
	if opts.OrderBy != "" {
		query.Set("order_by", opts.OrderBy)
	}

	var out mealsEnvelope
	err := g.do(ctx, request{
		method: fasthttp.MethodGet,
		path:   fmt.Sprintf("/users/%s/meals", url.PathEscape(ownerID)),
		query:  query,
		authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Meals, nil
}

// FetchAllMeals lists every meal on the server.
func (g *Gateway) FetchAllMeals(ctx context.Context) ([]*model.Meal, error) {
	var out mealsEnvelope
	err := g.do(ctx, request{method: fasthttp.MethodGet, path: "/meals"}, &out)
	if err != nil {
		return nil, err
	}
	return out.Meals, nil
}

// CreateMeal stores a new meal and returns it with its server-assigned id.
func (g *Gateway) CreateMeal(ctx context.Context, draft *model.MealDraft) (*model.Meal, error) {
	var out mealEnvelope
	err := g.do(ctx, request{
		method: fasthttp.MethodPost,
		path:   "/meals",
		body:   draft,
		authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Meal, nil
}

// UpdateMeal patches one field and returns the server's updated record.
func (g *Gateway) UpdateMeal(ctx context.Context, id string, patch repository.FieldPatch) (*model.Meal, error) {
	var out mealEnvelope
	err := g.do(ctx, request{
		method: fasthttp.MethodPatch,
		path:   "/meals/" + url.PathEscape(id),
		body:   map[string]interface{}{"meal": map[string]interface{}{patch.Field: patch.Value}},
		authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Meal, nil
}

// DeleteMeal removes a meal.
func (g *Gateway) DeleteMeal(ctx context.Context, id string) error {
	return g.do(ctx, request{
		method: fasthttp.MethodDelete,
		path:   "/meals/" + url.PathEscape(id),
		authed: true,
	}, nil)
}

// Login exchanges credentials for the user record and a bearer token.
func (g *Gateway) Login(ctx context.Context, creds authrepo.Credentials) (*authmodel.User, string, error) {
	var out authEnvelope
	err := g.do(ctx, request{
		method: fasthttp.MethodPost,
		path:   "/auth/login",
		body:   map[string]interface{}{"user": creds},
	}, &out)
	if err != nil {
		return nil, "", err
	}
	return out.User, out.Token, nil
}

// Register creates an account and returns the user record and token.
func (g *Gateway) Register(ctx context.Context, reg authrepo.Registration) (*authmodel.User, string, error) {
	var out authEnvelope
	err := g.do(ctx, request{
		method: fasthttp.MethodPost,
		path:   "/users",
		body:   map[string]interface{}{"user": reg},
	}, &out)
	if err != nil {
		return nil, "", err
	}
	return out.User, out.Token, nil
}

// FetchUser retrieves one account by id.
func (g *Gateway) FetchUser(ctx context.Context, userID string) (*authmodel.User, error) {
	var out userEnvelope
	err := g.do(ctx, request{
		method: fasthttp.MethodGet,
		path:   "/users/" + url.PathEscape(userID),
		authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.User, nil
}

// UpdateUser patches the changed account fields.
func (g *Gateway) UpdateUser(ctx context.Context, userID string, patch authmodel.ProfilePatch) (*authmodel.User, error) {
	var out userEnvelope
	err := g.do(ctx, request{
		method: fasthttp.MethodPatch,
		path:   "/users/" + url.PathEscape(userID),
		body:   map[string]interface{}{"user": patch},
		authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.User, nil
}

// ListUsers retrieves every account.
func (g *Gateway) ListUsers(ctx context.Context) ([]*authmodel.User, error) {
	var out usersEnvelope
	err := g.do(ctx, request{method: fasthttp.MethodGet, path: "/users"}, &out)
	if err != nil {
		return nil, err
	}
	return out.Users, nil
}

// UsernameExists probes the username check endpoint. The service answers
// 2xx when the name is free and a conflict status when taken.
func (g *Gateway) UsernameExists(ctx context.Context, username string) (bool, error) {
	err := g.do(ctx, request{
		method: fasthttp.MethodGet,
		path:   "/usernames/" + url.PathEscape(username),
	}, nil)
	return existsFromProbe(err)
}

// EmailExists probes the email check endpoint.
func (g *Gateway) EmailExists(ctx context.Context, email string) (bool, error) {
	err := g.do(ctx, request{
		method: fasthttp.MethodPost,
		path:   "/emails/" + url.PathEscape(email),
		body:   map[string]string{"check": "registration"},
	}, nil)
	return existsFromProbe(err)
}

// existsFromProbe maps a check endpoint's outcome: success means available,
// a client rejection means taken, anything else is a real failure.
func existsFromProbe(err error) (bool, error) {
	if err == nil {
		return false, nil
	}
	if errors.IsNetwork(err) || errors.IsAuthorization(err) {
		return false, err
	}
	var appErr *errors.AppError
	if errors.AsAppError(err, &appErr) && appErr.HTTPCode >= 400 && appErr.HTTPCode < 500 {
		return true, nil
	}
	return false, err
}

// request describes one call to the remote service.
type request struct {
	method string
	path   string
	query  url.Values
	body   interface{}
	authed bool
}

// do executes a request and decodes the 2xx response body into out.
// Classification: transport failures become NetworkError, 401/403 become
// AuthorizationError, 404 NotFoundError, everything else non-2xx
// ServerError, all carrying the body's msg when present.
func (g *Gateway) do(ctx context.Context, r request, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return errors.NewNetworkError("request canceled").WithCause(err)
	}
	ctx = utils.WithRequestID(ctx, uuid.NewString())

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	uri := g.baseURL + r.path
	if len(r.query) > 0 {
		uri += "?" + r.query.Encode()
	}
	req.SetRequestURI(uri)
	req.Header.SetMethod(r.method)
	req.Header.SetUserAgent(g.userAgent)

	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return errors.NewValidationError("failed to encode request body").WithCause(err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	if r.authed {
		token, err := g.tokens.Token(ctx)
		if err != nil {
			return errors.NewAuthorizationError(errors.ErrNoSession.Error()).WithCause(err)
		}
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+token)
	}

	timeout := g.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	if err := g.client.DoTimeout(req, resp, timeout); err != nil {
		g.log.WithContext(ctx).Warnf("Transport failure on %s %s: %v", r.method, r.path, err)
		return errors.NewNetworkError(fmt.Sprintf("request to %s failed", r.path)).WithCause(err)
	}

	status := resp.StatusCode()
	body := resp.Body()
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return g.classify(status, body, r)
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.NewServerError("malformed response body", status).WithCause(err)
	}
	return nil
}

func (g *Gateway) classify(status int, body []byte, r request) error {
	msg := serverMessage(body)

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		if msg == "" {
			msg = "request rejected by the remote store"
		}
		return errors.NewAuthorizationError(msg)
	case http.StatusNotFound:
		if msg == "" {
			return errors.NewNotFoundError(r.path)
		}
		return errors.NewNotFoundError(msg)
	default:
		if msg == "" {
			msg = fmt.Sprintf("remote store returned status %d", status)
		}
		g.log.Warnf("Remote rejection on %s %s: %d %s", r.method, r.path, status, msg)
		return errors.NewServerError(msg, status)
	}
}

// serverMessage extracts the service's {"msg": "..."} error body.
func serverMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var env msgEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Msg
}

// Ensure Gateway implements both remote interfaces
var (
	_ repository.RemoteStore = (*Gateway)(nil)
	_ authrepo.UserRemote    = (*Gateway)(nil)
)
