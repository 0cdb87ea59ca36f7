package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/xy-planning-network/synkro/access"
	"github.com/xy-planning-network/synkro/http/middleware"
	"github.com/xy-planning-network/synkro/http/req"
	"github.com/xy-planning-network/synkro/http/resp"
	"github.com/xy-planning-network/synkro/http/router"
)

// Route variables.
const (
	EventIDVar = "eventID"
	GrantIDVar = "grantID"
	UserIDVar  = "userID"
)

// An Authorizer decides what callers can access.
//
// *access.Evaluator implements Authorizer.
type Authorizer interface {
	ResolveAccount(ctx context.Context, callerID string) (access.Account, error)
	Event(ctx context.Context, eventID string) (access.Event, error)
	CanAccessEvent(ctx context.Context, callerID, eventID string) access.Decision
	CanPerformAction(ctx context.Context, callerID, eventID string, action access.Action) access.ActionDecision
	AccessibleEvents(ctx context.Context, callerID string) ([]access.Event, error)
}

// A Provisioner changes who can access what.
//
// *provision.Service implements Provisioner.
type Provisioner interface {
	ShareEvent(ctx context.Context, callerID, eventID, userID string, permission access.Role) ([]access.Share, error)
	UnshareEvent(ctx context.Context, callerID, eventID, userID string) ([]access.Share, error)
	InviteMember(ctx context.Context, callerID, email string, role access.Role) (access.Grant, error)
	AcceptInvite(ctx context.Context, callerID, grantID string) (access.Grant, error)
	RevokeMember(ctx context.Context, callerID, grantID string) (access.Grant, error)
	ListMembers(ctx context.Context, callerID string) ([]access.Grant, error)
}

// A Handler serves the synkro API.
type Handler struct {
	*resp.Responder
	auth    Authorizer
	prov    Provisioner
	parser  *req.Parser
	idem    middleware.Adapter
	metrics http.Handler
	health  func(context.Context) error
}

// An OptFn configures a Handler when constructing one.
type OptFn func(*Handler)

// WithIdempotencyCache stores the responses of POST routes creating records in c.
func WithIdempotencyCache(c middleware.IdempotencyCacher) OptFn {
	return func(h *Handler) {
		h.idem = middleware.Idempotent(c)
	}
}

// WithMetrics serves m at /metrics.
func WithMetrics(m http.Handler) OptFn {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithHealthCheck reports the service unhealthy at /healthz while check returns an error.
func WithHealthCheck(check func(context.Context) error) OptFn {
	return func(h *Handler) {
		h.health = check
	}
}

// New constructs a *Handler responding through d.
func New(d *resp.Responder, a Authorizer, p Provisioner, opts ...OptFn) *Handler {
	h := &Handler{
		Responder: d,
		auth:      a,
		prov:      p,
		parser:    req.NewParser(),
	}
	for _, opt := range opts {
		opt(h)
	}

	if h.idem == nil {
		h.idem = middleware.Idempotent(nil)
	}

	return h
}

// Register routes requests on r to h.
// The middlewares run on every /api route, before checking the request has a caller.
func (h *Handler) Register(r *router.Router, middlewares ...middleware.Adapter) {
	r.Handle(router.Route{Path: "/healthz", Method: http.MethodGet, Handler: h.healthz})
	if h.metrics != nil {
		r.Handle(router.Route{Path: "/metrics", Method: http.MethodGet, Handler: h.metrics.ServeHTTP})
	}

	canView := middleware.Authorize(h.Responder, h.auth, access.ActionView, middleware.PathVar(EventIDVar))

	r.Subrouter("/api").AuthedRoutes(
		h.Responder,
		[]router.Route{
			{Path: "/access", Method: http.MethodGet, Handler: h.checkAccess},
			{Path: "/access", Method: http.MethodPost, Handler: h.checkAccess},
			{Path: "/account", Method: http.MethodGet, Handler: h.getAccount},
			{Path: "/events", Method: http.MethodGet, Handler: h.listEvents},
			{
				Path:        "/events/{" + EventIDVar + "}",
				Method:      http.MethodGet,
				Handler:     h.getEvent,
				Middlewares: []middleware.Adapter{canView},
			},
			{
				Path:        "/events/{" + EventIDVar + "}/shares",
				Method:      http.MethodPost,
				Handler:     h.shareEvent,
				Middlewares: []middleware.Adapter{h.idem},
			},
			{
				Path:    "/events/{" + EventIDVar + "}/shares/{" + UserIDVar + "}",
				Method:  http.MethodDelete,
				Handler: h.unshareEvent,
			},
			{Path: "/team", Method: http.MethodGet, Handler: h.listMembers},
			{
				Path:        "/team",
				Method:      http.MethodPost,
				Handler:     h.inviteMember,
				Middlewares: []middleware.Adapter{h.idem},
			},
			{Path: "/team/{" + GrantIDVar + "}/accept", Method: http.MethodPost, Handler: h.acceptInvite},
			{Path: "/team/{" + GrantIDVar + "}", Method: http.MethodDelete, Handler: h.revokeMember},
		},
		middlewares...,
	)
}

// healthz reports whether the service can serve requests.
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			h.Err(w, r, err, resp.Code(http.StatusServiceUnavailable))
			return
		}
	}

	if err := h.Json(w, r, resp.Data(map[string]string{"status": "ok"})); err != nil {
		h.Err(w, r, err)
	}
}

// parse decodes the payload of r into structPtr,
// responding with the reason it could not and returning false if so.
func (h *Handler) parse(w http.ResponseWriter, r *http.Request, structPtr any) bool {
	err := h.parser.ParseRequest(r, structPtr)
	if err == nil {
		return true
	}

	var verrs req.ValidationErrors
	if errors.As(err, &verrs) {
		h.Err(w, r, err, resp.Data(verrs))
		return false
	}

	h.Err(w, r, err)
	return false
}

// respond writes data with code, or err if it is not nil.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, code int, data any, err error) {
	if err != nil {
		h.Err(w, r, err)
		return
	}

	if err := h.Json(w, r, resp.Code(code), resp.Caller(), resp.Data(data)); err != nil {
		h.Err(w, r, err)
	}
}
