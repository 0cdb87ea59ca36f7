package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/access"
	"github.com/xy-planning-network/synkro/http/resp"
)

// An ActionAuthorizer decides whether a caller can perform an action on an event.
//
// *access.Evaluator implements ActionAuthorizer.
type ActionAuthorizer interface {
	CanPerformAction(ctx context.Context, callerID, eventID string, action access.Action) access.ActionDecision
}

// A ResourceFn pulls the ID of the event a request is about out of it.
type ResourceFn func(*http.Request) string

// PathVar reads the resource ID from the gorilla/mux route variable name.
func PathVar(name string) ResourceFn {
	return func(r *http.Request) string { return mux.Vars(r)[name] }
}

// QueryParam reads the resource ID from the query parameter name.
func QueryParam(name string) ResourceFn {
	return func(r *http.Request) string { return r.URL.Query().Get(name) }
}

// Authorize lets through requests whose caller can perform action on the event resource names.
//
// Requests without a caller get 401 and requests naming no event get 400.
// Denied requests get 403 with the decision, whose reason says why.
// Allowed requests carry the decision in their context under synkro.DecisionKey.
func Authorize(d *resp.Responder, a ActionAuthorizer, action access.Action, resource ResourceFn) Adapter {
	if d == nil || a == nil || resource == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			callerID, ok := synkro.CallerFromContext(r.Context())
			if !ok {
				err := fmt.Errorf("%w: authentication required", synkro.ErrMissingData)
				d.Err(w, r, err, resp.Code(http.StatusUnauthorized))
				return
			}

			eventID := resource(r)
			if eventID == "" {
				d.Err(w, r, fmt.Errorf("%w: resourceId is required", synkro.ErrMissingData))
				return
			}

			ad := a.CanPerformAction(r.Context(), callerID, eventID, action)
			if !ad.CanPerform {
				err := fmt.Errorf("%w: %s", synkro.ErrForbidden, ad.Reason)
				d.Err(w, r, err, resp.Code(http.StatusForbidden), resp.Data(ad))
				return
			}

			ctx := context.WithValue(r.Context(), synkro.DecisionKey, ad)
			h.ServeHTTP(w, r.Clone(ctx))
		})
	}
}

// DecisionFromContext retrieves the decision Authorize stashed in ctx.
func DecisionFromContext(ctx context.Context) (access.ActionDecision, bool) {
	ad, ok := ctx.Value(synkro.DecisionKey).(access.ActionDecision)
	return ad, ok
}
