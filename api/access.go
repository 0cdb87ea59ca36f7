package api

import (
	"fmt"
	"net/http"

	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/access"
	"github.com/xy-planning-network/synkro/http/resp"
)

// accessParams are the parameters of a request to the decision surface.
// Action is optional: without it, the decision is about access to the event alone.
type accessParams struct {
	ResourceID string        `json:"resourceId" schema:"resourceId"`
	Action     access.Action `json:"action" schema:"action" validate:"omitempty,enum"`
}

// checkAccess decides whether the caller can access the event named by resourceId,
// or perform action on it.
func (h *Handler) checkAccess(w http.ResponseWriter, r *http.Request) {
	callerID, _ := synkro.CallerFromContext(r.Context())

	var p accessParams
	if !h.parse(w, r, &p) {
		return
	}

	if p.ResourceID == "" {
		h.Err(w, r, fmt.Errorf("%w: resourceId is required", synkro.ErrMissingData))
		return
	}

	if p.Action == "" {
		d := h.auth.CanAccessEvent(r.Context(), callerID, p.ResourceID)
		h.decide(w, r, d.CanAccess, d.Reason, d)
		return
	}

	ad := h.auth.CanPerformAction(r.Context(), callerID, p.ResourceID, p.Action)
	h.decide(w, r, ad.CanPerform, ad.Reason, ad)
}

// decide responds with decision: 200 if allowed, otherwise 403 and reason.
func (h *Handler) decide(w http.ResponseWriter, r *http.Request, allowed bool, reason access.Reason, decision any) {
	if !allowed {
		err := fmt.Errorf("%w: %s", synkro.ErrForbidden, reason)
		h.Err(w, r, err, resp.Code(http.StatusForbidden), resp.Caller(), resp.Data(decision))
		return
	}

	if err := h.Json(w, r, resp.Caller(), resp.Data(decision)); err != nil {
		h.Err(w, r, err)
	}
}
