package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/access"
	"github.com/xy-planning-network/synkro/http/middleware"
)

// An eventView is an event as the caller sees it.
type eventView struct {
	access.Event
	Access access.ActionDecision `json:"access"`

	// SharedWith is only listed for callers who can share the event.
	SharedWith []access.Share `json:"sharedWith,omitempty"`
}

type shareParams struct {
	UserID     string      `json:"userId" schema:"userId" validate:"required"`
	Permission access.Role `json:"permission" schema:"permission" validate:"required,enum"`
}

func (h *Handler) getAccount(w http.ResponseWriter, r *http.Request) {
	callerID, _ := synkro.CallerFromContext(r.Context())
	acct, err := h.auth.ResolveAccount(r.Context(), callerID)
	h.respond(w, r, http.StatusOK, acct, err)
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	callerID, _ := synkro.CallerFromContext(r.Context())
	events, err := h.auth.AccessibleEvents(r.Context(), callerID)
	h.respond(w, r, http.StatusOK, events, err)
}

// getEvent responds with the event middleware.Authorize let the caller view.
func (h *Handler) getEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := h.auth.Event(r.Context(), mux.Vars(r)[EventIDVar])
	if err != nil {
		h.Err(w, r, err)
		return
	}

	ad, _ := middleware.DecisionFromContext(r.Context())
	view := eventView{Event: ev, Access: ad}
	if access.Allowed(ad.Permission, access.ActionShare) {
		// A malformed list was already logged evaluating access.
		view.SharedWith, _ = access.DecodeShares(ev.SharedWith)
	}

	h.respond(w, r, http.StatusOK, view, nil)
}

func (h *Handler) shareEvent(w http.ResponseWriter, r *http.Request) {
	callerID, _ := synkro.CallerFromContext(r.Context())

	var p shareParams
	if !h.parse(w, r, &p) {
		return
	}

	shares, err := h.prov.ShareEvent(r.Context(), callerID, mux.Vars(r)[EventIDVar], p.UserID, p.Permission)
	h.respond(w, r, http.StatusOK, shares, err)
}

func (h *Handler) unshareEvent(w http.ResponseWriter, r *http.Request) {
	callerID, _ := synkro.CallerFromContext(r.Context())
	vars := mux.Vars(r)
	shares, err := h.prov.UnshareEvent(r.Context(), callerID, vars[EventIDVar], vars[UserIDVar])
	h.respond(w, r, http.StatusOK, shares, err)
}
