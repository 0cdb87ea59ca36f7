package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/access"
)

type inviteParams struct {
	Email string      `json:"email" schema:"email" validate:"required,email"`
	Role  access.Role `json:"role" schema:"role" validate:"required,enum"`
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	callerID, _ := synkro.CallerFromContext(r.Context())
	grants, err := h.prov.ListMembers(r.Context(), callerID)
	h.respond(w, r, http.StatusOK, grants, err)
}

func (h *Handler) inviteMember(w http.ResponseWriter, r *http.Request) {
	callerID, _ := synkro.CallerFromContext(r.Context())

	var p inviteParams
	if !h.parse(w, r, &p) {
		return
	}

	grant, err := h.prov.InviteMember(r.Context(), callerID, p.Email, p.Role)
	h.respond(w, r, http.StatusCreated, grant, err)
}

func (h *Handler) acceptInvite(w http.ResponseWriter, r *http.Request) {
	callerID, _ := synkro.CallerFromContext(r.Context())
	grant, err := h.prov.AcceptInvite(r.Context(), callerID, mux.Vars(r)[GrantIDVar])
	h.respond(w, r, http.StatusOK, grant, err)
}

func (h *Handler) revokeMember(w http.ResponseWriter, r *http.Request) {
	callerID, _ := synkro.CallerFromContext(r.Context())
	grant, err := h.prov.RevokeMember(r.Context(), callerID, mux.Vars(r)[GrantIDVar])
	h.respond(w, r, http.StatusOK, grant, err)
}
