package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tallyhq/tally/internal/middleware"
)

type createGroupRequest struct {
	Name string `json:"name"`
}

type memberRequest struct {
	UserID string `json:"user_id"`
}

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	group, err := h.groups.CreateGroup(r.Context(), middleware.GetUserID(r.Context()), req.Name)
	if err != nil {
		writeMappedError(w, "create_group", err)
		return
	}
	writeSuccess(w, http.StatusCreated, group)
}

func (h *Handler) getGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.groups.GetGroup(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "groupID"))
	if err != nil {
		writeMappedError(w, "get_group", err)
		return
	}
	writeSuccess(w, http.StatusOK, group)
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.groups.ListMembers(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "groupID"))
	if err != nil {
		writeMappedError(w, "list_members", err)
		return
	}
	writeSuccess(w, http.StatusOK, members)
}

func (h *Handler) addMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	err := h.groups.AddMember(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "groupID"), req.UserID)
	if err != nil {
		writeMappedError(w, "add_member", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"user_id": req.UserID, "status": "active"})
}

func (h *Handler) inviteMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	err := h.groups.InviteMember(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "groupID"), req.UserID)
	if err != nil {
		writeMappedError(w, "invite_member", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"user_id": req.UserID, "status": "pending"})
}

func (h *Handler) archiveMember(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "userID")
	err := h.groups.ArchiveMember(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "groupID"), memberID)
	if err != nil {
		writeMappedError(w, "archive_member", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"user_id": memberID, "status": "archived"})
}

func (h *Handler) getFinances(w http.ResponseWriter, r *http.Request) {
	finances, err := h.finances.GetGroupFinances(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "groupID"))
	if err != nil {
		writeMappedError(w, "get_finances", err)
		return
	}
	writeSuccess(w, http.StatusOK, finances)
}

func (h *Handler) getBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.finances.GetBalances(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "groupID"))
	if err != nil {
		writeMappedError(w, "get_balances", err)
		return
	}
	writeSuccess(w, http.StatusOK, balances)
}

func (h *Handler) getSimplifiedDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := h.finances.GetSimplifiedDebts(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "groupID"))
	if err != nil {
		writeMappedError(w, "get_simplified_debts", err)
		return
	}
	writeSuccess(w, http.StatusOK, debts)
}
