package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tallyhq/tally/internal/middleware"
	"github.com/tallyhq/tally/internal/service"
)

func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	var req service.ExpenseInput
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	expense, err := h.expenses.CreateExpense(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeMappedError(w, "create_expense", err)
		return
	}
	writeSuccess(w, http.StatusCreated, expense)
}

func (h *Handler) updateExpense(w http.ResponseWriter, r *http.Request) {
	var req service.ExpenseInput
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	expense, err := h.expenses.UpdateExpense(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "expenseID"), req)
	if err != nil {
		writeMappedError(w, "update_expense", err)
		return
	}
	writeSuccess(w, http.StatusOK, expense)
}

func (h *Handler) deleteExpense(w http.ResponseWriter, r *http.Request) {
	err := h.expenses.DeleteExpense(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "expenseID"))
	if err != nil {
		writeMappedError(w, "delete_expense", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"id": chi.URLParam(r, "expenseID"), "deleted": "true"})
}

func (h *Handler) createSettlement(w http.ResponseWriter, r *http.Request) {
	var req service.SettlementInput
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	settlement, err := h.expenses.CreateSettlement(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeMappedError(w, "create_settlement", err)
		return
	}
	writeSuccess(w, http.StatusCreated, settlement)
}

func (h *Handler) deleteSettlement(w http.ResponseWriter, r *http.Request) {
	err := h.expenses.DeleteSettlement(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "settlementID"))
	if err != nil {
		writeMappedError(w, "delete_settlement", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"id": chi.URLParam(r, "settlementID"), "deleted": "true"})
}
