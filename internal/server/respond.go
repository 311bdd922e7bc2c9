package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tallyhq/tally/internal/auth"
	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/money"
	"github.com/tallyhq/tally/internal/service"
	"github.com/tallyhq/tally/internal/storage"
)

type apiError struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, map[string]any{
		"status": "success",
		"data":   data,
	})
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, apiError{
		Status:  "error",
		Code:    code,
		Message: message,
	})
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// errorMapping pairs a sentinel with its HTTP representation. Order
// matters: the first match wins.
type errorMapping struct {
	sentinel error
	status   int
	code     string
}

var errorMappings = []errorMapping{
	{money.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{ledger.ErrMissingSplits, http.StatusBadRequest, "missing_splits"},
	{ledger.ErrInvalidSplitUser, http.StatusBadRequest, "invalid_split_user"},
	{ledger.ErrDuplicateSplitUser, http.StatusBadRequest, "duplicate_split_user"},
	{ledger.ErrInvalidSplitTotal, http.StatusBadRequest, "invalid_split_total"},
	{ledger.ErrInvalidPercentageTotal, http.StatusBadRequest, "invalid_percentage_total"},
	{service.ErrSelfSettlement, http.StatusBadRequest, "self_settlement"},
	{service.ErrInvalidGroupName, http.StatusBadRequest, "invalid_group_name"},
	{auth.ErrWeakPassword, http.StatusBadRequest, "weak_password"},
	{ledger.ErrDepartedParticipant, http.StatusConflict, "departed_participant"},
	{ledger.ErrTransactionLocked, http.StatusConflict, "transaction_locked"},
	{auth.ErrEmailExists, http.StatusConflict, "email_exists"},
	{service.ErrNotGroupMember, http.StatusForbidden, "not_group_member"},
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
	{storage.ErrNotFound, http.StatusNotFound, "not_found"},
}

// writeMappedError translates a domain error into an HTTP response.
// Unknown errors (including a conservation violation, which means the
// ledger itself is inconsistent) become an opaque 500.
func writeMappedError(w http.ResponseWriter, op string, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.sentinel) {
			writeError(w, m.status, m.code, err.Error())
			return
		}
	}
	if errors.Is(err, ledger.ErrBalanceConservation) {
		slog.Error("balance conservation violated", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "ledger state inconsistent")
		return
	}
	slog.Error("request failed", "op", op, "error", err)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}

func writeValidationError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body: "+err.Error())
}
