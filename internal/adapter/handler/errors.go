package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/srgjo27/hotel_inventory/internal/core/domain"
)

const (
	codeMethodNotAllowed         = "method_not_allowed"
	codeInvalidRequestBody       = "invalid_request_body"
	codeInvalidID                = "invalid_id"
	codeInvalidDate              = "invalid_date"
	codeInvalidDateRange         = "invalid_date_range"
	codeInvalidStay              = "invalid_stay"
	codeInvalidQuantity          = "invalid_quantity"
	codeInvalidTotalRooms        = "invalid_total_rooms"
	codeInvalidPaymentMethod     = "invalid_payment_method"
	codeBookingNotFound          = "booking_not_found"
	codeRatePlanNotFound         = "rate_plan_not_found"
	codeInvalidStateTransition   = "invalid_state_transition"
	codeStopSell                 = "stop_sell"
	codeInsufficientAvailability = "insufficient_availability"
	codeCancelExceedsSold        = "cancel_exceeds_sold"
	codeRangeIncomplete          = "range_incomplete"
	codeConstraintViolation      = "constraint_violation"
	codeInternalError            = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// writeServiceError maps core errors to HTTP responses. Business rejections keep
// their message and context; range-incomplete and constraint violations are
// operational defects and surface as server errors.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		stateErr      *domain.InvalidStateTransitionError
		stopSellErr   *domain.StopSellError
		availErr      *domain.InsufficientAvailabilityError
		cancelErr     *domain.CancelExceedsSoldError
		incompleteErr *domain.RangeIncompleteError
		violationErr  *domain.ConstraintViolationError
	)

	switch {
	case errors.Is(err, domain.ErrInvalidDateRange):
		writeError(w, http.StatusBadRequest, codeInvalidDateRange, err.Error())
	case errors.Is(err, domain.ErrInvalidStay):
		writeError(w, http.StatusBadRequest, codeInvalidStay, err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
	case errors.Is(err, domain.ErrInvalidTotalRooms):
		writeError(w, http.StatusBadRequest, codeInvalidTotalRooms, err.Error())
	case errors.Is(err, domain.ErrInvalidPaymentMethod):
		writeError(w, http.StatusUnprocessableEntity, codeInvalidPaymentMethod, err.Error())
	case errors.Is(err, domain.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, codeBookingNotFound, err.Error())
	case errors.Is(err, domain.ErrRatePlanNotFound):
		writeError(w, http.StatusNotFound, codeRatePlanNotFound, err.Error())
	case errors.As(err, &stateErr):
		writeError(w, http.StatusConflict, codeInvalidStateTransition, err.Error())
	case errors.As(err, &stopSellErr):
		writeError(w, http.StatusConflict, codeStopSell, err.Error())
	case errors.As(err, &availErr):
		writeError(w, http.StatusConflict, codeInsufficientAvailability, err.Error())
	case errors.As(err, &cancelErr):
		writeError(w, http.StatusConflict, codeCancelExceedsSold, err.Error())
	case errors.As(err, &incompleteErr):
		writeError(w, http.StatusServiceUnavailable, codeRangeIncomplete, err.Error())
	case errors.As(err, &violationErr):
		writeError(w, http.StatusInternalServerError, codeConstraintViolation, "inventory ledger inconsistency detected")
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal server error")
	}
}
