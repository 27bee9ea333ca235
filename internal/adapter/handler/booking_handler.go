package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/srgjo27/hotel_inventory/internal/core/domain"
	"github.com/srgjo27/hotel_inventory/internal/core/services"
)

type BookingHandler struct {
	svc *services.BookingService
}

func NewBookingHandler(svc *services.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

type createDraftRequest struct {
	HotelID        string  `json:"hotel_id"`
	RoomTypeID     string  `json:"room_type_id"`
	RatePlanID     string  `json:"rate_plan_id"`
	CheckinDate    string  `json:"checkin_date"`
	CheckoutDate   string  `json:"checkout_date"`
	Rooms          int     `json:"rooms"`
	GuestName      string  `json:"guest_name"`
	GuestEmail     string  `json:"guest_email"`
	GuestPhone     string  `json:"guest_phone"`
	TotalRoomPrice float64 `json:"total_room_price"`
	TaxAmount      float64 `json:"tax_amount"`
	GrandTotal     float64 `json:"grand_total"`
}

type createDraftResponse struct {
	BookingID  string  `json:"booking_id"`
	Status     string  `json:"status"`
	Nights     int     `json:"nights"`
	GrandTotal float64 `json:"grand_total"`
}

// Bookings dispatches the booking collection endpoint: POST creates a draft, GET
// fetches one by id.
func (h *BookingHandler) Bookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createDraft(w, r)
	case http.MethodGet:
		h.getBooking(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	}
}

func (h *BookingHandler) createDraft(w http.ResponseWriter, r *http.Request) {
	var req createDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid json body")
		return
	}

	hotelID, err := uuid.Parse(req.HotelID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidID, "invalid hotel id")
		return
	}

	roomTypeID, err := uuid.Parse(req.RoomTypeID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidID, "invalid room type id")
		return
	}

	ratePlanID, err := uuid.Parse(req.RatePlanID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidID, "invalid rate plan id")
		return
	}

	checkin, err := time.Parse(domain.DateLayout, req.CheckinDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid checkin date")
		return
	}

	checkout, err := time.Parse(domain.DateLayout, req.CheckoutDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid checkout date")
		return
	}

	booking, err := h.svc.CreateDraft(r.Context(), services.CreateDraftInput{
		HotelID:        hotelID,
		RoomTypeID:     roomTypeID,
		RatePlanID:     ratePlanID,
		CheckinDate:    checkin,
		CheckoutDate:   checkout,
		Rooms:          req.Rooms,
		GuestName:      req.GuestName,
		GuestEmail:     req.GuestEmail,
		GuestPhone:     req.GuestPhone,
		TotalRoomPrice: req.TotalRoomPrice,
		TaxAmount:      req.TaxAmount,
		GrandTotal:     req.GrandTotal,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createDraftResponse{
		BookingID:  booking.ID.String(),
		Status:     string(booking.Status),
		Nights:     booking.Nights,
		GrandTotal: booking.GrandTotal,
	})
}

type bookingResponse struct {
	BookingID       string  `json:"booking_id"`
	HotelID         string  `json:"hotel_id"`
	RoomTypeID      string  `json:"room_type_id"`
	RatePlanID      string  `json:"rate_plan_id"`
	CheckinDate     string  `json:"checkin_date"`
	CheckoutDate    string  `json:"checkout_date"`
	Nights          int     `json:"nights"`
	Rooms           int     `json:"rooms"`
	Status          string  `json:"status"`
	PaymentMethod   *string `json:"payment_method,omitempty"`
	ReservationCode *string `json:"reservation_code,omitempty"`
	HoldExpiresAt   *string `json:"hold_expires_at,omitempty"`
	GrandTotal      float64 `json:"grand_total"`
}

func (h *BookingHandler) getBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidID, "invalid booking id")
		return
	}

	booking, err := h.svc.GetBooking(r.Context(), bookingID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := bookingResponse{
		BookingID:    booking.ID.String(),
		HotelID:      booking.HotelID.String(),
		RoomTypeID:   booking.RoomTypeID.String(),
		RatePlanID:   booking.RatePlanID.String(),
		CheckinDate:  booking.CheckinDate.Format(domain.DateLayout),
		CheckoutDate: booking.CheckoutDate.Format(domain.DateLayout),
		Nights:       booking.Nights,
		Rooms:        booking.Rooms,
		Status:       string(booking.Status),
		GrandTotal:   booking.GrandTotal,
	}

	if booking.PaymentMethod != nil {
		method := string(*booking.PaymentMethod)
		resp.PaymentMethod = &method
	}
	resp.ReservationCode = booking.ReservationCode
	if booking.HoldExpiresAt != nil {
		expiresAt := booking.HoldExpiresAt.Format(time.RFC3339)
		resp.HoldExpiresAt = &expiresAt
	}

	writeJSON(w, http.StatusOK, resp)
}

type bookingIDRequest struct {
	BookingID string `json:"booking_id"`
}

type placeHoldResponse struct {
	ReservationCode string `json:"reservation_code"`
	ExpiresAt       string `json:"expires_at"`
}

func (h *BookingHandler) PlaceHold(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := parseBookingID(w, r)
	if !ok {
		return
	}

	result, err := h.svc.PlaceHold(r.Context(), bookingID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, placeHoldResponse{
		ReservationCode: result.ReservationCode,
		ExpiresAt:       result.ExpiresAt.Format(time.RFC3339),
	})
}

func (h *BookingHandler) CancelHold(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := parseBookingID(w, r)
	if !ok {
		return
	}

	if err := h.svc.CancelHold(r.Context(), bookingID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(domain.BookingCancelled)})
}

type setPaymentMethodRequest struct {
	BookingID     string `json:"booking_id"`
	PaymentMethod string `json:"payment_method"`
}

func (h *BookingHandler) SetPaymentMethod(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	var req setPaymentMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid json body")
		return
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidID, "invalid booking id")
		return
	}

	if err := h.svc.SetPaymentMethod(r.Context(), bookingID, domain.PaymentMethod(req.PaymentMethod)); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"payment_method": req.PaymentMethod})
}

type paymentCallbackRequest struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

// PaymentCallback is the inbound contract for the payment collaborator: success
// confirms the hold, failure or cancellation releases it.
func (h *BookingHandler) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	var req paymentCallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid json body")
		return
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidID, "invalid booking id")
		return
	}

	switch req.Status {
	case "SUCCESS":
		err = h.svc.ConfirmPayment(r.Context(), bookingID)
	case "FAILED", "CANCELLED":
		err = h.svc.HandlePaymentFailed(r.Context(), bookingID)
	default:
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "unknown payment status")
		return
	}

	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"acknowledged": "true"})
}

func parseBookingID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return uuid.Nil, false
	}

	var req bookingIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid json body")
		return uuid.Nil, false
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidID, "invalid booking id")
		return uuid.Nil, false
	}

	return bookingID, true
}
