package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/srgjo27/hotel_inventory/internal/core/domain"
	"github.com/srgjo27/hotel_inventory/internal/core/services"
)

type InventoryHandler struct {
	svc *services.InventoryService
}

func NewInventoryHandler(svc *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

type provisionRequest struct {
	RoomTypeID string `json:"room_type_id"`
	FromDate   string `json:"from_date"`
	ToDate     string `json:"to_date"`
	TotalRooms int    `json:"total_rooms"`
}

func (h *InventoryHandler) Provision(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	var req provisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid json body")
		return
	}

	roomTypeID, from, to, ok := parseRoomTypeRange(w, req.RoomTypeID, req.FromDate, req.ToDate)
	if !ok {
		return
	}

	created, err := h.svc.Provision(r.Context(), roomTypeID, from, to, req.TotalRooms)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int{"created": created})
}

type adjustRequest struct {
	RoomTypeID   string `json:"room_type_id"`
	FromDate     string `json:"from_date"`
	ToDate       string `json:"to_date"`
	DeltaTotal   int    `json:"delta_total"`
	DeltaBlocked int    `json:"delta_blocked"`
}

// Adjust applies explicit deltas only. Absolute overrides are a different endpoint so
// a single call can never mix the two.
func (h *InventoryHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid json body")
		return
	}

	roomTypeID, from, to, ok := parseRoomTypeRange(w, req.RoomTypeID, req.FromDate, req.ToDate)
	if !ok {
		return
	}

	stay := domain.StayRange{CheckIn: domain.DateOnly(from), CheckOut: domain.DateOnly(to)}
	if err := h.svc.AdjustDelta(r.Context(), roomTypeID, stay, req.DeltaTotal, req.DeltaBlocked); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "adjusted"})
}

type stopSellRequest struct {
	RoomTypeID string `json:"room_type_id"`
	FromDate   string `json:"from_date"`
	ToDate     string `json:"to_date"`
	StopSell   bool   `json:"stop_sell"`
}

func (h *InventoryHandler) StopSell(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	var req stopSellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid json body")
		return
	}

	roomTypeID, from, to, ok := parseRoomTypeRange(w, req.RoomTypeID, req.FromDate, req.ToDate)
	if !ok {
		return
	}

	stay := domain.StayRange{CheckIn: domain.DateOnly(from), CheckOut: domain.DateOnly(to)}
	if err := h.svc.SetStopSell(r.Context(), roomTypeID, stay, req.StopSell); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"stop_sell": req.StopSell})
}

func (h *InventoryHandler) Availability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	query := r.URL.Query()
	roomTypeID, from, to, ok := parseRoomTypeRange(w, query.Get("room_type_id"), query.Get("from"), query.Get("to"))
	if !ok {
		return
	}

	days, err := h.svc.Availability(r.Context(), roomTypeID, from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"room_type_id": roomTypeID.String(), "days": days})
}

func parseRoomTypeRange(w http.ResponseWriter, rawID, rawFrom, rawTo string) (uuid.UUID, time.Time, time.Time, bool) {
	roomTypeID, err := uuid.Parse(rawID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidID, "invalid room type id")
		return uuid.Nil, time.Time{}, time.Time{}, false
	}

	from, err := time.Parse(domain.DateLayout, rawFrom)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid from date")
		return uuid.Nil, time.Time{}, time.Time{}, false
	}

	to, err := time.Parse(domain.DateLayout, rawTo)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid to date")
		return uuid.Nil, time.Time{}, time.Time{}, false
	}

	return roomTypeID, from, to, true
}
