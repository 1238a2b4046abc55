package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"rental-backend/internal/rental"
)

type CreateDeviceRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	PricePerDay float64 `json:"price_per_day"`
	TotalStock  int     `json:"total_stock"`
}

type UpdateDeviceRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	PricePerDay  *float64 `json:"price_per_day"`
	CurrentStock *int     `json:"current_stock"`
	TotalStock   *int     `json:"total_stock"`
}

// DeviceHandler handles HTTP requests for devices.
type DeviceHandler struct {
	svc rental.Service
}

func NewDeviceHandler(svc rental.Service) *DeviceHandler {
	return &DeviceHandler{svc: svc}
}

func (h *DeviceHandler) RegisterRoutes(router chi.Router) {
	router.Get("/devices", h.handleListDevices)
	router.Get("/devices/{id}", h.handleGetDevice)
	router.Post("/devices", h.handleCreateDevice)
	router.Put("/devices/{id}", h.handleUpdateDevice)
	router.Delete("/devices/{id}", h.handleDeleteDevice)
}

func (h *DeviceHandler) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.svc.Devices(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list devices")
		respondWithServiceError(w, err, "device not found")
		return
	}
	respondWithJSON(w, http.StatusOK, devices)
}

func (h *DeviceHandler) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	device, err := h.svc.DeviceByID(r.Context(), id)
	if err != nil {
		log.Warn().Err(err).Int64("device_id", id).Msg("Failed to get device")
		respondWithServiceError(w, err, "device not found")
		return
	}
	respondWithJSON(w, http.StatusOK, device)
}

func (h *DeviceHandler) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	var req CreateDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	device, err := h.svc.CreateDevice(r.Context(), rental.NewDevice{
		Name:        req.Name,
		Description: req.Description,
		PricePerDay: req.PricePerDay,
		TotalStock:  req.TotalStock,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create device")
		respondWithServiceError(w, err, "device not found")
		return
	}
	respondWithJSON(w, http.StatusCreated, device)
}

func (h *DeviceHandler) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	var req UpdateDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	device, err := h.svc.UpdateDevice(r.Context(), id, rental.DeviceUpdate{
		Name:         req.Name,
		Description:  req.Description,
		PricePerDay:  req.PricePerDay,
		CurrentStock: req.CurrentStock,
		TotalStock:   req.TotalStock,
	})
	if err != nil {
		log.Error().Err(err).Int64("device_id", id).Msg("Failed to update device")
		respondWithServiceError(w, err, "device not found")
		return
	}
	// Updates respond 201 like creates, as inherited.
	respondWithJSON(w, http.StatusCreated, device)
}

func (h *DeviceHandler) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	if err := h.svc.DeleteDevice(r.Context(), id); err != nil {
		log.Error().Err(err).Int64("device_id", id).Msg("Failed to delete device")
		respondWithServiceError(w, err, "device not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
