package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"rental-backend/internal/rental"
)

type CreateOrderRequest struct {
	TotalPrice          float64               `json:"total_price"`
	OrderStartDate      string                `json:"order_start_date"`
	OrderEndDate        string                `json:"order_end_date"`
	PaymentDueDate      string                `json:"payment_due_date"`
	OrderLengthDays     int                   `json:"order_length_days"`
	CustomerName        string                `json:"customer_name"`
	CustomerPhoneNumber string                `json:"customer_phone_number"`
	CustomerEmail       string                `json:"customer_email"`
	Contents            []rental.ContentEntry `json:"contents"`
}

type UpdateOrderRequest struct {
	TotalPrice          *float64              `json:"total_price"`
	OrderStartDate      string                `json:"order_start_date"`
	OrderEndDate        string                `json:"order_end_date"`
	PaymentDueDate      string                `json:"payment_due_date"`
	OrderLengthDays     int                   `json:"order_length_days"`
	OrderStatus         string                `json:"order_status"`
	PaymentResolved     bool                  `json:"payment_resolved"`
	CustomerName        string                `json:"customer_name"`
	CustomerPhoneNumber string                `json:"customer_phone_number"`
	CustomerEmail       string                `json:"customer_email"`
	Contents            []rental.ContentEntry `json:"contents"`
}

// OrderHandler handles HTTP requests for orders and their canned queries.
type OrderHandler struct {
	svc rental.Service
}

func NewOrderHandler(svc rental.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// RegisterRoutes wires the order endpoints. The literal sub-paths (unfinished,
// before/..., etc.) and the {id} wildcard can coexist because chi always
// matches static segments before parameters.
func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Get("/orders", h.handleListOrders)
	router.Get("/orders/unfinished", h.handleUnfinishedOrders)
	router.Get("/orders/unpaid", h.handleUnpaidOrders)
	router.Get("/orders/latepayment", h.handleLatePaymentOrders)
	router.Get("/orders/finished", h.handleFinishedOrders)
	router.Get("/orders/before/{time}", h.handleOrdersBefore)
	router.Get("/orders/after/{time}", h.handleOrdersAfter)
	router.Get("/orders/between/{time_a}/{time_b}", h.handleOrdersBetween)
	router.Get("/orders/{id}", h.handleGetOrder)
	router.Get("/orders/{id}/contents", h.handleGetOrderContents)
	router.Post("/orders", h.handleCreateOrder)
	router.Put("/orders/{id}", h.handleUpdateOrder)
	router.Delete("/orders/{id}", h.handleDeleteOrder)
}

func (h *OrderHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.Orders(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list orders")
		respondWithServiceError(w, err, "order not found")
		return
	}
	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleUnfinishedOrders(w http.ResponseWriter, r *http.Request) {
	h.respondWithOrderList(w, r, h.svc.UnfinishedOrders, "Failed to list unfinished orders")
}

func (h *OrderHandler) handleUnpaidOrders(w http.ResponseWriter, r *http.Request) {
	h.respondWithOrderList(w, r, h.svc.UnpaidOrders, "Failed to list unpaid orders")
}

func (h *OrderHandler) handleLatePaymentOrders(w http.ResponseWriter, r *http.Request) {
	h.respondWithOrderList(w, r, h.svc.LatePaymentOrders, "Failed to list orders with late payment")
}

func (h *OrderHandler) handleFinishedOrders(w http.ResponseWriter, r *http.Request) {
	h.respondWithOrderList(w, r, h.svc.FinishedOrders, "Failed to list finished orders")
}

func (h *OrderHandler) respondWithOrderList(w http.ResponseWriter, r *http.Request, query func(context.Context) ([]rental.Order, error), failureMessage string) {
	orders, err := query(r.Context())
	if err != nil {
		log.Error().Err(err).Msg(failureMessage)
		respondWithServiceError(w, err, "order not found")
		return
	}
	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	order, err := h.svc.OrderByID(r.Context(), id)
	if err != nil {
		log.Warn().Err(err).Int64("order_id", id).Msg("Failed to get order")
		respondWithServiceError(w, err, "order not found")
		return
	}
	respondWithJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) handleGetOrderContents(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	contents, err := h.svc.OrderContents(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Int64("order_id", id).Msg("Failed to get order contents")
		respondWithServiceError(w, err, "order not found")
		return
	}
	respondWithJSON(w, http.StatusOK, contents)
}

func (h *OrderHandler) handleOrdersBefore(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.OrdersBefore(r.Context(), chi.URLParam(r, "time"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to list orders before time")
		respondWithServiceError(w, err, "order not found")
		return
	}
	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleOrdersAfter(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.OrdersAfter(r.Context(), chi.URLParam(r, "time"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to list orders after time")
		respondWithServiceError(w, err, "order not found")
		return
	}
	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleOrdersBetween(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.OrdersBetween(r.Context(), chi.URLParam(r, "time_a"), chi.URLParam(r, "time_b"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to list orders between times")
		respondWithServiceError(w, err, "order not found")
		return
	}
	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.svc.CreateOrder(r.Context(), rental.NewOrder{
		TotalPrice:          req.TotalPrice,
		OrderStartDate:      req.OrderStartDate,
		OrderEndDate:        req.OrderEndDate,
		PaymentDueDate:      req.PaymentDueDate,
		OrderLengthDays:     req.OrderLengthDays,
		CustomerName:        req.CustomerName,
		CustomerPhoneNumber: req.CustomerPhoneNumber,
		CustomerEmail:       req.CustomerEmail,
		Contents:            req.Contents,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create order")
		respondWithServiceError(w, err, "order not found")
		return
	}
	respondWithJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	var req UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.svc.UpdateOrder(r.Context(), id, rental.OrderUpdate{
		TotalPrice:          req.TotalPrice,
		OrderStartDate:      req.OrderStartDate,
		OrderEndDate:        req.OrderEndDate,
		PaymentDueDate:      req.PaymentDueDate,
		OrderLengthDays:     req.OrderLengthDays,
		OrderStatus:         req.OrderStatus,
		PaymentResolved:     req.PaymentResolved,
		CustomerName:        req.CustomerName,
		CustomerPhoneNumber: req.CustomerPhoneNumber,
		CustomerEmail:       req.CustomerEmail,
		Contents:            req.Contents,
	})
	if err != nil {
		log.Error().Err(err).Int64("order_id", id).Msg("Failed to update order")
		respondWithServiceError(w, err, "order not found")
		return
	}
	// Updates respond 201 like creates, as inherited.
	respondWithJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	if err := h.svc.DeleteOrder(r.Context(), id); err != nil {
		log.Error().Err(err).Int64("order_id", id).Msg("Failed to delete order")
		respondWithServiceError(w, err, "order not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
