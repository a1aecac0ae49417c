package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/eclatbeaute/eclat/internal/auth"
	"github.com/eclatbeaute/eclat/internal/model"
	"github.com/eclatbeaute/eclat/internal/store"
	"github.com/eclatbeaute/eclat/internal/websocket"
)

type OrderHandler struct {
	orders   *store.OrderStore
	profiles *store.ProfileStore
	hub      *websocket.Hub
	log      *slog.Logger
}

func NewOrderHandler(orders *store.OrderStore, profiles *store.ProfileStore, hub *websocket.Hub, log *slog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, profiles: profiles, hub: hub, log: log.With("component", "order")}
}

type orderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type orderRequest struct {
	Items               []orderItemRequest `json:"items"`
	ShippingAddress     string             `json:"shipping_address"`
	PaymentMethod       string             `json:"payment_method"`
	DiscountPointsToUse int                `json:"discount_points_to_use"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "Le panier est vide")
		return
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			respondError(w, http.StatusBadRequest, "La quantité doit être supérieure à zéro")
			return
		}
	}
	req.ShippingAddress = strings.TrimSpace(req.ShippingAddress)
	if req.ShippingAddress == "" {
		respondError(w, http.StatusBadRequest, "L'adresse de livraison est requise")
		return
	}
	if !model.ValidPaymentMethod(req.PaymentMethod) {
		respondError(w, http.StatusBadRequest, "Moyen de paiement non supporté")
		return
	}
	if req.DiscountPointsToUse < 0 {
		respondError(w, http.StatusBadRequest, "Le nombre de points doit être positif")
		return
	}

	lines := make([]store.LineInput, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, store.LineInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	userID := auth.UserID(r.Context())
	order, err := h.orders.Create(userID, lines, req.ShippingAddress, req.PaymentMethod, req.DiscountPointsToUse)
	if err != nil {
		var notFound *store.ProductNotFoundError
		var stock *store.InsufficientStockError
		var points *store.InsufficientPointsError
		switch {
		case errors.As(err, &notFound):
			respondError(w, http.StatusNotFound, fmt.Sprintf("Produit %d non trouvé", notFound.ProductID))
		case errors.As(err, &stock):
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Stock insuffisant pour %s", stock.ProductName))
		case errors.As(err, &points):
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Points réduction insuffisants (solde: %d)", points.Available))
		default:
			h.log.Error("create order", "error", err)
			respondError(w, http.StatusInternalServerError, "Impossible de créer la commande")
		}
		return
	}

	h.hub.Publish(userID, websocket.Event{
		Type: websocket.EventOrderCreated,
		Data: map[string]any{
			"order_id": order.ID,
			"number":   order.Number,
			"total":    order.TotalPrice,
		},
	})

	h.log.Info("order created", "order_id", order.ID, "user_id", userID,
		"total", order.TotalPrice, "points_used", order.DiscountPointsUsed)
	respond(w, http.StatusCreated, "Commande enregistrée", order)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListByUser(auth.UserID(r.Context()))
	if err != nil {
		h.log.Error("list orders", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}
	respondData(w, http.StatusOK, orders)
}

// Get returns one order; customers only see their own, admins see all.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadOrder(w, r)
	if !ok {
		return
	}
	respondData(w, http.StatusOK, order)
}

// Pay marks the order as paid and moves it to processing. Actual payment
// capture happens outside this service.
func (h *OrderHandler) Pay(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadOrder(w, r)
	if !ok {
		return
	}
	if order.IsPaid {
		respondError(w, http.StatusConflict, "Commande déjà payée")
		return
	}

	paid, err := h.orders.MarkPaid(order.ID)
	if err != nil {
		h.log.Error("mark order paid", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}
	respond(w, http.StatusOK, "Paiement confirmé", paid)
}

type statusRequest struct {
	Status model.OrderStatus `json:"status"`
}

// UpdateStatus changes fulfillment status. Admin only (enforced at the
// route). Cancellation does not refund redeemed points.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Identifiant invalide")
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if !req.Status.Valid() {
		respondError(w, http.StatusBadRequest, "Statut de commande inconnu")
		return
	}

	existing, err := h.orders.GetByID(id)
	if err != nil {
		h.log.Error("get order", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "Commande non trouvée")
		return
	}

	order, err := h.orders.UpdateStatus(id, req.Status)
	if err != nil {
		h.log.Error("update order status", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}
	respond(w, http.StatusOK, "Statut mis à jour", order)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadOrder(w, r)
	if !ok {
		return
	}

	if err := h.orders.Delete(order.ID); err != nil {
		h.log.Error("delete order", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}
	respond(w, http.StatusOK, "Commande supprimée", nil)
}

// DiscountPoints previews the wallet: current balance and the maximum
// discount it can buy at the 1 point = 1€ rate.
func (h *OrderHandler) DiscountPoints(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.profiles.Wallet(auth.UserID(r.Context()))
	if err != nil {
		h.log.Error("get wallet", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}
	if wallet == nil {
		respondError(w, http.StatusNotFound, "Profil non trouvé")
		return
	}
	respondData(w, http.StatusOK, map[string]any{
		"discount_points":   wallet.DiscountPoints,
		"gift_points":       wallet.GiftPoints,
		"max_discount_euro": wallet.DiscountPoints,
	})
}

// loadOrder fetches the order in the path and enforces ownership.
func (h *OrderHandler) loadOrder(w http.ResponseWriter, r *http.Request) (*model.Order, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Identifiant invalide")
		return nil, false
	}

	order, err := h.orders.GetByID(id)
	if err != nil {
		h.log.Error("get order", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return nil, false
	}
	if order == nil {
		respondError(w, http.StatusNotFound, "Commande non trouvée")
		return nil, false
	}
	if order.UserID != auth.UserID(r.Context()) && !auth.IsAdmin(r.Context()) {
		respondError(w, http.StatusForbidden, "Accès non autorisé")
		return nil, false
	}
	return order, true
}
