package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/eclatbeaute/eclat/internal/auth"
	"github.com/eclatbeaute/eclat/internal/push"
	"github.com/eclatbeaute/eclat/internal/store"
)

type PushHandler struct {
	subs   *store.PushStore
	sender *push.Sender
	log    *slog.Logger
}

func NewPushHandler(subs *store.PushStore, sender *push.Sender, log *slog.Logger) *PushHandler {
	return &PushHandler{subs: subs, sender: sender, log: log.With("component", "push")}
}

type subscriptionRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	req.Endpoint = strings.TrimSpace(req.Endpoint)
	if req.Endpoint == "" || req.Keys.P256dh == "" || req.Keys.Auth == "" {
		respondError(w, http.StatusBadRequest, "Abonnement incomplet")
		return
	}

	userID := auth.UserID(r.Context())
	if err := h.subs.Subscribe(userID, req.Endpoint, req.Keys.P256dh, req.Keys.Auth); err != nil {
		h.log.Error("subscribe", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}
	respond(w, http.StatusCreated, "Notifications activées", nil)
}

func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Identifiant invalide")
		return
	}

	deleted, err := h.subs.DeleteByID(auth.UserID(r.Context()), id)
	if err != nil {
		h.log.Error("unsubscribe", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Abonnement non trouvé")
		return
	}
	respond(w, http.StatusOK, "Notifications désactivées", nil)
}

func (h *PushHandler) VAPIDKey(w http.ResponseWriter, r *http.Request) {
	if !h.sender.Configured() {
		respondError(w, http.StatusNotFound, "Les notifications push ne sont pas configurées")
		return
	}
	respondData(w, http.StatusOK, map[string]string{"public_key": h.sender.VAPIDPublicKey()})
}
