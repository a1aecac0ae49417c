package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/eclatbeaute/eclat/internal/auth"
	"github.com/eclatbeaute/eclat/internal/loyalty"
	"github.com/eclatbeaute/eclat/internal/model"
	"github.com/eclatbeaute/eclat/internal/store"
	"github.com/eclatbeaute/eclat/internal/websocket"
)

type TaskHandler struct {
	tasks   *store.TaskStore
	loyalty *loyalty.Service
	hub     *websocket.Hub
	log     *slog.Logger
}

func NewTaskHandler(tasks *store.TaskStore, svc *loyalty.Service, hub *websocket.Hub, log *slog.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, loyalty: svc, hub: hub, log: log.With("component", "task")}
}

// List returns the user's tasks with per-status counts. Filterable with
// ?status=&type=&category=.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	q := r.URL.Query()

	filter := store.TaskFilter{
		Status:   model.TaskStatus(q.Get("status")),
		Type:     model.TaskType(q.Get("type")),
		Category: model.TaskCategory(q.Get("category")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		respondError(w, http.StatusBadRequest, "Statut inconnu")
		return
	}
	if filter.Type != "" && !filter.Type.Valid() {
		respondError(w, http.StatusBadRequest, "Type de mission inconnu")
		return
	}
	if filter.Category != "" && !filter.Category.Valid() {
		respondError(w, http.StatusBadRequest, "Catégorie inconnue")
		return
	}

	tasks, err := h.tasks.List(userID, filter)
	if err != nil {
		h.log.Error("list tasks", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	stats, err := h.tasks.Stats(userID)
	if err != nil {
		h.log.Error("task stats", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"tasks": tasks,
		"stats": stats,
	})
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Identifiant invalide")
		return
	}

	task, err := h.tasks.GetByID(id, auth.UserID(r.Context()))
	if err != nil {
		h.log.Error("get task", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}
	if task == nil {
		respondError(w, http.StatusNotFound, "Mission non trouvée")
		return
	}
	respondData(w, http.StatusOK, task)
}

// Complete flips a task to completed and pays its rewards.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Identifiant invalide")
		return
	}

	userID := auth.UserID(r.Context())
	result, err := h.loyalty.CompleteTask(userID, id, time.Now().UTC())
	if err != nil {
		h.respondLoyaltyError(w, err)
		return
	}

	h.publishResult(userID, result)
	respond(w, http.StatusOK, "Mission accomplie !", result)
}

type progressRequest struct {
	Current int `json:"current"`
}

// Progress updates the progress counter; reaching the target completes the
// task.
func (h *TaskHandler) Progress(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Identifiant invalide")
		return
	}
	var req progressRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Requête invalide")
		return
	}

	userID := auth.UserID(r.Context())
	result, err := h.loyalty.UpdateProgress(userID, id, req.Current, time.Now().UTC())
	if err != nil {
		h.respondLoyaltyError(w, err)
		return
	}

	if result.Completed {
		h.publishResult(userID, result)
		respond(w, http.StatusOK, "Mission accomplie !", result)
		return
	}
	respondData(w, http.StatusOK, result)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Identifiant invalide")
		return
	}

	deleted, err := h.tasks.Delete(id, auth.UserID(r.Context()))
	if err != nil {
		h.log.Error("delete task", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Mission non trouvée")
		return
	}
	respond(w, http.StatusOK, "Mission supprimée", nil)
}

// Clean removes the user's expired tasks and reports how many were dropped.
func (h *TaskHandler) Clean(w http.ResponseWriter, r *http.Request) {
	n, err := h.tasks.DeleteExpired(auth.UserID(r.Context()), time.Now().UTC())
	if err != nil {
		h.log.Error("clean expired tasks", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
		return
	}
	respondData(w, http.StatusOK, map[string]any{"deleted": n})
}

func (h *TaskHandler) respondLoyaltyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, loyalty.ErrTaskNotFound):
		respondError(w, http.StatusNotFound, "Mission non trouvée")
	case errors.Is(err, loyalty.ErrAlreadyCompleted):
		respondError(w, http.StatusConflict, "Mission déjà accomplie")
	case errors.Is(err, loyalty.ErrTaskExpired):
		respondError(w, http.StatusConflict, "Mission expirée")
	default:
		h.log.Error("task mutation", "error", err)
		respondError(w, http.StatusInternalServerError, "Une erreur est survenue")
	}
}

func (h *TaskHandler) publishResult(userID int64, result *loyalty.Result) {
	h.hub.Publish(userID, websocket.Event{
		Type: websocket.EventTaskCompleted,
		Data: map[string]any{
			"task_id":      result.TaskID,
			"points":       result.PointsAwarded,
			"total_points": result.TotalPoints,
		},
	})
	if result.LeveledUp {
		h.hub.Publish(userID, websocket.Event{
			Type: websocket.EventLevelUp,
			Data: map[string]any{"level": result.Level},
		})
	}
	for _, badge := range result.BadgesEarned {
		h.hub.Publish(userID, websocket.Event{
			Type: websocket.EventBadgeEarned,
			Data: map[string]any{"badge": badge},
		})
	}
}
