// Package handler implements the JSON API. Every response uses the same
// envelope: {"success": bool, "message": "...", "data": ...}, with
// user-facing messages in French.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respond(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Success: status < 400, Message: message, Data: data})
}

func respondData(w http.ResponseWriter, status int, data any) {
	respond(w, status, "", data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, message, nil)
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
