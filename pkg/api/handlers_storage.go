package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"tableflip.dev/rowcount/pkg/store"
)

// StorageHandler exposes a store.KV.
type StorageHandler struct {
	kv  store.KV
	log *slog.Logger
}

type setRequest struct {
	Key   string  `json:"key"`
	Value *string `json:"value"`
}

type deleteRequest struct {
	Key string `json:"key"`
}

// Health handles GET /health.
func (h *StorageHandler) Health(w http.ResponseWriter, r *http.Request) {
	if _, err := h.kv.List(r.Context(), "\x00"); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error", "message": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// List handles GET /api/storage/list?prefix=
func (h *StorageHandler) List(w http.ResponseWriter, r *http.Request) {
	keys, err := h.kv.List(r.Context(), r.URL.Query().Get("prefix"))
	if err != nil {
		h.log.Error("list keys", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"keys": keys})
}

// Get handles GET /api/storage/get?key=
func (h *StorageHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if strings.TrimSpace(key) == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}
	v, ok, err := h.kv.Get(r.Context(), key)
	if err != nil {
		h.log.Error("get key", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{"value": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"value": string(v)})
}

// Set handles POST /api/storage/set {key, value}.
func (h *StorageHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req setRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Key) == "" || req.Value == nil {
		writeError(w, http.StatusBadRequest, "key and value are required")
		return
	}
	if err := h.kv.Set(r.Context(), req.Key, []byte(*req.Value)); err != nil {
		h.log.Error("set key", "key", req.Key, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Delete handles POST /api/storage/delete {key}.
func (h *StorageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Key) == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}
	if err := h.kv.Delete(r.Context(), req.Key); err != nil {
		h.log.Error("delete key", "key", req.Key, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
