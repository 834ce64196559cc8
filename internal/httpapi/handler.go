package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/santalucia-health/hospital-admin-service/internal/auth"
	"github.com/santalucia-health/hospital-admin-service/internal/model"
	"github.com/santalucia-health/hospital-admin-service/internal/pagination"
	"github.com/santalucia-health/hospital-admin-service/internal/service"
	"github.com/santalucia-health/hospital-admin-service/internal/store"
)

// Handler exposes one entity service over HTTP. The same handler shape serves
// every kind; per-kind variation lives in the service descriptor and in the
// filter fields the route accepts as query parameters.
type Handler[T model.Record, P any] struct {
	svc          *service.Service[T, P]
	filterFields []string
}

func NewHandler[T model.Record, P any](svc *service.Service[T, P], filterFields ...string) *Handler[T, P] {
	return &Handler[T, P]{svc: svc, filterFields: filterFields}
}

// actorID returns the authenticated user id, or "" on unauthenticated paths.
func actorID(r *http.Request) string {
	if pr, ok := auth.FromContext(r.Context()); ok {
		return pr.UserID
	}
	return ""
}

func (h *Handler[T, P]) Create(w http.ResponseWriter, r *http.Request) {
	rec := h.svc.NewRecord()
	if err := json.NewDecoder(r.Body).Decode(rec); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	created, err := h.svc.Create(r.Context(), rec, actorID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, SuccessResponse{
		Success: true,
		Message: string(h.svc.Kind()) + " created successfully",
		Record:  created,
	})
}

func (h *Handler[T, P]) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r)
	opts := service.ListOptions{
		Status:          model.Status(r.URL.Query().Get("status")),
		IncludeInactive: r.URL.Query().Get("includeInactive") == "true",
		Page:            params,
	}
	for _, field := range h.filterFields {
		if v := r.URL.Query().Get(field); v != "" {
			opts.Filters = append(opts.Filters, store.Filter{Field: field, Value: v})
		}
	}

	recs, total, err := h.svc.List(r.Context(), opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if recs == nil {
		recs = []T{}
	}

	respondJSON(w, http.StatusOK, ListResponse{
		Success:    true,
		Records:    recs,
		Pagination: params.CalculateMeta(total),
	})
}

func (h *Handler[T, P]) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "Record ID is required")
		return
	}

	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Record: rec})
}

func (h *Handler[T, P]) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "Record ID is required")
		return
	}

	var patch P
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	rec, err := h.svc.Update(r.Context(), id, actorID(r), patch)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Message: string(h.svc.Kind()) + " updated successfully",
		Record:  rec,
	})
}

type transitionRequest struct {
	Action string `json:"action"`
}

func (h *Handler[T, P]) Transition(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}
	if req.Action == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "Transition action is required")
		return
	}

	rec, err := h.svc.Transition(r.Context(), id, model.Action(req.Action), actorID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Message: string(h.svc.Kind()) + " transitioned successfully",
		Record:  rec,
	})
}

func (h *Handler[T, P]) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, err := h.svc.Deactivate(r.Context(), id, actorID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Message: string(h.svc.Kind()) + " deactivated successfully",
		Record:  rec,
	})
}

func (h *Handler[T, P]) Reactivate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, err := h.svc.Reactivate(r.Context(), id, actorID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Message: string(h.svc.Kind()) + " reactivated successfully",
		Record:  rec,
	})
}

func (h *Handler[T, P]) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.svc.PermanentlyDelete(r.Context(), id, actorID(r)); err != nil {
		respondServiceError(w, err)
		return
	}

	// Return 204 No Content on successful deletion
	w.WriteHeader(http.StatusNoContent)
}
