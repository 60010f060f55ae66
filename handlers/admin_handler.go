package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/scouting-system/models"
	"github.com/Dosada05/scouting-system/services"
)

type AdminUserHandler struct {
	adminUserService services.AdminUserService
}

func NewAdminUserHandler(s services.AdminUserService) *AdminUserHandler {
	return &AdminUserHandler{adminUserService: s}
}

func (h *AdminUserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.UserFilter{
		Search: q.Get("search"),
		Page:   toInt(q.Get("page"), 1),
		Limit:  toInt(q.Get("limit"), 20),
	}
	if role := q.Get("role"); role != "" {
		filter.Role = &role
	}
	if active := q.Get("active"); active != "" {
		v := active == "true"
		filter.Active = &v
	}

	res, err := h.adminUserService.ListUsers(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, res, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type updateUserInput struct {
	Role   *models.UserRole `json:"role"`
	Active *bool            `json:"active"`
}

func (h *AdminUserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	userID := chi.URLParam(r, "userID")

	var input updateUserInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Role == nil && input.Active == nil {
		badRequestResponse(w, r, errors.New("role or active is required"))
		return
	}

	if input.Role != nil {
		if err := h.adminUserService.UpdateRole(r.Context(), actorID, userID, *input.Role); err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
	}
	if input.Active != nil {
		if err := h.adminUserService.SetActive(r.Context(), actorID, userID, *input.Active); err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminUserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	if err := h.adminUserService.DeleteUser(r.Context(), actorID, chi.URLParam(r, "userID")); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
