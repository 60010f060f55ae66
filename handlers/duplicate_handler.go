package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/scouting-system/duplicates"
	"github.com/Dosada05/scouting-system/services"
)

type DuplicateHandler struct {
	duplicateService services.DuplicateService
}

func NewDuplicateHandler(s services.DuplicateService) *DuplicateHandler {
	return &DuplicateHandler{duplicateService: s}
}

func groupKeyParam(r *http.Request) (string, error) {
	key, err := url.PathUnescape(chi.URLParam(r, "groupKey"))
	if err != nil || key == "" {
		return "", errors.New("invalid group key in URL path")
	}
	return key, nil
}

func (h *DuplicateHandler) List(w http.ResponseWriter, r *http.Request) {
	adminID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	q := services.DuplicateQuery{
		Search:          r.URL.Query().Get("q"),
		UnresolvedOnly:  queryBool(r, "unresolved"),
		IncludeArchived: queryBool(r, "include_archived"),
	}

	overview, err := h.duplicateService.ListGroups(r.Context(), adminID, q)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, overview, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// groupAction разбирает id администратора и ключ группы, общие для всех операций над группой.
func (h *DuplicateHandler) groupAction(w http.ResponseWriter, r *http.Request, fn func(adminID, key string) (interface{}, int, error)) {
	adminID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	key, err := groupKeyParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	res, status, err := fn(adminID, key)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, status, res, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type selectKeeperInput struct {
	PlayerID int64 `json:"player_id"`
}

func (h *DuplicateHandler) SelectKeeper(w http.ResponseWriter, r *http.Request) {
	var input selectKeeperInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.PlayerID <= 0 {
		badRequestResponse(w, r, errors.New("player_id is required"))
		return
	}
	h.groupAction(w, r, func(adminID, key string) (interface{}, int, error) {
		view, err := h.duplicateService.SelectKeeper(r.Context(), adminID, key, input.PlayerID)
		return view, http.StatusOK, err
	})
}

func (h *DuplicateHandler) ClearKeeper(w http.ResponseWriter, r *http.Request) {
	h.groupAction(w, r, func(adminID, key string) (interface{}, int, error) {
		view, err := h.duplicateService.ClearKeeper(r.Context(), adminID, key)
		return view, http.StatusOK, err
	})
}

func (h *DuplicateHandler) ToggleDuplicate(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.groupAction(w, r, func(adminID, key string) (interface{}, int, error) {
		view, err := h.duplicateService.ToggleDuplicate(r.Context(), adminID, key, playerID)
		return view, http.StatusOK, err
	})
}

func (h *DuplicateHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var patch duplicates.FieldsPatch
	if err := readJSON(w, r, &patch); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.groupAction(w, r, func(adminID, key string) (interface{}, int, error) {
		view, err := h.duplicateService.UpdateDraft(r.Context(), adminID, key, patch)
		return view, http.StatusOK, err
	})
}

func (h *DuplicateHandler) Merge(w http.ResponseWriter, r *http.Request) {
	h.groupAction(w, r, func(adminID, key string) (interface{}, int, error) {
		res, err := h.duplicateService.Merge(r.Context(), adminID, key)
		return res, http.StatusOK, err
	})
}

type linkInput struct {
	GlobalID int64 `json:"global_id"`
}

func (h *DuplicateHandler) Link(w http.ResponseWriter, r *http.Request) {
	var input linkInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.groupAction(w, r, func(adminID, key string) (interface{}, int, error) {
		res, err := h.duplicateService.Link(r.Context(), adminID, key, input.GlobalID)
		return res, http.StatusOK, err
	})
}

func (h *DuplicateHandler) Mark(w http.ResponseWriter, r *http.Request) {
	h.groupAction(w, r, func(adminID, key string) (interface{}, int, error) {
		res, err := h.duplicateService.Mark(r.Context(), adminID, key)
		return res, http.StatusOK, err
	})
}

func (h *DuplicateHandler) Repair(w http.ResponseWriter, r *http.Request) {
	h.groupAction(w, r, func(adminID, key string) (interface{}, int, error) {
		res, err := h.duplicateService.Repair(r.Context(), adminID, key)
		return res, http.StatusOK, err
	})
}

func (h *DuplicateHandler) Drift(w http.ResponseWriter, r *http.Request) {
	drift, err := h.duplicateService.Drift(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"drift": drift}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
