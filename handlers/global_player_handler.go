package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Dosada05/scouting-system/models"
	"github.com/Dosada05/scouting-system/services"
)

const (
	maxPhotoUploadBytes = 6 << 20
	xlsxContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type GlobalPlayerHandler struct {
	globalPlayerService services.GlobalPlayerService
}

func NewGlobalPlayerHandler(s services.GlobalPlayerService) *GlobalPlayerHandler {
	return &GlobalPlayerHandler{globalPlayerService: s}
}

func catalogFilter(r *http.Request) models.GlobalPlayerFilter {
	q := r.URL.Query()
	return models.GlobalPlayerFilter{Search: q.Get("q"), Origin: q.Get("source")}
}

func (h *GlobalPlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.globalPlayerService.List(r.Context(), catalogFilter(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, list, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GlobalPlayerHandler) Export(w http.ResponseWriter, r *http.Request) {
	// Файл собирается целиком до ответа, чтобы ошибка не оборвала уже начатую выгрузку.
	var buf bytes.Buffer
	if err := h.globalPlayerService.Export(r.Context(), catalogFilter(r), &buf); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	filename := fmt.Sprintf("global-players-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *GlobalPlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "globalID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	details, err := h.globalPlayerService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, details, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type noteInput struct {
	Note string `json:"admin_note"`
}

func (h *GlobalPlayerHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "globalID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input noteInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.globalPlayerService.UpdateNote(r.Context(), id, input.Note); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GlobalPlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "globalID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.globalPlayerService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type deleteManyInput struct {
	IDs []int64 `json:"ids"`
}

func (h *GlobalPlayerHandler) DeleteMany(w http.ResponseWriter, r *http.Request) {
	var input deleteManyInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	n, err := h.globalPlayerService.DeleteMany(r.Context(), input.IDs)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"deleted": n}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GlobalPlayerHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "globalID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoUploadBytes)
	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		badRequestResponse(w, r, errors.New("photo must be sent as multipart form data no larger than 5MB"))
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("content type required"))
		return
	}

	gp, err := h.globalPlayerService.UploadPhoto(r.Context(), id, contentType, header.Size, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"global_player": gp}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
