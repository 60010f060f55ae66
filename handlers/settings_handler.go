package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/scouting-system/services"
)

type SettingsHandler struct {
	formSettingsService services.FormSettingsService
}

func NewSettingsHandler(s services.FormSettingsService) *SettingsHandler {
	return &SettingsHandler{formSettingsService: s}
}

func (h *SettingsHandler) RequiredFields(w http.ResponseWriter, r *http.Request) {
	fields, err := h.formSettingsService.RequiredFields(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"required_fields": fields}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SettingsHandler) SaveRequiredFields(w http.ResponseWriter, r *http.Request) {
	var input map[string]bool
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	fields, err := h.formSettingsService.SaveRequiredFields(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"required_fields": fields}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SettingsHandler) ListAspects(w http.ResponseWriter, r *http.Request) {
	aspects, err := h.formSettingsService.ListAspects(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"aspects": aspects}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SettingsHandler) CreateAspect(w http.ResponseWriter, r *http.Request) {
	var input services.AspectInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	aspect, err := h.formSettingsService.CreateAspect(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"aspect": aspect}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SettingsHandler) UpdateAspect(w http.ResponseWriter, r *http.Request) {
	var input services.AspectInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	aspect, err := h.formSettingsService.UpdateAspect(r.Context(), chi.URLParam(r, "aspectID"), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"aspect": aspect}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SettingsHandler) DeleteAspect(w http.ResponseWriter, r *http.Request) {
	if err := h.formSettingsService.DeleteAspect(r.Context(), chi.URLParam(r, "aspectID")); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SettingsHandler) ListMetrics(w http.ResponseWriter, r *http.Request) {
	groups, err := h.formSettingsService.ListMetrics(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"metrics": groups}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SettingsHandler) CreateMetric(w http.ResponseWriter, r *http.Request) {
	var input services.MetricInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	metric, err := h.formSettingsService.CreateMetric(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"metric": metric}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SettingsHandler) UpdateMetric(w http.ResponseWriter, r *http.Request) {
	var input services.MetricInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	metric, err := h.formSettingsService.UpdateMetric(r.Context(), chi.URLParam(r, "metricID"), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"metric": metric}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type moveMetricInput struct {
	Direction string `json:"direction"`
}

func (h *SettingsHandler) MoveMetric(w http.ResponseWriter, r *http.Request) {
	var input moveMetricInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	groups, err := h.formSettingsService.MoveMetric(r.Context(), chi.URLParam(r, "metricID"), input.Direction)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"metrics": groups}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SettingsHandler) DeleteMetric(w http.ResponseWriter, r *http.Request) {
	if err := h.formSettingsService.DeleteMetric(r.Context(), chi.URLParam(r, "metricID")); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SettingsHandler) SeedMetrics(w http.ResponseWriter, r *http.Request) {
	added, err := h.formSettingsService.SeedDefaultMetrics(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	groups, err := h.formSettingsService.ListMetrics(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"added": added, "metrics": groups}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SettingsHandler) RankThresholds(w http.ResponseWriter, r *http.Request) {
	thresholds, err := h.formSettingsService.RankThresholds(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"thresholds": thresholds}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SettingsHandler) SaveRankThresholds(w http.ResponseWriter, r *http.Request) {
	var input map[string]int
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	thresholds, err := h.formSettingsService.SaveRankThresholds(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"thresholds": thresholds}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SettingsHandler) ApplyRankPreset(w http.ResponseWriter, r *http.Request) {
	thresholds, err := h.formSettingsService.ApplyRankPreset(r.Context(), chi.URLParam(r, "preset"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"thresholds": thresholds}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PreviewRank считает ранг для ?players=&observations= по текущим порогам.
func (h *SettingsHandler) PreviewRank(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	preview, err := h.formSettingsService.PreviewRank(r.Context(), toInt(qs.Get("players"), 0), toInt(qs.Get("observations"), 0))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"preview": preview}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
