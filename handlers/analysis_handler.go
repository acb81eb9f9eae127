package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/appdotbuilder/food-nutri-analyzer-ab6b/models"
	"github.com/appdotbuilder/food-nutri-analyzer-ab6b/services"
	"github.com/go-chi/chi/v5"
)

type AnalysisHandler struct {
	Nutrition *services.NutritionService
}

// AnalyzeImage runs the analysis pipeline synchronously; the response is
// the finalized record, COMPLETED or FAILED. A missing image is a 404 and
// creates no record.
func (ah *AnalysisHandler) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "image_id")
	imageID, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid image ID format")
		return
	}

	analysis, err := ah.Nutrition.AnalyzeFoodImage(r.Context(), uint(imageID))
	if err != nil {
		log.Printf("Error analyzing image %d: %v", imageID, err)
		writeError(w, http.StatusInternalServerError, "Failed to analyze image")
		return
	}
	if analysis == nil {
		writeError(w, http.StatusNotFound, "Food image not found")
		return
	}
	writeJSON(w, http.StatusCreated, analysis)
}

func (ah *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "analysis_id")
	analysisID, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid analysis ID format")
		return
	}

	result, err := ah.Nutrition.GetAnalysisWithAllergens(uint(analysisID))
	if err != nil {
		log.Printf("Error fetching analysis %d: %v", analysisID, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch analysis")
		return
	}
	if result == nil {
		writeError(w, http.StatusNotFound, "Analysis not found")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (ah *AnalysisHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
	}

	analyses, err := ah.Nutrition.GetRecentAnalyses(limit)
	if err != nil {
		log.Printf("Error listing recent analyses: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list analyses")
		return
	}
	if analyses == nil {
		analyses = []models.NutritionalAnalysis{}
	}
	writeJSON(w, http.StatusOK, analyses)
}
