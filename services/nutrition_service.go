package services

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/appdotbuilder/food-nutri-analyzer-ab6b/ai"
	"github.com/appdotbuilder/food-nutri-analyzer-ab6b/models"
	"github.com/appdotbuilder/food-nutri-analyzer-ab6b/repository"
	"gorm.io/gorm"
)

const (
	analysisFailedMessage = "Failed to analyze image with AI"
	maxErrorMessageLen    = 1000
	defaultRecentLimit    = 10
)

// NutritionService orchestrates one analysis per stored food image: create
// a PROCESSING record, call the AI analyzer, map the result onto nutrition
// fields and allergen detections, then finalize the record. Once the
// PROCESSING record exists, failures are recorded on it instead of being
// propagated.
type NutritionService struct {
	analyzer  *ai.Analyzer
	images    repository.FoodImageRepository
	analyses  repository.AnalysisRepository
	allergens repository.AllergenRepository
}

func NewNutritionService(analyzer *ai.Analyzer, images repository.FoodImageRepository, analyses repository.AnalysisRepository, allergens repository.AllergenRepository) *NutritionService {
	return &NutritionService{analyzer: analyzer, images: images, analyses: analyses, allergens: allergens}
}

// AnalyzeFoodImage runs the full pipeline for one image. It returns nil
// without creating any record when the image does not exist.
func (s *NutritionService) AnalyzeFoodImage(ctx context.Context, foodImageID uint) (*models.NutritionalAnalysis, error) {
	image, err := s.images.GetByID(foodImageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	analysis := &models.NutritionalAnalysis{
		FoodImageID: foodImageID,
		Status:      models.AnalysisProcessing,
		AIModelUsed: s.analyzer.Model(),
	}
	if err := s.analyses.Create(analysis); err != nil {
		return nil, err
	}

	start := time.Now()
	result, detections, procErr := s.runAnalysis(ctx, image)
	elapsed := time.Since(start).Milliseconds()
	analysis.ProcessingTimeMs = &elapsed

	switch {
	case procErr != nil:
		msg := truncate(procErr.Error(), maxErrorMessageLen)
		analysis.Status = models.AnalysisFailed
		analysis.ErrorMessage = &msg
		detections = nil
		log.Printf("services: analysis %d failed: %v", analysis.ID, procErr)
	case result == nil:
		msg := analysisFailedMessage
		analysis.Status = models.AnalysisFailed
		analysis.ErrorMessage = &msg
	default:
		applyResult(analysis, result)
		analysis.Status = models.AnalysisCompleted
	}

	if err := s.analyses.FinalizeWithDetections(analysis, detections); err != nil {
		// last resort: record the persistence fault on the analysis itself
		msg := truncate(err.Error(), maxErrorMessageLen)
		analysis.Status = models.AnalysisFailed
		analysis.ErrorMessage = &msg
		if saveErr := s.analyses.FinalizeWithDetections(analysis, nil); saveErr != nil {
			return nil, saveErr
		}
	}
	return analysis, nil
}

// runAnalysis reads the image from disk, calls the AI analyzer, and
// prepares the detection rows. A nil result with nil error means the
// provider produced nothing usable (unreadable file included), which the
// caller turns into the fixed failure message.
func (s *NutritionService) runAnalysis(ctx context.Context, image *models.FoodImage) (map[string]interface{}, []models.AllergenDetection, error) {
	data, err := os.ReadFile(image.FilePath)
	if err != nil {
		log.Printf("services: failed to read image file %s: %v", image.FilePath, err)
		return nil, nil, nil
	}

	result := s.analyzer.Analyze(ctx, data)
	if result == nil {
		return nil, nil, nil
	}

	detections, err := s.buildDetections(result)
	if err != nil {
		return nil, nil, err
	}
	return result, detections, nil
}

// buildDetections upserts an allergen row for every reported allergen and
// prepares one detection per entry. Names are matched after trimming and
// lowercasing; entries with empty names are skipped.
func (s *NutritionService) buildDetections(result map[string]interface{}) ([]models.AllergenDetection, error) {
	raw, ok := result["allergens"].([]interface{})
	if !ok {
		return nil, nil
	}

	var detections []models.AllergenDetection
	for _, entry := range raw {
		item, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(stringField(item, "name")))
		if name == "" {
			continue
		}

		allergen, err := s.allergens.GetOrCreate(name)
		if err != nil {
			return nil, err
		}

		confidence := 0.5
		if v, ok := numberField(item, "confidence"); ok {
			confidence = v
		}
		detection := models.AllergenDetection{
			AllergenID:      allergen.ID,
			ConfidenceScore: confidence,
		}
		if in := stringField(item, "detected_in"); in != "" {
			detection.DetectedIn = &in
		}
		detections = append(detections, detection)
	}
	return detections, nil
}

// applyResult maps the untyped AI document onto the analysis record.
// Missing or falsy numeric fields stay nil rather than zero: the upstream
// format does not distinguish a reported 0 from "not reported".
func applyResult(analysis *models.NutritionalAnalysis, result map[string]interface{}) {
	analysis.FoodItems = stringSliceField(result, "food_items")

	confidence, _ := numberField(result, "confidence_score")
	analysis.ConfidenceScore = &confidence

	nutrition, _ := result["nutritional_info"].(map[string]interface{})
	analysis.Calories = optionalNumber(nutrition, "calories")
	analysis.ProteinG = optionalNumber(nutrition, "protein_g")
	analysis.CarbohydratesG = optionalNumber(nutrition, "carbohydrates_g")
	analysis.TotalFatG = optionalNumber(nutrition, "total_fat_g")
	analysis.SaturatedFatG = optionalNumber(nutrition, "saturated_fat_g")
	analysis.FiberG = optionalNumber(nutrition, "fiber_g")
	analysis.SugarG = optionalNumber(nutrition, "sugar_g")
	analysis.SodiumMg = optionalNumber(nutrition, "sodium_mg")

	if portion := optionalNumber(result, "estimated_portion_g"); portion != nil && analysis.Calories != nil {
		analysis.EstimatedPortionG = portion
		total := *analysis.Calories * *portion / 100
		analysis.TotalCalories = &total
	}

	analysis.Vitamins = numberMapField(result, "vitamins")
	analysis.Minerals = numberMapField(result, "minerals")
}

// AnalysisWithAllergens pairs an analysis with its detection rows, each
// annotated with its allergen record.
type AnalysisWithAllergens struct {
	Analysis   *models.NutritionalAnalysis `json:"analysis"`
	Detections []models.AllergenDetection  `json:"detections"`
}

// GetAnalysisWithAllergens returns nil when the analysis does not exist.
func (s *NutritionService) GetAnalysisWithAllergens(analysisID uint) (*AnalysisWithAllergens, error) {
	analysis, err := s.analyses.GetByID(analysisID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	detections, err := s.analyses.ListDetections(analysisID)
	if err != nil {
		return nil, err
	}
	return &AnalysisWithAllergens{Analysis: analysis, Detections: detections}, nil
}

// GetRecentAnalyses returns the newest analyses first.
func (s *NutritionService) GetRecentAnalyses(limit int) ([]models.NutritionalAnalysis, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.analyses.ListRecent(limit)
}

// optionalNumber returns nil for missing, non-numeric, or zero values,
// keeping the upstream falsy-means-absent convention.
func optionalNumber(doc map[string]interface{}, key string) *float64 {
	if doc == nil {
		return nil
	}
	v, ok := doc[key].(float64)
	if !ok || v == 0 {
		return nil
	}
	return &v
}

func numberField(doc map[string]interface{}, key string) (float64, bool) {
	if doc == nil {
		return 0, false
	}
	v, ok := doc[key].(float64)
	return v, ok
}

func stringField(doc map[string]interface{}, key string) string {
	v, _ := doc[key].(string)
	return v
}

func stringSliceField(doc map[string]interface{}, key string) []string {
	raw, ok := doc[key].([]interface{})
	if !ok {
		return []string{}
	}
	items := make([]string, 0, len(raw))
	for _, entry := range raw {
		if s, ok := entry.(string); ok {
			items = append(items, s)
		}
	}
	return items
}

func numberMapField(doc map[string]interface{}, key string) map[string]float64 {
	raw, ok := doc[key].(map[string]interface{})
	if !ok {
		return map[string]float64{}
	}
	values := make(map[string]float64, len(raw))
	for k, v := range raw {
		if n, ok := v.(float64); ok {
			values[k] = n
		}
	}
	return values
}

// truncate caps s at max characters. Counting runes rather than bytes
// keeps the result valid UTF-8 when the cut lands inside a multi-byte rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
