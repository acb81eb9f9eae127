package models

import "time"

// AnalysisStatus tracks the lifecycle of a nutritional analysis. Records
// start PENDING, move to PROCESSING, and finish as either COMPLETED or
// FAILED; terminal states are never re-entered.
type AnalysisStatus string

const (
	AnalysisPending    AnalysisStatus = "PENDING"
	AnalysisProcessing AnalysisStatus = "PROCESSING"
	AnalysisCompleted  AnalysisStatus = "COMPLETED"
	AnalysisFailed     AnalysisStatus = "FAILED"
)

// NutritionalAnalysis is one attempt to extract nutrition and allergen
// data from a single stored food image. Macro fields are per 100g of the
// food; nil means the model did not report a value.
type NutritionalAnalysis struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	FoodImageID uint           `json:"food_image_id" gorm:"index;not null"`
	Status      AnalysisStatus `json:"status" gorm:"not null;default:PENDING"`
	AIModelUsed string         `json:"ai_model_used" gorm:"not null"`

	FoodItems       []string `json:"food_items" gorm:"serializer:json"`
	ConfidenceScore *float64 `json:"confidence_score,omitempty"`

	Calories       *float64 `json:"calories,omitempty"` // kcal per 100g
	ProteinG       *float64 `json:"protein_g,omitempty"`
	CarbohydratesG *float64 `json:"carbohydrates_g,omitempty"`
	TotalFatG      *float64 `json:"total_fat_g,omitempty"`
	SaturatedFatG  *float64 `json:"saturated_fat_g,omitempty"`
	FiberG         *float64 `json:"fiber_g,omitempty"`
	SugarG         *float64 `json:"sugar_g,omitempty"`
	SodiumMg       *float64 `json:"sodium_mg,omitempty"`

	EstimatedPortionG *float64 `json:"estimated_portion_g,omitempty"`
	TotalCalories     *float64 `json:"total_calories,omitempty"` // calories * portion / 100

	Vitamins map[string]float64 `json:"vitamins" gorm:"serializer:json"`
	Minerals map[string]float64 `json:"minerals" gorm:"serializer:json"`

	ProcessingTimeMs *int64  `json:"processing_time_ms,omitempty"`
	ErrorMessage     *string `json:"error_message,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	FoodImage FoodImage `json:"-" gorm:"foreignKey:FoodImageID"`
}

func (NutritionalAnalysis) TableName() string {
	return "nutritional_analyses"
}
