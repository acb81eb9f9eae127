package models

import "time"

// Allergen is a globally shared allergen record, created lazily the first
// time the AI reports it. Names are stored lowercase and trimmed so the
// same allergen is never duplicated across analyses.
type Allergen struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"uniqueIndex;not null"`
	Description   string    `json:"description"`
	SeverityLevel string    `json:"severity_level" gorm:"not null;default:moderate"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Allergen) TableName() string {
	return "allergens"
}

// AllergenDetection links one analysis to one allergen with the model's
// confidence and where in the food it was seen. Detections are append-only
// per analysis.
type AllergenDetection struct {
	ID                    uint      `json:"id" gorm:"primaryKey"`
	NutritionalAnalysisID uint      `json:"nutritional_analysis_id" gorm:"index;not null"`
	AllergenID            uint      `json:"allergen_id" gorm:"index;not null"`
	ConfidenceScore       float64   `json:"confidence_score"`
	DetectedIn            *string   `json:"detected_in,omitempty"`
	CreatedAt             time.Time `json:"created_at"`

	Allergen Allergen `json:"allergen" gorm:"foreignKey:AllergenID"`
}

func (AllergenDetection) TableName() string {
	return "allergen_detections"
}
