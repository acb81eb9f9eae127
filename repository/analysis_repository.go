package repository

import (
	"github.com/appdotbuilder/food-nutri-analyzer-ab6b/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormAnalysisRepository struct {
	db *gorm.DB
}

func NewGormAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &GormAnalysisRepository{db: db}
}

// Create inserts the analysis immediately so its PROCESSING state is
// externally visible while the AI call runs.
func (r *GormAnalysisRepository) Create(analysis *models.NutritionalAnalysis) error {
	return r.db.Create(analysis).Error
}

func (r *GormAnalysisRepository) GetByID(id uint) (*models.NutritionalAnalysis, error) {
	var analysis models.NutritionalAnalysis
	if err := r.db.First(&analysis, id).Error; err != nil {
		return nil, err
	}
	return &analysis, nil
}

// FinalizeWithDetections saves the analysis outcome and its detection rows
// in one transaction, so a detection can never be observed without its
// finalized analysis.
func (r *GormAnalysisRepository) FinalizeWithDetections(analysis *models.NutritionalAnalysis, detections []models.AllergenDetection) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(analysis).Error; err != nil {
			return err
		}
		for i := range detections {
			detections[i].NutritionalAnalysisID = analysis.ID
			if err := tx.Omit(clause.Associations).Create(&detections[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListRecent returns the newest analyses first. The id tiebreak keeps the
// order stable within the same timestamp tick.
func (r *GormAnalysisRepository) ListRecent(limit int) ([]models.NutritionalAnalysis, error) {
	var analyses []models.NutritionalAnalysis
	err := r.db.Order("created_at DESC, id DESC").Limit(limit).Find(&analyses).Error
	return analyses, err
}

func (r *GormAnalysisRepository) ListDetections(analysisID uint) ([]models.AllergenDetection, error) {
	var detections []models.AllergenDetection
	err := r.db.Preload("Allergen").Where("nutritional_analysis_id = ?", analysisID).Find(&detections).Error
	return detections, err
}
