package repository

import "github.com/appdotbuilder/food-nutri-analyzer-ab6b/models"

// UserRepository defines the methods for user data operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
}

// FoodImageRepository defines the methods for food image data operations
type FoodImageRepository interface {
	Create(image *models.FoodImage) error
	GetByID(id uint) (*models.FoodImage, error)
	ListByUser(userID uint, limit int) ([]models.FoodImage, error)
	Delete(id uint) error
}

// AnalysisRepository defines the methods for nutritional analysis data
// operations. FinalizeWithDetections persists the analysis outcome and its
// detection rows in a single transaction.
type AnalysisRepository interface {
	Create(analysis *models.NutritionalAnalysis) error
	GetByID(id uint) (*models.NutritionalAnalysis, error)
	FinalizeWithDetections(analysis *models.NutritionalAnalysis, detections []models.AllergenDetection) error
	ListRecent(limit int) ([]models.NutritionalAnalysis, error)
	ListDetections(analysisID uint) ([]models.AllergenDetection, error)
}

// AllergenRepository defines the methods for allergen data operations
type AllergenRepository interface {
	GetOrCreate(name string) (*models.Allergen, error)
}
