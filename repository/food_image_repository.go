package repository

import (
	"github.com/appdotbuilder/food-nutri-analyzer-ab6b/models"
	"gorm.io/gorm"
)

type GormFoodImageRepository struct {
	db *gorm.DB
}

func NewGormFoodImageRepository(db *gorm.DB) FoodImageRepository {
	return &GormFoodImageRepository{db: db}
}

func (r *GormFoodImageRepository) Create(image *models.FoodImage) error {
	return r.db.Create(image).Error
}

func (r *GormFoodImageRepository) GetByID(id uint) (*models.FoodImage, error) {
	var image models.FoodImage
	if err := r.db.First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// ListByUser returns a user's images newest first. The id tiebreak keeps
// the order stable for images created within the same timestamp tick.
func (r *GormFoodImageRepository) ListByUser(userID uint, limit int) ([]models.FoodImage, error) {
	var images []models.FoodImage
	query := r.db.Where("user_id = ?", userID).Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&images).Error
	return images, err
}

func (r *GormFoodImageRepository) Delete(id uint) error {
	return r.db.Delete(&models.FoodImage{}, id).Error
}
