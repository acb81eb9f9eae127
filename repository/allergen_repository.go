package repository

import (
	"errors"
	"fmt"

	"github.com/appdotbuilder/food-nutri-analyzer-ab6b/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormAllergenRepository struct {
	db *gorm.DB
}

func NewGormAllergenRepository(db *gorm.DB) AllergenRepository {
	return &GormAllergenRepository{db: db}
}

// GetOrCreate returns the allergen named name, creating it with a default
// "moderate" severity when unseen. name must already be lowercased and
// trimmed; the unique index on name makes the create side race-safe.
func (r *GormAllergenRepository) GetOrCreate(name string) (*models.Allergen, error) {
	var allergen models.Allergen
	err := r.db.Where("name = ?", name).First(&allergen).Error
	if err == nil {
		return &allergen, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	allergen = models.Allergen{
		Name:          name,
		Description:   fmt.Sprintf("Common allergen: %s", name),
		SeverityLevel: "moderate",
	}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&allergen).Error; err != nil {
		return nil, err
	}
	if allergen.ID == 0 {
		// lost a concurrent insert race; fetch the winner
		if err := r.db.Where("name = ?", name).First(&allergen).Error; err != nil {
			return nil, err
		}
	}
	return &allergen, nil
}
