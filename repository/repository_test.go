package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/appdotbuilder/food-nutri-analyzer-ab6b/database"
	"github.com/appdotbuilder/food-nutri-analyzer-ab6b/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))
	return db
}

func TestUserRepositoryCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)

	user := &models.User{Name: "Test User", Email: "test@example.com", IsActive: true}
	require.NoError(t, repo.Create(user))
	assert.NotZero(t, user.ID)

	found, err := repo.GetByEmail("test@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.True(t, found.IsActive)

	_, err = repo.GetByEmail("nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepositoryEnforcesUniqueEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)

	require.NoError(t, repo.Create(&models.User{Name: "First", Email: "dup@example.com", IsActive: true}))
	err := repo.Create(&models.User{Name: "Second", Email: "dup@example.com", IsActive: true})
	assert.Error(t, err)
}

func TestFoodImageRepositoryListByUserOrderingAndLimit(t *testing.T) {
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	images := NewGormFoodImageRepository(db)

	user := &models.User{Name: "Collector", Email: "collector@example.com", IsActive: true}
	require.NoError(t, users.Create(user))

	for i := 0; i < 3; i++ {
		img := &models.FoodImage{
			UserID:           user.ID,
			Filename:         fmt.Sprintf("gen-%d.jpg", i),
			OriginalFilename: fmt.Sprintf("food_%d.jpg", i),
			FilePath:         fmt.Sprintf("/tmp/gen-%d.jpg", i),
			FileSize:         100,
			Width:            50,
			Height:           50,
			MimeType:         "image/jpeg",
			SourceType:       models.SourceTypeUpload,
		}
		require.NoError(t, images.Create(img))
	}

	all, err := images.ListByUser(user.ID, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// newest first
	assert.Equal(t, "food_2.jpg", all[0].OriginalFilename)
	assert.Equal(t, "food_0.jpg", all[2].OriginalFilename)

	limited, err := images.ListByUser(user.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestAllergenRepositoryGetOrCreate(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormAllergenRepository(db)

	first, err := repo.GetOrCreate("gluten")
	require.NoError(t, err)
	assert.Equal(t, "gluten", first.Name)
	assert.Equal(t, "moderate", first.SeverityLevel)
	assert.Equal(t, "Common allergen: gluten", first.Description)

	second, err := repo.GetOrCreate("gluten")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Allergen{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAnalysisRepositoryFinalizeWithDetections(t *testing.T) {
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	images := NewGormFoodImageRepository(db)
	analyses := NewGormAnalysisRepository(db)
	allergens := NewGormAllergenRepository(db)

	user := &models.User{Name: "U", Email: "u@example.com", IsActive: true}
	require.NoError(t, users.Create(user))
	img := &models.FoodImage{
		UserID: user.ID, Filename: "a.jpg", OriginalFilename: "a.jpg",
		FilePath: "/tmp/a.jpg", FileSize: 1, Width: 1, Height: 1,
		MimeType: "image/jpeg", SourceType: models.SourceTypeUpload,
	}
	require.NoError(t, images.Create(img))

	analysis := &models.NutritionalAnalysis{
		FoodImageID: img.ID,
		Status:      models.AnalysisProcessing,
		AIModelUsed: "dbrx-instruct",
	}
	require.NoError(t, analyses.Create(analysis))

	allergen, err := allergens.GetOrCreate("dairy")
	require.NoError(t, err)

	detectedIn := "cheese"
	analysis.Status = models.AnalysisCompleted
	err = analyses.FinalizeWithDetections(analysis, []models.AllergenDetection{
		{AllergenID: allergen.ID, ConfidenceScore: 0.8, DetectedIn: &detectedIn},
	})
	require.NoError(t, err)

	detections, err := analyses.ListDetections(analysis.ID)
	require.NoError(t, err)
	require.Len(t, detections, 1)
	assert.Equal(t, analysis.ID, detections[0].NutritionalAnalysisID)
	assert.Equal(t, "dairy", detections[0].Allergen.Name)
	assert.Equal(t, 0.8, detections[0].ConfidenceScore)

	reloaded, err := analyses.GetByID(analysis.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AnalysisCompleted, reloaded.Status)
}

func TestAnalysisRepositoryListRecent(t *testing.T) {
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	images := NewGormFoodImageRepository(db)
	analyses := NewGormAnalysisRepository(db)

	user := &models.User{Name: "U", Email: "u@example.com", IsActive: true}
	require.NoError(t, users.Create(user))
	img := &models.FoodImage{
		UserID: user.ID, Filename: "a.jpg", OriginalFilename: "a.jpg",
		FilePath: "/tmp/a.jpg", FileSize: 1, Width: 1, Height: 1,
		MimeType: "image/jpeg", SourceType: models.SourceTypeUpload,
	}
	require.NoError(t, images.Create(img))

	for i := 0; i < 5; i++ {
		require.NoError(t, analyses.Create(&models.NutritionalAnalysis{
			FoodImageID: img.ID,
			Status:      models.AnalysisProcessing,
			AIModelUsed: "dbrx-instruct",
		}))
	}

	recent, err := analyses.ListRecent(3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Greater(t, recent[0].ID, recent[1].ID)
	assert.Greater(t, recent[1].ID, recent[2].ID)
}
