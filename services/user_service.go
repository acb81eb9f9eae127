package services

import (
	"errors"
	"log"

	"github.com/appdotbuilder/food-nutri-analyzer-ab6b/imagestore"
	"github.com/appdotbuilder/food-nutri-analyzer-ab6b/models"
	"github.com/appdotbuilder/food-nutri-analyzer-ab6b/repository"
	"gorm.io/gorm"
)

// UserService manages users and their uploaded food images. Not-found and
// ownership failures surface as nil/false results, never as errors.
type UserService struct {
	users  repository.UserRepository
	images repository.FoodImageRepository
	store  *imagestore.Store
}

func NewUserService(users repository.UserRepository, images repository.FoodImageRepository, store *imagestore.Store) *UserService {
	return &UserService{users: users, images: images, store: store}
}

func (s *UserService) CreateUser(name, email string) (*models.User, error) {
	user := &models.User{Name: name, Email: email, IsActive: true}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByEmail returns nil without error when no user has the email.
func (s *UserService) GetUserByEmail(email string) (*models.User, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// GetOrCreateUser returns the existing user for email, keeping the
// originally stored name, or creates a new one. Concurrent identical calls
// may race; the unique email index turns the loser into an error rather
// than a duplicate row.
func (s *UserService) GetOrCreateUser(email, name string) (*models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}
	return s.CreateUser(name, email)
}

// UpdateUser applies only the supplied fields. Returns nil when the user
// does not exist.
func (s *UserService) UpdateUser(id uint, update models.UserUpdate) (*models.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.IsActive != nil {
		user.IsActive = *update.IsActive
	}
	if err := s.users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateFoodImage validates and stores an upload, then persists its
// metadata. Returns nil when validation rejects the upload; nothing is
// persisted in that case. The MIME type comes from the original filename's
// extension.
func (s *UserService) CreateFoodImage(userID uint, data []byte, originalFilename string, sourceType models.ImageSourceType) (*models.FoodImage, error) {
	if !s.store.Validate(data, originalFilename) {
		return nil, nil
	}

	saved, err := s.store.Save(data, originalFilename)
	if err != nil {
		return nil, err
	}

	image := &models.FoodImage{
		UserID:           userID,
		Filename:         saved.Filename,
		OriginalFilename: originalFilename,
		FilePath:         saved.Path,
		FileSize:         saved.Size,
		Width:            saved.Width,
		Height:           saved.Height,
		MimeType:         imagestore.MimeTypeForFilename(originalFilename),
		SourceType:       sourceType,
	}
	if err := s.images.Create(image); err != nil {
		// don't leave an orphaned file behind when the row insert fails
		s.store.Delete(saved.Path)
		return nil, err
	}
	return image, nil
}

// GetUserFoodImages lists a user's images, most recent first. limit <= 0
// means no cap.
func (s *UserService) GetUserFoodImages(userID uint, limit int) ([]models.FoodImage, error) {
	return s.images.ListByUser(userID, limit)
}

// DeleteFoodImage removes an image only when it exists and belongs to
// requestingUserID; anything else returns false with no side effects. File
// removal is best-effort; the database row is always removed on an
// authorized delete.
func (s *UserService) DeleteFoodImage(imageID, requestingUserID uint) (bool, error) {
	image, err := s.images.GetByID(imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if image.UserID != requestingUserID {
		return false, nil
	}

	if !s.store.Delete(image.FilePath) {
		log.Printf("services: could not remove file %s for image %d, removing row anyway", image.FilePath, imageID)
	}
	if err := s.images.Delete(imageID); err != nil {
		return false, err
	}
	return true, nil
}
