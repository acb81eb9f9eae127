package models

import "time"

// ImageSourceType records how an image entered the system.
type ImageSourceType string

const (
	SourceTypeUpload ImageSourceType = "upload"
	SourceTypeOther  ImageSourceType = "other"
)

// FoodImage is a stored, validated food photo exclusively owned by one
// user. Filename is generated and opaque; OriginalFilename is what the
// uploader supplied.
type FoodImage struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	UserID           uint            `json:"user_id" gorm:"index;not null"`
	Filename         string          `json:"filename" gorm:"uniqueIndex;not null"`
	OriginalFilename string          `json:"original_filename" gorm:"not null"`
	FilePath         string          `json:"file_path" gorm:"not null"`
	FileSize         int64           `json:"file_size" gorm:"not null"`
	Width            int             `json:"width" gorm:"not null"`
	Height           int             `json:"height" gorm:"not null"`
	MimeType         string          `json:"mime_type" gorm:"not null"`
	SourceType       ImageSourceType `json:"source_type" gorm:"not null;default:upload"`
	CreatedAt        time.Time       `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

func (FoodImage) TableName() string {
	return "food_images"
}
