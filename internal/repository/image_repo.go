package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/team-mid/arcms-api/internal/models"
)

// ImageRepository provides access to uploaded image references.
type ImageRepository interface {
	Create(ctx context.Context, image *models.Image) error
	GetByID(ctx context.Context, id uint) (models.Image, error)
}

type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository constructs an image repository.
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(ctx context.Context, image *models.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *imageRepository) GetByID(ctx context.Context, id uint) (models.Image, error) {
	var image models.Image
	if err := r.db.WithContext(ctx).First(&image, "image_id = ?", id).Error; err != nil {
		return models.Image{}, err
	}

	return image, nil
}
