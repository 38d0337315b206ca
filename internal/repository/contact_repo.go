package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/team-mid/arcms-api/internal/models"
)

// ContactRepository provides access to employee contact rows.
type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository constructs a contact repository.
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *models.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}
