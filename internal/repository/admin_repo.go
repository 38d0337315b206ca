package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/team-mid/arcms-api/internal/models"
)

// AdminRepository provides access to admin records.
type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (models.Admin, error)
	GetByEmployeeNumber(ctx context.Context, number string) (models.Admin, error)
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository constructs an admin repository.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).First(&admin, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		return models.Admin{}, err
	}

	return admin, nil
}

func (r *adminRepository) GetByEmployeeNumber(ctx context.Context, number string) (models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).First(&admin, "employee_number = ?", number).Error; err != nil {
		return models.Admin{}, err
	}

	return admin, nil
}
