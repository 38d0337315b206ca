package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/team-mid/arcms-api/internal/models"
)

// EmployeeStatus selects which slice of the lifecycle a list query covers.
type EmployeeStatus string

const (
	// EmployeeStatusActive lists approved, non-archived employees.
	EmployeeStatusActive EmployeeStatus = "active"
	// EmployeeStatusPending lists signups awaiting admin approval.
	EmployeeStatusPending EmployeeStatus = "pending"
	// EmployeeStatusArchived lists approved employees with isActive=false.
	EmployeeStatusArchived EmployeeStatus = "archived"
)

// EmployeeFilter narrows employee list queries.
type EmployeeFilter struct {
	Status   EmployeeStatus
	Search   string
	Sort     string
	Page     int
	PageSize int
}

// EmployeeRepository provides access to employee records.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByID(ctx context.Context, id uint) (models.Employee, error)
	GetByEmail(ctx context.Context, email string) (models.Employee, error)
	GetByEmployeeNumber(ctx context.Context, number string) (models.Employee, error)
	GetByResetTokenHash(ctx context.Context, hash string) (models.Employee, error)
	GetByVerificationTokenHash(ctx context.Context, hash string) (models.Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]models.Employee, int64, error)
	ListPending(ctx context.Context) ([]models.Employee, error)
	UpdateFields(ctx context.Context, id uint, updates map[string]interface{}) (models.Employee, error)
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository constructs an employee repository.
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *employeeRepository) GetByID(ctx context.Context, id uint) (models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).First(&employee, "employee_id = ?", id).Error; err != nil {
		return models.Employee{}, err
	}

	return employee, nil
}

func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).First(&employee, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		return models.Employee{}, err
	}

	return employee, nil
}

func (r *employeeRepository) GetByEmployeeNumber(ctx context.Context, number string) (models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).First(&employee, "employee_number = ?", number).Error; err != nil {
		return models.Employee{}, err
	}

	return employee, nil
}

func (r *employeeRepository) GetByResetTokenHash(ctx context.Context, hash string) (models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).First(&employee, "password_reset_token = ?", hash).Error; err != nil {
		return models.Employee{}, err
	}

	return employee, nil
}

func (r *employeeRepository) GetByVerificationTokenHash(ctx context.Context, hash string) (models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).First(&employee, "account_verification_token = ?", hash).Error; err != nil {
		return models.Employee{}, err
	}

	return employee, nil
}

func (r *employeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]models.Employee, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Employee{})

	switch filter.Status {
	case EmployeeStatusPending:
		query = query.Where(`"isApproved" = ?`, false)
	case EmployeeStatusArchived:
		query = query.Where(`"isApproved" = ? AND "isActive" = ?`, true, false)
	default:
		query = query.Where(`"isApproved" = ? AND "isActive" = ?`, true, true)
	}

	search := strings.TrimSpace(filter.Search)
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR employee_number LIKE ?",
			pattern, pattern, pattern, "%"+search+"%",
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.Sort {
	case "name":
		query = query.Order("last_name ASC, first_name ASC")
	case "oldest":
		query = query.Order("date_created ASC")
	default:
		query = query.Order("date_created DESC")
	}

	if filter.PageSize > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.PageSize
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var employees []models.Employee
	if err := query.Find(&employees).Error; err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *employeeRepository) ListPending(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.WithContext(ctx).
		Where(`"isApproved" = ?`, false).
		Order("date_created ASC").
		Find(&employees).Error
	if err != nil {
		return nil, err
	}

	return employees, nil
}

// UpdateFields applies a single-statement column update and returns the fresh
// row. Multi-step read-diff-write sequences built on top of this are not
// transactional; concurrent edits to the same employee rely on row-level
// atomicity of the individual statement.
func (r *employeeRepository) UpdateFields(ctx context.Context, id uint, updates map[string]interface{}) (models.Employee, error) {
	result := r.db.WithContext(ctx).Model(&models.Employee{}).Where("employee_id = ?", id).Updates(updates)
	if result.Error != nil {
		return models.Employee{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Employee{}, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, id)
}
