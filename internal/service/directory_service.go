package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/team-mid/arcms-api/internal/dto"
	"github.com/team-mid/arcms-api/internal/models"
	"github.com/team-mid/arcms-api/internal/repository"
)

// DirectoryService serves the admin employee list views. The pagination and
// search DOM scripts on the admin pages are plain consumers of these
// endpoints; all filtering happens server-side here.
type DirectoryService interface {
	List(ctx context.Context, status repository.EmployeeStatus, req dto.EmployeeListRequest) (dto.EmployeeListResponse, error)
	Get(ctx context.Context, employeeID uint) (dto.EmployeeResponse, error)
}

type directoryService struct {
	employees repository.EmployeeRepository
	images    repository.ImageRepository
	logger    zerolog.Logger
}

// NewDirectoryService constructs the directory service.
func NewDirectoryService(
	employees repository.EmployeeRepository,
	images repository.ImageRepository,
	logger zerolog.Logger,
) DirectoryService {
	return &directoryService{
		employees: employees,
		images:    images,
		logger:    logger.With().Str("component", "directory_service").Logger(),
	}
}

func (s *directoryService) List(ctx context.Context, status repository.EmployeeStatus, req dto.EmployeeListRequest) (dto.EmployeeListResponse, error) {
	employees, total, err := s.employees.List(ctx, repository.EmployeeFilter{
		Status:   status,
		Search:   req.Search,
		Sort:     req.Sort,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return dto.EmployeeListResponse{}, err
	}

	items := make([]dto.EmployeeResponse, 0, len(employees))
	for _, employee := range employees {
		item := dto.NewEmployeeResponse(employee)
		item.ImageURL = s.imageURL(ctx, employee)
		items = append(items, item)
	}

	return dto.EmployeeListResponse{
		Items:      items,
		Pagination: paginationMeta(req.Page, req.PageSize, total),
	}, nil
}

func (s *directoryService) Get(ctx context.Context, employeeID uint) (dto.EmployeeResponse, error) {
	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EmployeeResponse{}, ErrEmployeeNotFound
		}
		return dto.EmployeeResponse{}, err
	}

	response := dto.NewEmployeeResponse(employee)
	response.ImageURL = s.imageURL(ctx, employee)

	return response, nil
}

func (s *directoryService) imageURL(ctx context.Context, employee models.Employee) string {
	if employee.ImageID == nil {
		return ""
	}

	image, err := s.images.GetByID(ctx, *employee.ImageID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn().Err(err).Uint("image_id", *employee.ImageID).Msg("failed to resolve image url")
		}
		return ""
	}

	return image.ImageURL
}
