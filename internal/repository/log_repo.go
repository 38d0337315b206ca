package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/team-mid/arcms-api/internal/models"
)

// LogFilter narrows audit log queries.
type LogFilter struct {
	Action   string
	Status   string
	Actor    string
	Page     int
	PageSize int
}

// LogRepository appends and lists audit rows. Rows are append-only.
type LogRepository interface {
	Create(ctx context.Context, log *models.Log) error
	List(ctx context.Context, filter LogFilter) ([]models.Log, int64, error)
}

type logRepository struct {
	db *gorm.DB
}

// NewLogRepository constructs a log repository.
func NewLogRepository(db *gorm.DB) LogRepository {
	return &logRepository{db: db}
}

func (r *logRepository) Create(ctx context.Context, log *models.Log) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *logRepository) List(ctx context.Context, filter LogFilter) ([]models.Log, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Log{})

	if action := strings.TrimSpace(filter.Action); action != "" {
		query = query.Where("action = ?", strings.ToUpper(action))
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", strings.ToLower(status))
	}
	if actor := strings.TrimSpace(filter.Actor); actor != "" {
		query = query.Where("actor = ?", strings.ToLower(actor))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC, id DESC")
	if filter.PageSize > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.PageSize
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var logs []models.Log
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
