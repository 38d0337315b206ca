package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/team-mid/arcms-api/internal/dto"
	"github.com/team-mid/arcms-api/internal/models"
	"github.com/team-mid/arcms-api/internal/repository"
)

// AuditEntry captures the details required to persist an audit row.
type AuditEntry struct {
	Action         string
	Actor          string
	IsAdmin        bool
	Status         string
	EmployeeNumber string
	ActionDetails  string
	Metadata       map[string]interface{}
}

// AuditRecorder appends audit rows. Record follows the log-or-bust policy:
// a failed insert escalates to an operation-level failure even when the
// primary mutation already committed. RecordBestEffort is the documented
// exception used by the forgot-password flow.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry) error
	RecordBestEffort(ctx context.Context, entry AuditEntry)
}

// AuditService exposes recording plus the admin list view over audit rows.
type AuditService interface {
	AuditRecorder
	List(ctx context.Context, req dto.LogListRequest) (dto.LogListResponse, error)
}

type auditService struct {
	repo   repository.LogRepository
	logger zerolog.Logger
}

// NewAuditService constructs the audit service.
func NewAuditService(repo repository.LogRepository, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:   repo,
		logger: logger.With().Str("component", "audit_service").Logger(),
	}
}

func (s *auditService) Record(ctx context.Context, entry AuditEntry) error {
	if strings.TrimSpace(entry.Action) == "" {
		return fmt.Errorf("audit action is required")
	}

	status := strings.ToLower(strings.TrimSpace(entry.Status))
	if status == "" {
		status = models.LogStatusSuccess
	}

	row := models.Log{
		Action:         strings.ToUpper(strings.TrimSpace(entry.Action)),
		Actor:          strings.ToLower(strings.TrimSpace(entry.Actor)),
		IsAdmin:        entry.IsAdmin,
		Status:         status,
		EmployeeNumber: entry.EmployeeNumber,
		ActionDetails:  entry.ActionDetails,
	}
	if entry.Metadata != nil {
		row.Metadata = datatypes.JSONMap(entry.Metadata)
	}

	if err := s.repo.Create(ctx, &row); err != nil {
		s.logger.Error().Err(err).Str("action", row.Action).Msg("failed to append audit log")
		return fmt.Errorf("failed to append audit log: %w", err)
	}

	return nil
}

func (s *auditService) RecordBestEffort(ctx context.Context, entry AuditEntry) {
	if err := s.Record(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("action", entry.Action).Msg("best-effort audit write dropped")
	}
}

func (s *auditService) List(ctx context.Context, req dto.LogListRequest) (dto.LogListResponse, error) {
	logs, total, err := s.repo.List(ctx, repository.LogFilter{
		Action:   req.Action,
		Status:   req.Status,
		Actor:    req.Actor,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return dto.LogListResponse{}, err
	}

	items := make([]dto.LogResponse, 0, len(logs))
	for _, row := range logs {
		items = append(items, dto.NewLogResponse(row))
	}

	return dto.LogListResponse{
		Items:      items,
		Pagination: paginationMeta(req.Page, req.PageSize, total),
	}, nil
}
