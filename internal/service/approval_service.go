package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/team-mid/arcms-api/internal/dto"
	"github.com/team-mid/arcms-api/internal/models"
	"github.com/team-mid/arcms-api/internal/notification"
	"github.com/team-mid/arcms-api/internal/repository"
)

// ApprovalActor identifies the admin performing an approval-side operation.
type ApprovalActor struct {
	Email          string
	EmployeeNumber string
}

// ApprovalService drives the admin-gated account lifecycle transitions.
type ApprovalService interface {
	Approve(ctx context.Context, employeeID uint, actor ApprovalActor) (dto.EmployeeResponse, error)
	ApproveAll(ctx context.Context, actor ApprovalActor) ([]dto.ApproveAllItem, error)
	VerifyAccount(ctx context.Context, rawToken string) (dto.EmployeeResponse, error)
	SetArchived(ctx context.Context, employeeID uint, archived bool, actor ApprovalActor) (dto.EmployeeResponse, error)
}

type approvalService struct {
	employees repository.EmployeeRepository
	images    repository.ImageRepository
	audit     AuditRecorder
	notifier  notification.Notifier
	tokens    TokenIssuer
	baseURL   string
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewApprovalService constructs the approval service.
func NewApprovalService(
	employees repository.EmployeeRepository,
	images repository.ImageRepository,
	audit AuditRecorder,
	notifier notification.Notifier,
	tokens TokenIssuer,
	baseURL string,
	logger zerolog.Logger,
) ApprovalService {
	return &approvalService{
		employees: employees,
		images:    images,
		audit:     audit,
		notifier:  notifier,
		tokens:    tokens,
		baseURL:   baseURL,
		logger:    logger.With().Str("component", "approval_service").Logger(),
		tracer:    otel.Tracer("github.com/team-mid/arcms-api/internal/service/approval"),
	}
}

// Approve commits the approval state change, then attempts the activation
// mail. The two are deliberately not coupled: a failed send surfaces as a
// delivery error but never rolls back the already-committed approval.
func (s *approvalService) Approve(ctx context.Context, employeeID uint, actor ApprovalActor) (dto.EmployeeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "approval.approve")
	defer span.End()
	span.SetAttributes(attribute.Int("employee.id", int(employeeID)))

	token, err := s.tokens.Issue(TokenKindActivation)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "token issuance failed")
		return dto.EmployeeResponse{}, err
	}

	employee, err := s.employees.UpdateFields(ctx, employeeID, map[string]interface{}{
		"isApproved":                   true,
		"account_verification_token":   token.Hash,
		"verification_expiration_date": token.ExpiresAt,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EmployeeResponse{}, ErrEmployeeNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "approval update failed")
		return dto.EmployeeResponse{}, err
	}

	if err := s.audit.Record(ctx, AuditEntry{
		Action:         models.ActionApproveEmployee,
		Actor:          actor.Email,
		IsAdmin:        true,
		Status:         models.LogStatusSuccess,
		EmployeeNumber: actor.EmployeeNumber,
		Metadata:       map[string]interface{}{"employee_id": employee.EmployeeID},
	}); err != nil {
		return dto.EmployeeResponse{}, err
	}

	response := dto.NewEmployeeResponse(employee)
	response.ImageURL = s.resolveImageURL(ctx, employee)

	if err := s.sendActivationMail(ctx, employee, token.Raw); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "activation mail failed")
		return response, err
	}

	return response, nil
}

// ApproveAll activates every pending employee directly, skipping the
// per-account verification step the single approval uses, and notifies each
// by mail. A failed send is isolated to its item; the batch carries on.
func (s *approvalService) ApproveAll(ctx context.Context, actor ApprovalActor) ([]dto.ApproveAllItem, error) {
	ctx, span := s.tracer.Start(ctx, "approval.approve_all")
	defer span.End()

	pending, err := s.employees.ListPending(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pending list failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("approval.pending_count", len(pending)))

	items := make([]dto.ApproveAllItem, 0, len(pending))
	for _, employee := range pending {
		updated, err := s.employees.UpdateFields(ctx, employee.EmployeeID, map[string]interface{}{
			"isApproved": true,
			"isActive":   true,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "batch approval update failed")
			return nil, err
		}

		if err := s.audit.Record(ctx, AuditEntry{
			Action:         models.ActionApproveEmployee,
			Actor:          actor.Email,
			IsAdmin:        true,
			Status:         models.LogStatusSuccess,
			EmployeeNumber: actor.EmployeeNumber,
			ActionDetails:  "batch approval",
			Metadata:       map[string]interface{}{"employee_id": updated.EmployeeID},
		}); err != nil {
			return nil, err
		}

		item := dto.ApproveAllItem{Employee: dto.NewEmployeeResponse(updated), EmailDelivered: true}
		item.Employee.ImageURL = s.resolveImageURL(ctx, updated)

		msg, err := notification.NewMessage(notification.TypeApprovalNotice, updated.Email, notification.ApprovalNoticeData{
			LoginURL: s.baseURL + "/",
		})
		if err == nil {
			err = s.notifier.Send(ctx, msg)
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("email", updated.Email).Msg("approval notice not delivered")
			item.EmailDelivered = false
			item.Error = err.Error()
		}

		items = append(items, item)
	}

	return items, nil
}

func (s *approvalService) VerifyAccount(ctx context.Context, rawToken string) (dto.EmployeeResponse, error) {
	employee, err := s.employees.GetByVerificationTokenHash(ctx, HashToken(rawToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EmployeeResponse{}, ErrTokenInvalid
		}
		return dto.EmployeeResponse{}, err
	}

	if employee.VerificationExpirationDate == nil || time.Now().After(*employee.VerificationExpirationDate) {
		return dto.EmployeeResponse{}, ErrTokenExpired
	}

	updated, err := s.employees.UpdateFields(ctx, employee.EmployeeID, map[string]interface{}{
		"isActive":                     true,
		"account_verification_token":   "",
		"verification_expiration_date": nil,
	})
	if err != nil {
		return dto.EmployeeResponse{}, err
	}

	if err := s.audit.Record(ctx, AuditEntry{
		Action:         models.ActionVerifyEmployee,
		Actor:          updated.Email,
		Status:         models.LogStatusSuccess,
		EmployeeNumber: updated.EmployeeNumber,
	}); err != nil {
		return dto.EmployeeResponse{}, err
	}

	return dto.NewEmployeeResponse(updated), nil
}

func (s *approvalService) SetArchived(ctx context.Context, employeeID uint, archived bool, actor ApprovalActor) (dto.EmployeeResponse, error) {
	updated, err := s.employees.UpdateFields(ctx, employeeID, map[string]interface{}{
		"isActive": !archived,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EmployeeResponse{}, ErrEmployeeNotFound
		}
		return dto.EmployeeResponse{}, err
	}

	action := models.ActionArchiveEmployee
	if !archived {
		action = models.ActionUnarchiveEmployee
	}

	if err := s.audit.Record(ctx, AuditEntry{
		Action:         action,
		Actor:          actor.Email,
		IsAdmin:        true,
		Status:         models.LogStatusSuccess,
		EmployeeNumber: actor.EmployeeNumber,
		ActionDetails:  fmt.Sprintf("employee %s", updated.EmployeeNumber),
		Metadata:       map[string]interface{}{"employee_id": updated.EmployeeID},
	}); err != nil {
		return dto.EmployeeResponse{}, err
	}

	response := dto.NewEmployeeResponse(updated)
	response.ImageURL = s.resolveImageURL(ctx, updated)

	return response, nil
}

func (s *approvalService) sendActivationMail(ctx context.Context, employee models.Employee, rawToken string) error {
	msg, err := notification.NewMessage(notification.TypeAccountActivation, employee.Email, notification.AccountActivationData{
		FirstName: employee.FirstName,
		VerifyURL: fmt.Sprintf("%s/employee/verified/%s", s.baseURL, rawToken),
	})
	if err != nil {
		return err
	}

	return s.notifier.Send(ctx, msg)
}

func (s *approvalService) resolveImageURL(ctx context.Context, employee models.Employee) string {
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
