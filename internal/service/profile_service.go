package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/team-mid/arcms-api/internal/dto"
	"github.com/team-mid/arcms-api/internal/models"
	"github.com/team-mid/arcms-api/internal/repository"
)

// ProfileService applies employee profile edits with change tracking.
type ProfileService interface {
	UpdateProfile(ctx context.Context, employeeID uint, req dto.UpdateProfileRequest) (dto.EmployeeResponse, error)
}

type profileService struct {
	employees repository.EmployeeRepository
	images    repository.ImageRepository
	audit     AuditRecorder
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewProfileService constructs the profile service.
func NewProfileService(
	employees repository.EmployeeRepository,
	images repository.ImageRepository,
	audit AuditRecorder,
	logger zerolog.Logger,
) ProfileService {
	return &profileService{
		employees: employees,
		images:    images,
		audit:     audit,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "profile_service").Logger(),
	}
}

// UpdateProfile runs the read -> diff -> write -> log sequence. The sequence
// is not wrapped in a transaction: a concurrent edit landing between the read
// and the write can lose shadow-field bookkeeping for that edit. Correctness
// for a single editor relies on the row-level atomicity of the one update
// statement.
func (s *profileService) UpdateProfile(ctx context.Context, employeeID uint, req dto.UpdateProfileRequest) (dto.EmployeeResponse, error) {
	existing, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EmployeeResponse{}, ErrEmployeeNotFound
		}
		return dto.EmployeeResponse{}, err
	}

	introduction := s.sanitizer.Sanitize(req.Introduction)
	submittedFields := []string(req.ResearchFields)

	honor, honorRequested := Tracked[string]{
		Current: existing.Honorifics,
		Old:     existing.OldHonorifics,
		Edited:  existing.HonorIsEdited,
	}.Apply(req.Honorifics, textEqual)

	intro, introRequested := Tracked[string]{
		Current: existing.Introduction,
		Old:     existing.OldIntroduction,
		Edited:  existing.IntroIsEdited,
	}.Apply(introduction, textEqual)

	field, fieldRequested := Tracked[[]string]{
		Current: []string(existing.Field),
		Old:     []string(existing.OldField),
		Edited:  existing.FieldIsEdited,
	}.Apply(submittedFields, fieldsEqual)

	updates := map[string]interface{}{
		"honorifics":      honor.Current,
		"oldHonorifics":   honor.Old,
		"honorIsEdited":   honor.Edited,
		"introduction":    intro.Current,
		"oldIntroduction": intro.Old,
		"introIsEdited":   intro.Edited,
		"field":           datatypes.NewJSONSlice(field.Current),
		"oldField":        datatypes.NewJSONSlice(field.Old),
		"fieldIsEdited":   field.Edited,
	}

	if req.ImageID != nil {
		if _, err := s.images.GetByID(ctx, *req.ImageID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.EmployeeResponse{}, fmt.Errorf("image %d does not exist", *req.ImageID)
			}
			return dto.EmployeeResponse{}, err
		}
		updates["image_id"] = *req.ImageID
	}

	updated, err := s.employees.UpdateFields(ctx, employeeID, updates)
	if err != nil {
		return dto.EmployeeResponse{}, err
	}

	// Each newly raised flag produces one "requested" audit row. The flag
	// guard makes the operation idempotent: resubmitting identical values
	// never duplicates review requests.
	if honorRequested {
		if err := s.audit.Record(ctx, AuditEntry{
			Action:         models.ActionUpdateHonorifics,
			Actor:          updated.Email,
			Status:         models.LogStatusRequested,
			EmployeeNumber: updated.EmployeeNumber,
			ActionDetails:  fmt.Sprintf("%s -> %s", existing.Honorifics, honor.Current),
		}); err != nil {
			return dto.EmployeeResponse{}, err
		}
	}

	if introRequested {
		if err := s.audit.Record(ctx, AuditEntry{
			Action:         models.ActionUpdateUserIntro,
			Actor:          updated.Email,
			Status:         models.LogStatusRequested,
			EmployeeNumber: updated.EmployeeNumber,
			ActionDetails:  intro.Current,
		}); err != nil {
			return dto.EmployeeResponse{}, err
		}
	}

	if fieldRequested {
		if err := s.audit.Record(ctx, AuditEntry{
			Action:         models.ActionUpdateResearchFields,
			Actor:          updated.Email,
			Status:         models.LogStatusRequested,
			EmployeeNumber: updated.EmployeeNumber,
			ActionDetails:  strings.Join(field.Current, ","),
		}); err != nil {
			return dto.EmployeeResponse{}, err
		}
	}

	// Image changes publish immediately and need no admin review.
	if req.ImageID != nil {
		if err := s.audit.Record(ctx, AuditEntry{
			Action:         models.ActionUpdateProfile,
			Actor:          updated.Email,
			Status:         models.LogStatusSuccess,
			EmployeeNumber: updated.EmployeeNumber,
			ActionDetails:  "Profile image updated",
		}); err != nil {
			return dto.EmployeeResponse{}, err
		}
	}

	return dto.NewEmployeeResponse(updated), nil
}
