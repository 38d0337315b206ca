package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/team-mid/arcms-api/internal/dto"
	"github.com/team-mid/arcms-api/internal/models"
	"github.com/team-mid/arcms-api/internal/repository"
)

func newProfileFixture(t *testing.T) (ProfileService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	audit := NewAuditService(repository.NewLogRepository(db), testLogger())
	svc := NewProfileService(
		repository.NewEmployeeRepository(db),
		repository.NewImageRepository(db),
		audit,
		testLogger(),
	)
	return svc, db
}

func TestUpdateProfileRaisesFlagsAndFreezesShadowValues(t *testing.T) {
	svc, db := newProfileFixture(t)
	employee := seedEmployee(t, db, "profile-edit@lpu.edu.ph", "EMP-7001", "Str0ng!Pass", true, true)
	require.NoError(t, db.Model(&models.Employee{}).
		Where("employee_id = ?", employee.EmployeeID).
		Updates(map[string]interface{}{
			"honorifics":   "Dr.",
			"introduction": "Old intro",
			"field":        datatypes.NewJSONSlice([]string{"AI"}),
		}).Error)

	response, err := svc.UpdateProfile(context.Background(), employee.EmployeeID, dto.UpdateProfileRequest{
		Honorifics:     "Prof.",
		Introduction:   "New intro",
		ResearchFields: dto.ResearchFieldList{"AI", "Robotics"},
	})
	require.NoError(t, err)
	require.True(t, response.HonorIsEdited)
	require.True(t, response.IntroIsEdited)
	require.True(t, response.FieldIsEdited)

	var updated models.Employee
	require.NoError(t, db.First(&updated, "employee_id = ?", employee.EmployeeID).Error)
	require.Equal(t, "Prof.", updated.Honorifics)
	require.Equal(t, "Dr.", updated.OldHonorifics)
	require.Equal(t, "Old intro", updated.OldIntroduction)
	require.Equal(t, []string{"AI"}, []string(updated.OldField))

	logs := actorLogs(t, db, "profile-edit@lpu.edu.ph")
	require.Len(t, logs, 3)
	for _, entry := range logs {
		require.Equal(t, models.LogStatusRequested, entry.Status)
	}

	// A second unreviewed edit moves the live value but keeps the shadow
	// frozen at the last acknowledged state, and requests no new review.
	_, err = svc.UpdateProfile(context.Background(), employee.EmployeeID, dto.UpdateProfileRequest{
		Honorifics:     "Engr.",
		Introduction:   "New intro",
		ResearchFields: dto.ResearchFieldList{"AI", "Robotics"},
	})
	require.NoError(t, err)

	require.NoError(t, db.First(&updated, "employee_id = ?", employee.EmployeeID).Error)
	require.Equal(t, "Engr.", updated.Honorifics)
	require.Equal(t, "Dr.", updated.OldHonorifics)
	require.Len(t, actorLogs(t, db, "profile-edit@lpu.edu.ph"), 3)
}

func TestUpdateProfileIsIdempotent(t *testing.T) {
	svc, db := newProfileFixture(t)
	employee := seedEmployee(t, db, "profile-idem@lpu.edu.ph", "EMP-7002", "Str0ng!Pass", true, true)
	require.NoError(t, db.Model(&models.Employee{}).
		Where("employee_id = ?", employee.EmployeeID).
		Updates(map[string]interface{}{
			"honorifics":   "Dr.",
			"introduction": "Hello there",
			"field":        datatypes.NewJSONSlice([]string{"AI"}),
		}).Error)

	for i := 0; i < 2; i++ {
		response, err := svc.UpdateProfile(context.Background(), employee.EmployeeID, dto.UpdateProfileRequest{
			Honorifics:     "Dr.",
			Introduction:   "Hello there",
			ResearchFields: dto.ResearchFieldList{"AI"},
		})
		require.NoError(t, err)
		require.False(t, response.HonorIsEdited)
		require.False(t, response.IntroIsEdited)
		require.False(t, response.FieldIsEdited)
	}

	require.Empty(t, actorLogs(t, db, "profile-idem@lpu.edu.ph"))
}

func TestUpdateProfileTreatsWhitespaceAndCaseAsUnchanged(t *testing.T) {
	svc, db := newProfileFixture(t)
	employee := seedEmployee(t, db, "profile-norm@lpu.edu.ph", "EMP-7003", "Str0ng!Pass", true, true)
	require.NoError(t, db.Model(&models.Employee{}).
		Where("employee_id = ?", employee.EmployeeID).
		Update("honorifics", "Dr.").Error)

	response, err := svc.UpdateProfile(context.Background(), employee.EmployeeID, dto.UpdateProfileRequest{
		Honorifics: "  dr. ",
	})
	require.NoError(t, err)
	require.False(t, response.HonorIsEdited)
	require.Empty(t, actorLogs(t, db, "profile-norm@lpu.edu.ph"))
}

func TestUpdateProfileStripsMarkupFromIntroduction(t *testing.T) {
	svc, db := newProfileFixture(t)
	employee := seedEmployee(t, db, "profile-xss@lpu.edu.ph", "EMP-7004", "Str0ng!Pass", true, true)

	response, err := svc.UpdateProfile(context.Background(), employee.EmployeeID, dto.UpdateProfileRequest{
		Introduction: `<script>alert("x")</script>Research lead`,
	})
	require.NoError(t, err)
	require.Equal(t, "Research lead", response.Introduction)
	require.NotContains(t, response.Introduction, "<script>")
}

func TestUpdateProfileImageChange(t *testing.T) {
	svc, db := newProfileFixture(t)
	employee := seedEmployee(t, db, "profile-image@lpu.edu.ph", "EMP-7005", "Str0ng!Pass", true, true)

	missing := uint(999999)
	_, err := svc.UpdateProfile(context.Background(), employee.EmployeeID, dto.UpdateProfileRequest{ImageID: &missing})
	require.Error(t, err)

	image := models.Image{ImageURL: "https://cdn.test/avatar.png", FileName: "avatar.png", MimeType: "image/png"}
	require.NoError(t, db.Create(&image).Error)

	response, err := svc.UpdateProfile(context.Background(), employee.EmployeeID, dto.UpdateProfileRequest{ImageID: &image.ImageID})
	require.NoError(t, err)
	require.NotNil(t, response.ImageID)
	require.Equal(t, image.ImageID, *response.ImageID)

	logs := actorLogs(t, db, "profile-image@lpu.edu.ph")
	require.Len(t, logs, 1)
	require.Equal(t, models.ActionUpdateProfile, logs[0].Action)
	require.Equal(t, models.LogStatusSuccess, logs[0].Status)
}

func TestUpdateProfileUnknownEmployee(t *testing.T) {
	svc, _ := newProfileFixture(t)

	_, err := svc.UpdateProfile(context.Background(), 515151, dto.UpdateProfileRequest{Honorifics: "Dr."})
	require.ErrorIs(t, err, ErrEmployeeNotFound)
}

type staleReadEmployeeRepo struct {
	repository.EmployeeRepository
	stale  models.Employee
	served bool
}

func (r *staleReadEmployeeRepo) GetByID(ctx context.Context, id uint) (models.Employee, error) {
	if !r.served {
		r.served = true
		return r.stale, nil
	}
	return r.EmployeeRepository.GetByID(ctx, id)
}

func TestUpdateProfileConcurrentEditLosesBookkeeping(t *testing.T) {
	db := setupTestDB(t)
	employees := repository.NewEmployeeRepository(db)
	audit := NewAuditService(repository.NewLogRepository(db), testLogger())
	images := repository.NewImageRepository(db)

	employee := seedEmployee(t, db, "profile-race@lpu.edu.ph", "EMP-7006", "Str0ng!Pass", true, true)
	require.NoError(t, db.Model(&models.Employee{}).
		Where("employee_id = ?", employee.EmployeeID).
		Update("honorifics", "Dr.").Error)

	// Both writers read the acknowledged row before either writes.
	stale, err := employees.GetByID(context.Background(), employee.EmployeeID)
	require.NoError(t, err)

	first := NewProfileService(employees, images, audit, testLogger())
	_, err = first.UpdateProfile(context.Background(), employee.EmployeeID, dto.UpdateProfileRequest{Honorifics: "Prof."})
	require.NoError(t, err)

	second := NewProfileService(&staleReadEmployeeRepo{EmployeeRepository: employees, stale: stale}, images, audit, testLogger())
	_, err = second.UpdateProfile(context.Background(), employee.EmployeeID, dto.UpdateProfileRequest{Honorifics: "Engr."})
	require.NoError(t, err)

	// The update sequence is read -> diff -> write without a transaction.
	// The second writer's stale read saw the flag down, so it overwrites the
	// first writer's submission and appends a second "requested" row for
	// what is really one raise of the honorifics flag.
	var updated models.Employee
	require.NoError(t, db.First(&updated, "employee_id = ?", employee.EmployeeID).Error)
	require.Equal(t, "Engr.", updated.Honorifics)
	require.True(t, updated.HonorIsEdited)

	logs := actorLogs(t, db, "profile-race@lpu.edu.ph")
	require.Len(t, logs, 2)
	for _, entry := range logs {
		require.Equal(t, models.ActionUpdateHonorifics, entry.Action)
		require.Equal(t, models.LogStatusRequested, entry.Status)
	}
}
