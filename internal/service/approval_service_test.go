package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/team-mid/arcms-api/internal/models"
	"github.com/team-mid/arcms-api/internal/notification"
	"github.com/team-mid/arcms-api/internal/repository"
)

func newApprovalFixture(t *testing.T) (ApprovalService, *gorm.DB, *recordingNotifier) {
	t.Helper()
	db := setupTestDB(t)
	notifier := &recordingNotifier{failFor: map[string]bool{}}
	audit := NewAuditService(repository.NewLogRepository(db), testLogger())
	svc := NewApprovalService(
		repository.NewEmployeeRepository(db),
		repository.NewImageRepository(db),
		audit,
		notifier,
		NewTokenIssuer(),
		"http://cards.test",
		testLogger(),
	)
	return svc, db, notifier
}

func approvalTestActor(email string) ApprovalActor {
	return ApprovalActor{Email: email, EmployeeNumber: "ADM-0001"}
}

func activationRawToken(t *testing.T, msg notification.MailMessage) string {
	t.Helper()
	var data notification.AccountActivationData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	return strings.TrimPrefix(data.VerifyURL, "http://cards.test/employee/verified/")
}

func TestApproveIssuesActivationToken(t *testing.T) {
	svc, db, notifier := newApprovalFixture(t)
	employee := seedEmployee(t, db, "approve-one@lpu.edu.ph", "EMP-8001", "Str0ng!Pass", false, false)
	actor := approvalTestActor("admin-approve@lpu.edu.ph")

	response, err := svc.Approve(context.Background(), employee.EmployeeID, actor)
	require.NoError(t, err)
	require.True(t, response.IsApproved)
	require.False(t, response.IsActive, "activation still requires the emailed link")

	require.Len(t, notifier.sent, 1)
	require.Equal(t, notification.TypeAccountActivation, notifier.sent[0].Type)
	require.Equal(t, "approve-one@lpu.edu.ph", notifier.sent[0].To)

	raw := activationRawToken(t, notifier.sent[0])
	require.Len(t, raw, 128)

	var updated models.Employee
	require.NoError(t, db.First(&updated, "employee_id = ?", employee.EmployeeID).Error)
	require.Equal(t, HashToken(raw), updated.AccountVerificationToken)
	require.NotEqual(t, raw, updated.AccountVerificationToken)
	require.NotNil(t, updated.VerificationExpirationDate)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), *updated.VerificationExpirationDate, time.Minute)

	logs := actorLogs(t, db, "admin-approve@lpu.edu.ph")
	require.Len(t, logs, 1)
	require.Equal(t, models.ActionApproveEmployee, logs[0].Action)
	require.True(t, logs[0].IsAdmin)
}

func TestApproveKeepsStateWhenMailFails(t *testing.T) {
	svc, db, notifier := newApprovalFixture(t)
	employee := seedEmployee(t, db, "approve-mailfail@lpu.edu.ph", "EMP-8002", "Str0ng!Pass", false, false)
	notifier.failFor["approve-mailfail@lpu.edu.ph"] = true
	actor := approvalTestActor("admin-mailfail@lpu.edu.ph")

	response, err := svc.Approve(context.Background(), employee.EmployeeID, actor)
	require.ErrorIs(t, err, notification.ErrDelivery)
	require.True(t, response.IsApproved, "the committed approval is returned with the delivery error")

	var updated models.Employee
	require.NoError(t, db.First(&updated, "employee_id = ?", employee.EmployeeID).Error)
	require.True(t, updated.IsApproved, "delivery failure must not roll back the approval")
	require.NotEmpty(t, updated.AccountVerificationToken)
}

func TestApproveUnknownEmployee(t *testing.T) {
	svc, _, _ := newApprovalFixture(t)

	_, err := svc.Approve(context.Background(), 424242, approvalTestActor("admin-unknown@lpu.edu.ph"))
	require.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestVerifyAccountActivatesOnce(t *testing.T) {
	svc, db, notifier := newApprovalFixture(t)
	employee := seedEmployee(t, db, "verify-acct@lpu.edu.ph", "EMP-8003", "Str0ng!Pass", false, false)
	actor := approvalTestActor("admin-verify@lpu.edu.ph")

	_, err := svc.Approve(context.Background(), employee.EmployeeID, actor)
	require.NoError(t, err)
	raw := activationRawToken(t, notifier.sent[0])

	_, err = svc.VerifyAccount(context.Background(), "not-a-token")
	require.ErrorIs(t, err, ErrTokenInvalid)

	response, err := svc.VerifyAccount(context.Background(), raw)
	require.NoError(t, err)
	require.True(t, response.IsActive)

	var updated models.Employee
	require.NoError(t, db.First(&updated, "employee_id = ?", employee.EmployeeID).Error)
	require.True(t, updated.IsActive)
	require.Empty(t, updated.AccountVerificationToken)
	require.Nil(t, updated.VerificationExpirationDate)

	// The consumed token cannot be replayed.
	_, err = svc.VerifyAccount(context.Background(), raw)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyAccountRejectsExpiredToken(t *testing.T) {
	svc, db, notifier := newApprovalFixture(t)
	employee := seedEmployee(t, db, "verify-expired@lpu.edu.ph", "EMP-8004", "Str0ng!Pass", false, false)
	actor := approvalTestActor("admin-expired@lpu.edu.ph")

	_, err := svc.Approve(context.Background(), employee.EmployeeID, actor)
	require.NoError(t, err)
	raw := activationRawToken(t, notifier.sent[0])

	expired := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&models.Employee{}).
		Where("employee_id = ?", employee.EmployeeID).
		Update("verification_expiration_date", expired).Error)

	_, err = svc.VerifyAccount(context.Background(), raw)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestApproveAllActivatesDirectlyAndIsolatesMailFailures(t *testing.T) {
	svc, db, notifier := newApprovalFixture(t)
	actor := approvalTestActor("admin-batch@lpu.edu.ph")

	// The shared in-memory database may still hold pending signups from
	// other tests; the batch must only see this test's rows.
	require.NoError(t, db.Where(`"isApproved" = ?`, false).Delete(&models.Employee{}).Error)

	first := seedEmployee(t, db, "batch-one@lpu.edu.ph", "EMP-8005", "Str0ng!Pass", false, false)
	second := seedEmployee(t, db, "batch-two@lpu.edu.ph", "EMP-8006", "Str0ng!Pass", false, false)
	notifier.failFor["batch-two@lpu.edu.ph"] = true

	items, err := svc.ApproveAll(context.Background(), actor)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byEmail := map[string]bool{}
	for _, item := range items {
		byEmail[item.Employee.Email] = item.EmailDelivered
		require.True(t, item.Employee.IsApproved)
		require.True(t, item.Employee.IsActive, "batch approval activates directly")
	}
	require.True(t, byEmail["batch-one@lpu.edu.ph"])
	require.False(t, byEmail["batch-two@lpu.edu.ph"])

	for _, id := range []uint{first.EmployeeID, second.EmployeeID} {
		var updated models.Employee
		require.NoError(t, db.First(&updated, "employee_id = ?", id).Error)
		require.True(t, updated.IsApproved)
		require.True(t, updated.IsActive)
	}

	require.Len(t, notifier.sent, 1)
	require.Equal(t, notification.TypeApprovalNotice, notifier.sent[0].Type)
}

func TestSetArchivedTogglesActiveFlag(t *testing.T) {
	svc, db, _ := newApprovalFixture(t)
	employee := seedEmployee(t, db, "archive-me@lpu.edu.ph", "EMP-8007", "Str0ng!Pass", true, true)
	actor := approvalTestActor("admin-archive@lpu.edu.ph")

	response, err := svc.SetArchived(context.Background(), employee.EmployeeID, true, actor)
	require.NoError(t, err)
	require.False(t, response.IsActive)
	require.True(t, response.IsApproved, "archiving leaves approval untouched")

	// Archiving an already-archived employee is idempotent on the flag but
	// still appends its audit row.
	response, err = svc.SetArchived(context.Background(), employee.EmployeeID, true, actor)
	require.NoError(t, err)
	require.False(t, response.IsActive)

	response, err = svc.SetArchived(context.Background(), employee.EmployeeID, false, actor)
	require.NoError(t, err)
	require.True(t, response.IsActive)

	logs := actorLogs(t, db, "admin-archive@lpu.edu.ph")
	actions := make([]string, 0, len(logs))
	for _, entry := range logs {
		actions = append(actions, entry.Action)
	}
	archiveCount := 0
	for _, action := range actions {
		if action == models.ActionArchiveEmployee {
			archiveCount++
		}
	}
	require.Equal(t, 2, archiveCount)
	require.Contains(t, actions, models.ActionUnarchiveEmployee)
}
