package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/team-mid/arcms-api/internal/models"
)

func repoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Employee{}, &models.Log{}))
	return db
}

func seedListEmployee(t *testing.T, db *gorm.DB, first, last, email, number string, approved, active bool, created time.Time) models.Employee {
	t.Helper()
	employee := models.Employee{
		EmployeeNumber: number,
		FirstName:      first,
		LastName:       last,
		Email:          email,
		PasswordHash:   "x",
		IsApproved:     approved,
		IsActive:       active,
	}
	require.NoError(t, db.Create(&employee).Error)
	require.NoError(t, db.Model(&models.Employee{}).
		Where("employee_id = ?", employee.EmployeeID).
		Update("date_created", created).Error)
	employee.DateCreated = created
	return employee
}

func TestListFiltersByLifecycleStatus(t *testing.T) {
	db := repoTestDB(t)
	repo := NewEmployeeRepository(db)
	now := time.Now()

	active := seedListEmployee(t, db, "Alon", "Quarzo", "quarzo@lpu.edu.ph", "REP-1001", true, true, now)
	pending := seedListEmployee(t, db, "Bera", "Quarzo", "quarzo2@lpu.edu.ph", "REP-1002", false, false, now)
	archived := seedListEmployee(t, db, "Cale", "Quarzo", "quarzo3@lpu.edu.ph", "REP-1003", true, false, now)

	rows, total, err := repo.List(context.Background(), EmployeeFilter{Status: EmployeeStatusActive, Search: "quarzo"})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, active.EmployeeID, rows[0].EmployeeID)

	rows, total, err = repo.List(context.Background(), EmployeeFilter{Status: EmployeeStatusPending, Search: "quarzo"})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, pending.EmployeeID, rows[0].EmployeeID)

	rows, total, err = repo.List(context.Background(), EmployeeFilter{Status: EmployeeStatusArchived, Search: "quarzo"})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, archived.EmployeeID, rows[0].EmployeeID)
}

func TestListSearchMatchesNameEmailAndNumber(t *testing.T) {
	db := repoTestDB(t)
	repo := NewEmployeeRepository(db)
	now := time.Now()

	byName := seedListEmployee(t, db, "Xilmar", "Ventano", "ventano@lpu.edu.ph", "REP-2001", true, true, now)
	byEmail := seedListEmployee(t, db, "Plain", "Person", "xilmarbox@lpu.edu.ph", "REP-2002", true, true, now)
	seedListEmployee(t, db, "Other", "Person", "other-rep@lpu.edu.ph", "REP-2003", true, true, now)

	rows, total, err := repo.List(context.Background(), EmployeeFilter{Search: "XILMAR"})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	ids := []uint{rows[0].EmployeeID, rows[1].EmployeeID}
	require.Contains(t, ids, byName.EmployeeID)
	require.Contains(t, ids, byEmail.EmployeeID)

	rows, total, err = repo.List(context.Background(), EmployeeFilter{Search: "REP-2003"})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "REP-2003", rows[0].EmployeeNumber)
}

func TestListSortsAndPaginates(t *testing.T) {
	db := repoTestDB(t)
	repo := NewEmployeeRepository(db)
	base := time.Now().Add(-time.Hour)

	seedListEmployee(t, db, "Ada", "Yarrow", "yarrow1@lpu.edu.ph", "REP-3001", true, true, base)
	seedListEmployee(t, db, "Bo", "Yarrow", "yarrow2@lpu.edu.ph", "REP-3002", true, true, base.Add(time.Minute))
	seedListEmployee(t, db, "Cy", "Yarrow", "yarrow3@lpu.edu.ph", "REP-3003", true, true, base.Add(2*time.Minute))

	rows, total, err := repo.List(context.Background(), EmployeeFilter{Search: "yarrow"})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Equal(t, "REP-3003", rows[0].EmployeeNumber)

	rows, _, err = repo.List(context.Background(), EmployeeFilter{Search: "yarrow", Sort: "oldest"})
	require.NoError(t, err)
	require.Equal(t, "REP-3001", rows[0].EmployeeNumber)

	rows, _, err = repo.List(context.Background(), EmployeeFilter{Search: "yarrow", Sort: "name"})
	require.NoError(t, err)
	require.Equal(t, "Ada", rows[0].FirstName)

	rows, total, err = repo.List(context.Background(), EmployeeFilter{Search: "yarrow", Sort: "oldest", Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, rows, 1)
	require.Equal(t, "REP-3003", rows[0].EmployeeNumber)
}

func TestGetByEmailNormalizesInput(t *testing.T) {
	db := repoTestDB(t)
	repo := NewEmployeeRepository(db)

	seedListEmployee(t, db, "Norm", "Case", "normcase@lpu.edu.ph", "REP-4001", true, true, time.Now())

	found, err := repo.GetByEmail(context.Background(), "  normcase@lpu.edu.ph  ")
	require.NoError(t, err)
	require.Equal(t, "REP-4001", found.EmployeeNumber)
}

func TestUpdateFieldsUnknownEmployee(t *testing.T) {
	db := repoTestDB(t)
	repo := NewEmployeeRepository(db)

	_, err := repo.UpdateFields(context.Background(), 909090, map[string]interface{}{"honorifics": "Dr."})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
