package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yuqie6/AccomTrack/internal/schema"
	"gorm.io/gorm"
)

func openTestDatabase(t *testing.T) *Database {
	t.Helper()
	d, err := NewDatabase(filepath.Join(t.TempDir(), "accommodations.db"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func openRawTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "raw.db"), 0)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func tableExists(t *testing.T, db *gorm.DB, name string) bool {
	t.Helper()
	var count int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&count).Error)
	return count > 0
}

func mustSchemaVersion(t *testing.T, db *gorm.DB) int {
	t.Helper()
	v, err := readSchemaVersion(db)
	require.NoError(t, err)
	return v
}

// fixture is a small roster: one student with two accommodations enrolled in one class.
type fixture struct {
	classID   int64
	studentID int64
	accIDs    []int64
}

func seedRoster(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	ctx := context.Background()

	classID, err := NewClassRepository(db).Create(ctx, &schema.Class{Name: "Algebra I", Subject: "Math", Period: "2", Year: "2024-2025"})
	require.NoError(t, err)
	studentID, err := NewStudentRepository(db).Create(ctx, &schema.Student{FirstName: "Ada", LastName: "Lovelace", StudentID: "S100", PlanType: schema.PlanTypeIEP})
	require.NoError(t, err)

	accRepo := NewAccommodationRepository(db)
	a1, err := accRepo.Create(ctx, &schema.Accommodation{StudentID: studentID, Description: "extended time", Category: "testing"})
	require.NoError(t, err)
	a2, err := accRepo.Create(ctx, &schema.Accommodation{StudentID: studentID, Description: "preferential seating", Category: "environment"})
	require.NoError(t, err)

	_, err = NewEnrollmentRepository(db).Add(ctx, classID, studentID)
	require.NoError(t, err)

	return fixture{classID: classID, studentID: studentID, accIDs: []int64{a1, a2}}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
