package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yuqie6/AccomTrack/internal/schema"
)

func TestAccommodationRepositoryListOrdered(t *testing.T) {
	d := openTestDatabase(t)
	f := seedRoster(t, d.DB)

	accs, err := NewAccommodationRepository(d.DB).ListByStudent(context.Background(), f.studentID)
	require.NoError(t, err)
	require.Len(t, accs, 2)
	require.Equal(t, "environment", accs[0].Category)
	require.Equal(t, "testing", accs[1].Category)
}

func TestAccommodationRepositoryRequiresExistingStudent(t *testing.T) {
	d := openTestDatabase(t)
	_, err := NewAccommodationRepository(d.DB).Create(context.Background(), &schema.Accommodation{StudentID: 999, Description: "extended time", Category: "testing"})
	require.ErrorIs(t, err, ErrConstraintViolation)
}

func TestAccommodationRepositoryUpdateAndDelete(t *testing.T) {
	d := openTestDatabase(t)
	f := seedRoster(t, d.DB)
	ctx := context.Background()
	repo := NewAccommodationRepository(d.DB)

	desc := "time and a half"
	require.NoError(t, repo.Update(ctx, f.accIDs[0], schema.AccommodationPatch{Description: &desc}))
	got, err := repo.GetByID(ctx, f.accIDs[0])
	require.NoError(t, err)
	require.Equal(t, "time and a half", got.Description)

	empty := ""
	require.ErrorIs(t, repo.Update(ctx, f.accIDs[0], schema.AccommodationPatch{Description: &empty}), ErrConstraintViolation)

	_, err = NewServiceLogRepository(d.DB).Upsert(ctx, f.classID, f.accIDs[0], "2024-09-03", true)
	require.NoError(t, err)
	_, err = NewServiceLogRepository(d.DB).Upsert(ctx, f.classID, f.accIDs[1], "2024-09-03", true)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, f.accIDs[0]))
	logs, err := NewServiceLogRepository(d.DB).List(ctx, ServiceLogFilter{ClassID: f.classID})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, f.accIDs[1], logs[0].AccommodationID)

	require.ErrorIs(t, repo.Delete(ctx, f.accIDs[0]), ErrNotFound)
}

func TestAccommodationRepositoryListByStudents(t *testing.T) {
	d := openTestDatabase(t)
	f := seedRoster(t, d.DB)

	grouped, err := NewAccommodationRepository(d.DB).ListByStudents(context.Background(), []int64{f.studentID, 12345})
	require.NoError(t, err)
	require.Len(t, grouped[f.studentID], 2)
	require.Empty(t, grouped[12345])

	empty, err := NewAccommodationRepository(d.DB).ListByStudents(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestAccommodationReassignKeepsLogsEnrolled(t *testing.T) {
	d := openTestDatabase(t)
	f := seedRoster(t, d.DB)
	ctx := context.Background()
	repo := NewAccommodationRepository(d.DB)

	other, err := NewStudentRepository(d.DB).Create(ctx, &schema.Student{FirstName: "Grace", LastName: "Hopper", StudentID: "S200", PlanType: schema.PlanType504})
	require.NoError(t, err)

	// no logs yet: free to move
	require.NoError(t, repo.Update(ctx, f.accIDs[1], schema.AccommodationPatch{StudentID: &other}))
	require.NoError(t, repo.Update(ctx, f.accIDs[1], schema.AccommodationPatch{StudentID: &f.studentID}))

	_, err = NewServiceLogRepository(d.DB).Upsert(ctx, f.classID, f.accIDs[0], "2024-09-03", true)
	require.NoError(t, err)

	err = repo.Update(ctx, f.accIDs[0], schema.AccommodationPatch{StudentID: &other})
	require.ErrorIs(t, err, ErrNotEnrolled)
	got, err := repo.GetByID(ctx, f.accIDs[0])
	require.NoError(t, err)
	require.Equal(t, f.studentID, got.StudentID)

	_, err = NewEnrollmentRepository(d.DB).Add(ctx, f.classID, other)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, f.accIDs[0], schema.AccommodationPatch{StudentID: &other}))
	got, err = repo.GetByID(ctx, f.accIDs[0])
	require.NoError(t, err)
	require.Equal(t, other, got.StudentID)
	require.EqualValues(t, 1, countRows(t, d.DB, &schema.AccommodationServiceLog{}))
}
