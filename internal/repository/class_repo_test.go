package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yuqie6/AccomTrack/internal/schema"
)

func TestClassRepositoryCRUD(t *testing.T) {
	d := openTestDatabase(t)
	repo := NewClassRepository(d.DB)
	ctx := context.Background()

	c := &schema.Class{Name: "Biology", Subject: "Science", Period: "3", Year: "2024-2025"}
	id, err := repo.Create(ctx, c)
	require.NoError(t, err)
	require.Equal(t, id, c.ID)
	_, err = repo.Create(ctx, &schema.Class{Name: "Algebra I", Subject: "Math", Period: "1", Year: "2024-2025"})
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Algebra I", list[0].Name)

	name := "AP Biology"
	require.NoError(t, repo.Update(ctx, id, schema.ClassPatch{Name: &name}))
	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "AP Biology", got.Name)
	require.Equal(t, "Science", got.Subject)

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.GetByID(ctx, id)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClassRepositoryRequiresName(t *testing.T) {
	d := openTestDatabase(t)
	_, err := NewClassRepository(d.DB).Create(context.Background(), &schema.Class{Subject: "Math"})
	require.ErrorIs(t, err, ErrConstraintViolation)
}

func TestClassDeleteRemovesLogsAndEnrollments(t *testing.T) {
	d := openTestDatabase(t)
	f := seedRoster(t, d.DB)
	ctx := context.Background()

	logs := NewServiceLogRepository(d.DB)
	_, err := logs.Upsert(ctx, f.classID, f.accIDs[0], "2024-09-03", true)
	require.NoError(t, err)
	_, err = logs.Upsert(ctx, f.classID, f.accIDs[1], "2024-09-04", false)
	require.NoError(t, err)

	require.NoError(t, NewClassRepository(d.DB).Delete(ctx, f.classID))

	remaining, err := logs.List(ctx, ServiceLogFilter{ClassID: f.classID})
	require.NoError(t, err)
	require.Empty(t, remaining)
	require.Zero(t, countRows(t, d.DB, &schema.AccommodationServiceLog{}))
	require.Zero(t, countRows(t, d.DB, &schema.ClassStudent{}))

	// students and accommodations are not owned by the class
	require.EqualValues(t, 2, countRows(t, d.DB, &schema.Accommodation{}))
}
