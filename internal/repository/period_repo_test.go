package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yuqie6/AccomTrack/internal/schema"
)

func TestPeriodRepositoryListAndFind(t *testing.T) {
	d := openTestDatabase(t)
	repo := NewPeriodRepository(d.DB)
	ctx := context.Background()

	first, err := repo.Create(ctx, &schema.SixWeekPeriod{Name: "1st Six Weeks", StartDate: "2024-08-19", EndDate: "2024-09-27", Year: "2024-2025"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &schema.SixWeekPeriod{Name: "2nd Six Weeks", StartDate: "2024-09-30", EndDate: "2024-11-08", Year: "2024-2025"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &schema.SixWeekPeriod{Name: "6th Six Weeks", StartDate: "2024-04-15", EndDate: "2024-05-31", Year: "2023-2024"})
	require.NoError(t, err)

	byYear, err := repo.List(ctx, "2024-2025")
	require.NoError(t, err)
	require.Len(t, byYear, 2)
	require.Equal(t, "1st Six Weeks", byYear[0].Name)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "2nd Six Weeks", all[0].Name)
	require.Equal(t, "6th Six Weeks", all[2].Name)

	p, err := repo.FindContaining(ctx, "2024-09-03")
	require.NoError(t, err)
	require.Equal(t, first, p.ID)
	require.True(t, p.Contains("2024-09-27"))

	_, err = repo.FindContaining(ctx, "2024-07-01")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPeriodRepositoryValidatesDates(t *testing.T) {
	d := openTestDatabase(t)
	repo := NewPeriodRepository(d.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, &schema.SixWeekPeriod{Name: "bad", StartDate: "2024-10-01", EndDate: "2024-09-01", Year: "2024"})
	require.ErrorIs(t, err, ErrConstraintViolation)
	_, err = repo.Create(ctx, &schema.SixWeekPeriod{Name: "bad", StartDate: "Aug 19", EndDate: "2024-09-01", Year: "2024"})
	require.ErrorIs(t, err, ErrConstraintViolation)

	id, err := repo.Create(ctx, &schema.SixWeekPeriod{Name: "ok", StartDate: "2024-08-19", EndDate: "2024-09-27", Year: "2024"})
	require.NoError(t, err)

	early := "2024-08-01"
	require.ErrorIs(t, repo.Update(ctx, id, schema.SixWeekPeriodPatch{EndDate: &early}), ErrConstraintViolation)
	later := "2024-10-04"
	require.NoError(t, repo.Update(ctx, id, schema.SixWeekPeriodPatch{EndDate: &later}))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "2024-10-04", got.EndDate)

	require.ErrorIs(t, repo.Update(ctx, 999, schema.SixWeekPeriodPatch{EndDate: &later}), ErrNotFound)
	require.NoError(t, repo.Delete(ctx, id))
	require.ErrorIs(t, repo.Delete(ctx, id), ErrNotFound)
}
