package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yuqie6/AccomTrack/internal/eventbus"
	"github.com/yuqie6/AccomTrack/internal/repository"
	"github.com/yuqie6/AccomTrack/internal/schema"
)

func TestRecordPublishesEvent(t *testing.T) {
	r := seedClass(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := r.core.Events.Subscribe(ctx, 4)

	id, err := r.core.Services.Tracking.Record(ctx, r.classID, r.extended, "2024-09-03", true)
	require.NoError(t, err)
	require.NotZero(t, id)

	select {
	case evt := <-events:
		require.Equal(t, eventbus.TypeServiceLogUpdated, evt.Type)
		require.Equal(t, r.extended, evt.Data["accommodation_id"])
		require.Equal(t, true, evt.Data["provided"])
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}

func TestRecordRejectsUnenrolled(t *testing.T) {
	r := seedClass(t)
	ctx := context.Background()
	other, err := r.core.Repos.Classes.Create(ctx, &schema.Class{Name: "Biology"})
	require.NoError(t, err)

	_, err = r.core.Services.Tracking.Record(ctx, other, r.extended, "2024-09-03", true)
	require.ErrorIs(t, err, repository.ErrNotEnrolled)
}

func TestWeekTracking(t *testing.T) {
	r := seedClass(t)
	ctx := context.Background()
	tracking := r.core.Services.Tracking

	_, err := tracking.Record(ctx, r.classID, r.extended, "2024-09-03", true)
	require.NoError(t, err)
	_, err = tracking.Record(ctx, r.classID, r.seating, "2024-09-04", false)
	require.NoError(t, err)
	// outside the Monday-Thursday window
	_, err = tracking.Record(ctx, r.classID, r.extended, "2024-09-06", true)
	require.NoError(t, err)

	grid, err := tracking.WeekTracking(ctx, r.classID, "2024-09-05")
	require.NoError(t, err)
	require.Equal(t, []string{"2024-09-02", "2024-09-03", "2024-09-04", "2024-09-05"}, grid.Dates)
	require.Equal(t, "2024-09-02", grid.From)
	require.Equal(t, "2024-09-05", grid.To)
	require.Len(t, grid.Students, 2)

	ada := grid.Student(r.ada)
	require.NotNil(t, ada)
	require.Len(t, ada.Accommodations, 2)
	for _, acc := range ada.Accommodations {
		switch acc.ID {
		case r.extended:
			require.Equal(t, map[string]bool{"2024-09-03": true}, acc.Logs)
		case r.seating:
			require.Equal(t, map[string]bool{"2024-09-04": false}, acc.Logs)
		}
	}

	grace := grid.Student(r.grace)
	require.NotNil(t, grace)
	require.Empty(t, grace.Accommodations)
}

func TestToggleThroughService(t *testing.T) {
	r := seedClass(t)
	ctx := context.Background()

	l, err := r.core.Services.Tracking.Toggle(ctx, r.classID, r.seating, "2024-09-03")
	require.NoError(t, err)
	require.True(t, l.Provided)
	l, err = r.core.Services.Tracking.Toggle(ctx, r.classID, r.seating, "2024-09-03")
	require.NoError(t, err)
	require.False(t, l.Provided)
}

func TestClassTrackingValidatesRange(t *testing.T) {
	r := seedClass(t)
	ctx := context.Background()

	_, err := r.core.Services.Tracking.ClassTracking(ctx, r.classID, "2024-09-10", "2024-09-02")
	require.ErrorIs(t, err, repository.ErrConstraintViolation)
	_, err = r.core.Services.Tracking.ClassTracking(ctx, r.classID, "soon", "2024-09-02")
	require.ErrorIs(t, err, repository.ErrConstraintViolation)
	_, err = r.core.Services.Tracking.ClassTracking(ctx, r.classID, "0001-01-01", "9999-12-31")
	require.ErrorIs(t, err, repository.ErrConstraintViolation)
	_, err = r.core.Services.Tracking.WeekdayTracking(ctx, r.classID, "2024-08-01", "2025-08-02")
	require.ErrorIs(t, err, repository.ErrConstraintViolation)

	grid, err := r.core.Services.Tracking.ClassTracking(ctx, r.classID, "2024-08-01", "2025-07-31")
	require.NoError(t, err)
	require.Len(t, grid.Dates, 365)
}

func TestPeriodTracking(t *testing.T) {
	r := seedClass(t)
	ctx := context.Background()

	pid, err := r.core.Repos.Periods.Create(ctx, &schema.SixWeekPeriod{Name: "1st Six Weeks", StartDate: "2024-08-19", EndDate: "2024-09-27", Year: "2024-2025"})
	require.NoError(t, err)

	grid, p, err := r.core.Services.Tracking.PeriodTracking(ctx, r.classID, pid)
	require.NoError(t, err)
	require.Equal(t, "1st Six Weeks", p.Name)
	require.Len(t, grid.Dates, 30)
	require.Equal(t, "2024-08-19", grid.From)
	require.Equal(t, "2024-09-27", grid.To)
	require.NotContains(t, grid.Dates, "2024-08-24")
	require.NotContains(t, grid.Dates, "2024-08-25")
	for _, d := range grid.Dates {
		wd := mustDate(t, d).Weekday()
		require.NotEqual(t, time.Saturday, wd, d)
		require.NotEqual(t, time.Sunday, wd, d)
	}

	_, _, err = r.core.Services.Tracking.PeriodTracking(ctx, r.classID, pid+1)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
