package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yuqie6/AccomTrack/internal/bootstrap"
	"github.com/yuqie6/AccomTrack/internal/schema"
	"github.com/yuqie6/AccomTrack/internal/testutil"
)

type roster struct {
	core     *bootstrap.Core
	classID  int64
	ada      int64
	grace    int64
	extended int64
	seating  int64
}

// seedClass enrolls two students in one class; only Ada has accommodations.
func seedClass(t *testing.T) roster {
	t.Helper()
	ctx := context.Background()
	core := testutil.OpenTestCore(t)
	r := roster{core: core}

	var err error
	r.classID, err = core.Repos.Classes.Create(ctx, &schema.Class{Name: "Algebra I", Subject: "Math", Period: "2", Year: "2024-2025"})
	require.NoError(t, err)
	r.ada, err = core.Repos.Students.Create(ctx, &schema.Student{FirstName: "Ada", LastName: "Lovelace", StudentID: "S100", PlanType: schema.PlanTypeIEP})
	require.NoError(t, err)
	r.grace, err = core.Repos.Students.Create(ctx, &schema.Student{FirstName: "Grace", LastName: "Hopper", StudentID: "S200", PlanType: schema.PlanType504})
	require.NoError(t, err)
	r.extended, err = core.Repos.Accommodations.Create(ctx, &schema.Accommodation{StudentID: r.ada, Description: "extended time", Category: "testing"})
	require.NoError(t, err)
	r.seating, err = core.Repos.Accommodations.Create(ctx, &schema.Accommodation{StudentID: r.ada, Description: "preferential seating", Category: "environment"})
	require.NoError(t, err)

	_, err = core.Repos.Enrollments.Add(ctx, r.classID, r.ada)
	require.NoError(t, err)
	_, err = core.Repos.Enrollments.Add(ctx, r.classID, r.grace)
	require.NoError(t, err)
	return r
}
