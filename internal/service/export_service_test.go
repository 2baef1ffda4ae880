package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yuqie6/AccomTrack/internal/repository"
	"github.com/yuqie6/AccomTrack/internal/schema"
	"github.com/yuqie6/AccomTrack/internal/service"
)

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestClassSummaryCSV(t *testing.T) {
	r := seedClass(t)

	out, err := r.core.Services.Export.ClassSummaryCSV(context.Background(), r.classID)
	require.NoError(t, err)

	records := readCSV(t, out)
	require.Len(t, records, 4)
	require.Equal(t, []string{"Student ID", "Last Name", "First Name", "Plan Type", "Accommodation Category", "Accommodation Description"}, records[0])
	require.Equal(t, []string{"S200", "Hopper", "Grace", "504", "", ""}, records[1])
	require.Equal(t, []string{"S100", "Lovelace", "Ada", "IEP", "environment", "preferential seating"}, records[2])
	require.Equal(t, []string{"S100", "Lovelace", "Ada", "IEP", "testing", "extended time"}, records[3])
}

func TestTrackingCSV(t *testing.T) {
	r := seedClass(t)
	ctx := context.Background()

	_, err := r.core.Services.Tracking.Record(ctx, r.classID, r.extended, "2024-09-03", true)
	require.NoError(t, err)
	_, err = r.core.Services.Tracking.Record(ctx, r.classID, r.seating, "2024-09-02", false)
	require.NoError(t, err)

	out, err := r.core.Services.Export.TrackingCSV(ctx, r.classID, "2024-09-02", "2024-09-03")
	require.NoError(t, err)

	records := readCSV(t, out)
	require.Len(t, records, 3)
	require.Equal(t, []string{"2024-09-02", "2024-09-03"}, records[0][6:])
	require.Equal(t, "preferential seating", records[1][5])
	require.Equal(t, []string{"", ""}, records[1][6:])
	require.Equal(t, "extended time", records[2][5])
	require.Equal(t, []string{"", "✓"}, records[2][6:])
}

func TestStudentLogPDF(t *testing.T) {
	r := seedClass(t)
	ctx := context.Background()

	_, err := r.core.Services.Tracking.Record(ctx, r.classID, r.extended, "2024-09-03", true)
	require.NoError(t, err)

	pdf, err := r.core.Services.Export.StudentLogPDF(ctx, logRequest(r.ada, r.classID))
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	pid, err := r.core.Repos.Periods.Create(ctx, &schema.SixWeekPeriod{Name: "1st Six Weeks", StartDate: "2024-08-19", EndDate: "2024-09-27", Year: "2024-2025"})
	require.NoError(t, err)
	req := logRequest(r.grace, r.classID)
	req.PeriodID = pid
	pdf, err = r.core.Services.Export.StudentLogPDF(ctx, req)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestStudentLogPDFRequiresEnrollment(t *testing.T) {
	r := seedClass(t)
	ctx := context.Background()

	other, err := r.core.Repos.Students.Create(ctx, &schema.Student{FirstName: "Alan", LastName: "Turing", StudentID: "S300", PlanType: schema.PlanType504})
	require.NoError(t, err)

	_, err = r.core.Services.Export.StudentLogPDF(ctx, logRequest(other, r.classID))
	require.ErrorIs(t, err, repository.ErrNotEnrolled)

	_, err = r.core.Services.Export.StudentLogPDF(ctx, logRequest(999, r.classID))
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestClassPeriodPDFs(t *testing.T) {
	r := seedClass(t)
	ctx := context.Background()

	_, err := r.core.Services.Tracking.Record(ctx, r.classID, r.extended, "2024-09-03", true)
	require.NoError(t, err)
	pid, err := r.core.Repos.Periods.Create(ctx, &schema.SixWeekPeriod{Name: "1st Six Weeks", StartDate: "2024-08-19", EndDate: "2024-09-27", Year: "2024-2025"})
	require.NoError(t, err)

	pdfs, err := r.core.Services.Export.ClassPeriodPDFs(ctx, r.classID, pid)
	require.NoError(t, err)
	require.Len(t, pdfs, 2)

	require.Equal(t, r.grace, pdfs[0].StudentID)
	require.Equal(t, "Hopper_Grace_1st_Six_Weeks.pdf", pdfs[0].FileName)
	require.Equal(t, r.ada, pdfs[1].StudentID)
	require.Equal(t, "Lovelace_Ada_1st_Six_Weeks.pdf", pdfs[1].FileName)
	for _, p := range pdfs {
		require.NoError(t, p.Err)
		require.True(t, bytes.HasPrefix(p.Data, []byte("%PDF")))
	}

	_, err = r.core.Services.Export.ClassPeriodPDFs(ctx, r.classID, pid+1)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func logRequest(studentID, classID int64) service.StudentLogRequest {
	return service.StudentLogRequest{StudentID: studentID, ClassID: classID, From: "2024-09-02", To: "2024-09-06"}
}
