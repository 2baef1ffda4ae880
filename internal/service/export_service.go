package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/yuqie6/AccomTrack/internal/pkg/export"
	"github.com/yuqie6/AccomTrack/internal/repository"
	"github.com/yuqie6/AccomTrack/internal/schema"
)

var summaryHeaders = []string{
	"Student ID",
	"Last Name",
	"First Name",
	"Plan Type",
	"Accommodation Category",
	"Accommodation Description",
}

// DefaultCheckMark marks a provided accommodation in tracking exports.
const DefaultCheckMark = "✓"

// ExportService renders roster and tracking data as CSV or PDF
type ExportService struct {
	roster    *RosterService
	tracking  *TrackingService
	students  StudentRepository
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	checkMark string
}

func NewExportService(roster *RosterService, tracking *TrackingService, students StudentRepository, checkMark string) *ExportService {
	if checkMark == "" {
		checkMark = DefaultCheckMark
	}
	return &ExportService{
		roster:    roster,
		tracking:  tracking,
		students:  students,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		checkMark: checkMark,
	}
}

// ClassSummaryCSV one row per accommodation; a student without accommodations still
// gets a row with the accommodation columns blank.
func (s *ExportService) ClassSummaryCSV(ctx context.Context, classID int64) ([]byte, error) {
	summary, err := s.roster.ClassSummary(ctx, classID)
	if err != nil {
		return nil, err
	}
	return s.csv.Render(SummaryDataset(summary))
}

// SummaryDataset flattens a class summary for export.
func SummaryDataset(summary *ClassSummary) export.Dataset {
	data := export.Dataset{Headers: summaryHeaders}
	for _, st := range summary.Students {
		if len(st.Accommodations) == 0 {
			data.AddRow(st.StudentID, st.LastName, st.FirstName, st.PlanType, "", "")
			continue
		}
		for _, acc := range st.Accommodations {
			data.AddRow(st.StudentID, st.LastName, st.FirstName, st.PlanType, acc.Category, acc.Description)
		}
	}
	return data
}

// TrackingCSV exports the grid for [from, to]: summary columns plus one column per date.
func (s *ExportService) TrackingCSV(ctx context.Context, classID int64, from, to string) ([]byte, error) {
	grid, err := s.tracking.ClassTracking(ctx, classID, from, to)
	if err != nil {
		return nil, err
	}
	return s.csv.Render(TrackingDataset(grid, s.checkMark))
}

// TrackingDataset flattens a tracking grid; students without accommodations are omitted.
func TrackingDataset(grid *ClassTracking, mark string) export.Dataset {
	headers := append(append([]string{}, summaryHeaders...), grid.Dates...)
	data := export.Dataset{Headers: headers}
	for _, st := range grid.Students {
		for _, acc := range st.Accommodations {
			values := []string{st.StudentID, st.LastName, st.FirstName, st.PlanType, acc.Category, acc.Description}
			for _, d := range grid.Dates {
				if acc.Logs[d] {
					values = append(values, mark)
				} else {
					values = append(values, "")
				}
			}
			data.AddRow(values...)
		}
	}
	return data
}

// StudentLogRequest selects the sheet for StudentLogPDF. PeriodID wins over From/To.
// Sheets list weekdays only.
type StudentLogRequest struct {
	StudentID int64
	ClassID   int64
	PeriodID  int64
	From      string
	To        string
}

// StudentLogPDF renders one student's accommodation services log for a class.
func (s *ExportService) StudentLogPDF(ctx context.Context, req StudentLogRequest) ([]byte, error) {
	var (
		grid   *ClassTracking
		period *schema.SixWeekPeriod
		err    error
	)
	if req.PeriodID > 0 {
		grid, period, err = s.tracking.PeriodTracking(ctx, req.ClassID, req.PeriodID)
	} else {
		grid, err = s.tracking.WeekdayTracking(ctx, req.ClassID, req.From, req.To)
	}
	if err != nil {
		return nil, err
	}

	row := grid.Student(req.StudentID)
	if row == nil {
		if _, err := s.students.GetByID(ctx, req.StudentID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("student log pdf: student=%d class=%d: %w", req.StudentID, req.ClassID, repository.ErrNotEnrolled)
	}
	return s.pdf.Render(studentSheet(grid, row, period))
}

// StudentPDF one rendered sheet of a batch; Err is set instead of Data when rendering failed.
type StudentPDF struct {
	StudentID int64
	FileName  string
	Data      []byte
	Err       error
}

// ClassPeriodPDFs renders a services log for every student enrolled in classID over the
// weekdays of periodID, in roster order. A student whose sheet fails to render is
// reported through StudentPDF.Err and does not stop the batch.
func (s *ExportService) ClassPeriodPDFs(ctx context.Context, classID, periodID int64) ([]StudentPDF, error) {
	grid, period, err := s.tracking.PeriodTracking(ctx, classID, periodID)
	if err != nil {
		return nil, err
	}
	out := make([]StudentPDF, 0, len(grid.Students))
	for i := range grid.Students {
		st := &grid.Students[i]
		item := StudentPDF{StudentID: st.ID, FileName: periodFileName(st.Student, period)}
		item.Data, item.Err = s.pdf.Render(studentSheet(grid, st, period))
		out = append(out, item)
	}
	return out, nil
}

func periodFileName(st schema.Student, period *schema.SixWeekPeriod) string {
	name := strings.Join([]string{st.LastName, st.FirstName, strings.Join(strings.Fields(period.Name), "_")}, "_")
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, name) + ".pdf"
}

func studentSheet(grid *ClassTracking, st *StudentTracking, period *schema.SixWeekPeriod) export.ServiceLogSheet {
	sheet := export.ServiceLogSheet{
		Title: "Accommodation Services Log",
		Empty: "No accommodations defined for this student.",
	}
	sheet.Header = append(sheet.Header,
		fmt.Sprintf("Student: %s %s", initial(st.FirstName), st.LastName),
		fmt.Sprintf("Class: %s - %s (Period %s)", grid.Class.Name, grid.Class.Subject, grid.Class.Period),
	)
	if period != nil {
		sheet.Header = append(sheet.Header, fmt.Sprintf("Six-Week Period: %s (%s)", period.Name, period.Year))
	}
	sheet.Header = append(sheet.Header, fmt.Sprintf("Date Range: %s - %s", grid.From, grid.To))

	for _, acc := range st.Accommodations {
		sheet.Columns = append(sheet.Columns, acc.Description)
	}
	if len(sheet.Columns) == 0 {
		return sheet
	}
	for _, d := range grid.Dates {
		r := export.ServiceLogRow{Label: d, Provided: make([]bool, len(st.Accommodations))}
		for i, acc := range st.Accommodations {
			r.Provided[i] = acc.Logs[d]
		}
		sheet.Rows = append(sheet.Rows, r)
	}
	return sheet
}

func initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return string([]rune(name)[0]) + "."
}
