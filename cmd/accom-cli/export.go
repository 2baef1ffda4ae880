package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yuqie6/AccomTrack/internal/service"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "export", Short: "Export summaries and logs as CSV or PDF"}

	var classID int64
	var out string

	summary := &cobra.Command{
		Use:   "summary",
		Short: "Class accommodation summary as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := core.Services.Export.ClassSummaryCSV(cmd.Context(), classID)
			if err != nil {
				return err
			}
			return writeOutput(out, data)
		},
	}

	var from, to string
	tracking := &cobra.Command{
		Use:   "tracking",
		Short: "Tracking grid for a date range as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := core.Services.Export.TrackingCSV(cmd.Context(), classID, from, to)
			if err != nil {
				return err
			}
			return writeOutput(out, data)
		},
	}
	tracking.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	tracking.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD)")
	_ = tracking.MarkFlagRequired("from")
	_ = tracking.MarkFlagRequired("to")

	var req service.StudentLogRequest
	studentPDF := &cobra.Command{
		Use:   "student-log",
		Short: "One student's accommodation services log as PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.PeriodID == 0 && (req.From == "" || req.To == "") {
				return fmt.Errorf("either --period or both --from and --to are required")
			}
			req.ClassID = classID
			data, err := core.Services.Export.StudentLogPDF(cmd.Context(), req)
			if err != nil {
				return err
			}
			if out == "" {
				out = fmt.Sprintf("accommodation_log_%d_%d.pdf", req.StudentID, req.ClassID)
			}
			return writeOutput(out, data)
		},
	}
	studentPDF.Flags().Int64Var(&req.StudentID, "student", 0, "student row id")
	studentPDF.Flags().Int64Var(&req.PeriodID, "period", 0, "six-week period id")
	studentPDF.Flags().StringVar(&req.From, "from", "", "first day (YYYY-MM-DD)")
	studentPDF.Flags().StringVar(&req.To, "to", "", "last day (YYYY-MM-DD)")
	_ = studentPDF.MarkFlagRequired("student")

	var periodID int64
	var dir string
	periodPDFs := &cobra.Command{
		Use:   "period-pdfs",
		Short: "One services log PDF per enrolled student for a six-week period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pdfs, err := core.Services.Export.ClassPeriodPDFs(cmd.Context(), classID, periodID)
			if err != nil {
				return err
			}
			if len(pdfs) == 0 {
				fmt.Println("no students to export")
				return nil
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
			var ok, failed int
			for _, p := range pdfs {
				if p.Err == nil {
					p.Err = os.WriteFile(filepath.Join(dir, p.FileName), p.Data, 0o644)
				}
				if p.Err != nil {
					slog.Error("student pdf failed", "student_id", p.StudentID, "file", p.FileName, "error", p.Err)
					failed++
					continue
				}
				ok++
			}
			fmt.Printf("exported %d, errors %d -> %s\n", ok, failed, dir)
			if failed > 0 {
				return fmt.Errorf("%d of %d PDFs failed", failed, len(pdfs))
			}
			return nil
		},
	}
	periodPDFs.Flags().Int64Var(&classID, "class", 0, "class id")
	periodPDFs.Flags().Int64Var(&periodID, "period", 0, "six-week period id")
	periodPDFs.Flags().StringVar(&dir, "dir", ".", "output directory")
	_ = periodPDFs.MarkFlagRequired("class")
	_ = periodPDFs.MarkFlagRequired("period")

	for _, c := range []*cobra.Command{summary, tracking, studentPDF} {
		c.Flags().Int64Var(&classID, "class", 0, "class id")
		c.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
		_ = c.MarkFlagRequired("class")
	}

	cmd.AddCommand(summary, tracking, studentPDF, periodPDFs)
	return cmd
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s (%d bytes)\n", path, len(data))
	return nil
}
