package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// ServiceLogSheet is the content of a per-student accommodation services log.
type ServiceLogSheet struct {
	Title   string
	Header  []string // info lines under the title
	Empty   string   // shown instead of the table when there are no columns
	Columns []string // accommodation labels
	Rows    []ServiceLogRow
}

// ServiceLogRow one date and a provided flag per column.
type ServiceLogRow struct {
	Label    string
	Provided []bool
}

// PDFExporter renders services logs as letter-size PDFs.
type PDFExporter struct {
	Mark string
}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{Mark: "X"}
}

const (
	pageWidth       = 215.9 // letter, mm
	pageMargin      = 18.0
	dateColumnWidth = 32.0
	rowHeight       = 8.0
	minColumnWidth  = 30.0
	tableWidth      = pageWidth - 2*pageMargin - dateColumnWidth
)

// MaxColumnsPerTable accommodations drawn side by side (tableWidth / minColumnWidth)
// before the table continues on a new page.
const MaxColumnsPerTable = 4

// columnChunks splits n columns into [lo, hi) ranges of at most MaxColumnsPerTable.
func columnChunks(n int) [][2]int {
	var out [][2]int
	for lo := 0; lo < n; lo += MaxColumnsPerTable {
		out = append(out, [2]int{lo, min(lo+MaxColumnsPerTable, n)})
	}
	return out
}

// Render lays the sheet out as a date × accommodation grid, repeating the header row
// on every page. Wide sheets are split into several tables of MaxColumnsPerTable columns.
func (e *PDFExporter) Render(sheet ServiceLogSheet) ([]byte, error) {
	if sheet.Title == "" {
		return nil, fmt.Errorf("pdf requires a title")
	}
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(sheet.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range sheet.Header {
		pdf.CellFormat(0, 6, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	if len(sheet.Columns) == 0 {
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 6, tr(sheet.Empty), "", 1, "L", false, 0, "")
	} else {
		chunks := columnChunks(len(sheet.Columns))
		var lo, hi int
		var colWidth float64
		header := func() {
			pdf.SetFont("Helvetica", "B", 9)
			pdf.SetFillColor(230, 230, 230)
			pdf.CellFormat(dateColumnWidth, rowHeight, "Date", "1", 0, "C", true, 0, "")
			for _, c := range sheet.Columns[lo:hi] {
				pdf.CellFormat(colWidth, rowHeight, tr(fit(pdf, c, colWidth)), "1", 0, "C", true, 0, "")
			}
			pdf.Ln(-1)
			pdf.SetFont("Helvetica", "", 9)
		}
		started := false
		pdf.SetHeaderFunc(func() {
			if started {
				header()
			}
		})

		for n, chunk := range chunks {
			lo, hi = chunk[0], chunk[1]
			colWidth = tableWidth / float64(hi-lo)
			if n > 0 {
				started = false
				pdf.AddPage()
			}
			if len(chunks) > 1 {
				pdf.SetFont("Helvetica", "", 9)
				pdf.SetTextColor(102, 102, 102)
				pdf.CellFormat(0, 6, fmt.Sprintf("Accommodations %d-%d of %d", lo+1, hi, len(sheet.Columns)), "", 1, "L", false, 0, "")
				pdf.SetTextColor(0, 0, 0)
			}
			header()
			started = true

			for i, row := range sheet.Rows {
				fill := i%2 == 0
				pdf.SetFillColor(245, 245, 245)
				pdf.CellFormat(dateColumnWidth, rowHeight, tr(row.Label), "1", 0, "L", fill, 0, "")
				for j := lo; j < hi; j++ {
					mark := ""
					if j < len(row.Provided) && row.Provided[j] {
						mark = e.Mark
					}
					pdf.CellFormat(colWidth, rowHeight, mark, "1", 0, "C", fill, 0, "")
				}
				pdf.Ln(-1)
			}
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// fit truncates s with an ellipsis until it fits in width.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	const pad = 2.0
	if pdf.GetStringWidth(s) <= width-pad {
		return s
	}
	runes := []rune(s)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if pdf.GetStringWidth(candidate) <= width-pad {
			return candidate
		}
	}
	return string(runes)
}
