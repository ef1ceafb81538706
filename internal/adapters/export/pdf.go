package export

import (
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"github.com/sohrab4u/consultation/internal/domain/report"
)

// Truncation budgets for the details table.
const (
	textBudget = 50
	idBudget   = 20
	ellipsis   = "..."
)

const (
	pdfMargin     = 10.0
	pdfLineHeight = 3.6
	pdfFontSize   = 7.0
)

// Column widths in mm for the landscape details table, in report.Header order.
var detailWidths = []float64{20, 22, 15, 15, 40, 40, 16, 17, 30, 31, 31}

// Header positions whose text is truncated to idBudget; the rest of the text
// columns use textBudget. TimeTaken shows malformed input as typed, so it is
// cut like an identifier.
var idColumns = map[int]bool{0: true, 1: true, 6: true, 7: true}

// numericColumns are rendered untouched.
var numericColumns = map[int]bool{2: true, 3: true}

// PDF writes a paginated document with a summary table and a details table.
type PDF struct{}

// Format implements Encoder.
func (PDF) Format() string { return FormatPDF }

// Encode implements Encoder.
func (PDF) Encode(w io.Writer, doc *Document) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetTitle(title(doc), true)
	pdf.SetCreator("consultation", true)
	if !doc.GeneratedAt.IsZero() {
		pdf.SetCreationDate(doc.GeneratedAt)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin + 2)
		pdf.SetFont("Helvetica", "I", pdfFontSize)
		pdf.CellFormat(0, 4, pageLabel(pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(title(doc)), "", 1, "C", false, 0, "")
	if !doc.GeneratedAt.IsZero() || doc.RunID != "" {
		pdf.SetFont("Helvetica", "", 8)
		line := "Generated " + doc.GeneratedAt.Format("2006-01-02 15:04 MST")
		if doc.RunID != "" {
			line += "  |  Run " + doc.RunID
		}
		pdf.CellFormat(0, 5, tr(line), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	heading(pdf, tr, "Summary Statistics")
	metrics := doc.Summary.Metrics()
	summary := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		summary = append(summary, []string{m.Name, m.Value})
	}
	table(pdf, tr, []float64{80, 60}, []string{"Metric", "Value"}, summary)

	if msgs := doc.Summary.FailureMessages(doc.FailureLimit); len(msgs) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "I", pdfFontSize)
		for _, m := range msgs {
			pdf.CellFormat(0, pdfLineHeight+0.4, tr(m), "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(4)

	heading(pdf, tr, "Patient Consultation Details")
	details := make([][]string, 0, len(doc.Rows))
	for i := range doc.Rows {
		details = append(details, truncateRow(doc.Rows[i].Values()))
	}
	table(pdf, tr, detailWidths, report.Header(), details)

	return pdf.Output(w)
}

func truncateRow(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		switch {
		case numericColumns[i]:
			out[i] = v
		case idColumns[i]:
			out[i] = Truncate(v, idBudget)
		default:
			out[i] = Truncate(v, textBudget)
		}
	}
	return out
}

// Truncate shortens s to n characters and marks the cut with an ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + ellipsis
}

func heading(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	ensureSpace(pdf, 12)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr(text), "", 1, "L", false, 0, "")
}

// table draws a grid with a repeated header row. Cells wrap and each row is
// as tall as its tallest cell.
func table(pdf *fpdf.Fpdf, tr func(string) string, widths []float64, header []string, rows [][]string) {
	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", pdfFontSize)
		pdf.SetFillColor(128, 128, 128)
		pdf.SetTextColor(245, 245, 245)
		tableRow(pdf, tr, widths, header, true)
		pdf.SetFont("Helvetica", "", pdfFontSize)
		pdf.SetFillColor(255, 255, 255)
		pdf.SetTextColor(0, 0, 0)
	}

	drawHeader()
	for _, r := range rows {
		pdf.SetFont("Helvetica", "", pdfFontSize)
		if ensureSpace(pdf, rowHeight(pdf, tr, widths, r)) {
			drawHeader()
		}
		tableRow(pdf, tr, widths, r, false)
	}
}

func rowHeight(pdf *fpdf.Fpdf, tr func(string) string, widths []float64, cells []string) float64 {
	lines := 1
	for i, c := range cells {
		if n := len(pdf.SplitLines([]byte(tr(c)), widths[i]-1)); n > lines {
			lines = n
		}
	}
	return float64(lines)*pdfLineHeight + 1
}

func tableRow(pdf *fpdf.Fpdf, tr func(string) string, widths []float64, cells []string, fill bool) {
	h := rowHeight(pdf, tr, widths, cells)
	x, y := pdf.GetXY()
	for i, c := range cells {
		pdf.Rect(x, y, widths[i], h, styleFor(fill))
		pdf.SetXY(x, y+0.5)
		pdf.MultiCell(widths[i], pdfLineHeight, tr(c), "", "C", false)
		x += widths[i]
	}
	pdf.SetXY(pdfMargin, y+h)
}

func styleFor(fill bool) string {
	if fill {
		return "FD"
	}
	return "D"
}

// ensureSpace starts a new page when less than h mm remain. It reports
// whether a page was added.
func ensureSpace(pdf *fpdf.Fpdf, h float64) bool {
	_, pageH := pdf.GetPageSize()
	if pdf.GetY()+h <= pageH-pdfMargin {
		return false
	}
	pdf.AddPage()
	return true
}

func pageLabel(n int) string { return "Page " + strconv.Itoa(n) }
