package report

import (
	"bytes"
	"fmt"

	"ganak-service/src/models"

	"github.com/jung-kurt/gofpdf"
)

// RenderPDF lays out a report as a single A4 document.
func RenderPDF(r models.Report, owner string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetTitle(r.Title, true)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(20, 60, 120)
	pdf.CellFormat(0, 10, tr(r.Title), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Prepared for %s on %s", owner, r.CreatedAt.Format("2006-01-02"))), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if r.Summary != "" {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, tr(r.Summary), "", "L", false)
		pdf.Ln(4)
	}

	if len(r.Findings) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, "Findings", "", 1, "L", false, 0, "")
		addRow(pdf, tr, []string{"Test", "Value", "Unit", "Reference range"}, true)
		for _, f := range r.Findings {
			addRow(pdf, tr, []string{f.Name, f.Value, f.Unit, f.Range}, false)
		}
	}

	pdf.SetY(pdf.GetY() + 10)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 6, "This is a computer generated report", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var columnWidths = []float64{70, 40, 30, 50}

func addRow(pdf *gofpdf.Fpdf, tr func(string) string, cells []string, isHeader bool) {
	if isHeader {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(230, 230, 240)
	} else {
		pdf.SetFont("Arial", "", 10)
		pdf.SetFillColor(255, 255, 255)
	}
	for i, c := range cells {
		pdf.CellFormat(columnWidths[i], 8, tr(c), "1", 0, "", true, 0, "")
	}
	pdf.Ln(-1)
}
