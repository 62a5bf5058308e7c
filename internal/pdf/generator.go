package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/ldelai/rapportino/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// Generate renders a printable daily report: header, one block per client
// section with its activity table, totals and a signature line.
func (g *Generator) Generate(report model.DailyReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	translator := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, translator("Rapportino giornaliero"), "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, translator(fmt.Sprintf("Data: %s", formatDate(report.Date))), "", 1, "C", false, 0, "")
	status := "Bozza"
	if report.IsFinal() {
		status = fmt.Sprintf("Finalizzato il %s", formatTimestamp(report.FinalizedAt))
	}
	pdf.CellFormat(0, 6, translator(status), "", 1, "C", false, 0, "")
	if report.Trasferta {
		pdf.CellFormat(0, 6, translator("Trasferta"), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	for _, client := range report.Clients {
		pdf.SetFont(g.fontName, "B", 12)
		pdf.CellFormat(0, 8, translator(client.ClientName), "", 1, "L", false, 0, "")
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 5, translator(fmt.Sprintf("Cantiere: %s", client.JobSite)), "", 1, "L", false, 0, "")
		pdf.Ln(1)

		headers := []string{"Tipo", "Nome", "Quantità", "Note"}
		colWidths := []float64{25, 60, 25, 70}
		drawTableRow(pdf, g.fontName, translator, headers, colWidths, true)

		for _, activity := range client.Activities {
			var row []string
			switch activity.Type {
			case model.ActivityTypeMachine:
				row = []string{
					"Macchina",
					activity.MachineName,
					fmt.Sprintf("%.2f h", activity.Hours),
					activity.Description,
				}
			case model.ActivityTypeMaterial:
				row = []string{
					"Materiale",
					activity.MaterialName,
					fmt.Sprintf("%.2f %s", activity.Quantity, unitLabel(activity.Unit)),
					activity.Notes,
				}
			default:
				continue
			}
			drawTableRow(pdf, g.fontName, translator, row, colWidths, false)
		}
		pdf.Ln(4)
	}

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, translator(fmt.Sprintf("Ore totali: %.2f", reportHours(report))), "", 1, "R", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, translator("Firma: ______________________"), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, translator func(string) string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i == 2 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, translator(col), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func reportHours(report model.DailyReport) float64 {
	if report.IsFinal() {
		return report.TotalHours
	}
	return model.TotalHours(&report)
}

func unitLabel(unit model.MaterialUnit) string {
	switch unit {
	case model.UnitCubicMeters:
		return "m³"
	case model.UnitTons:
		return "ton"
	default:
		return strings.ToLower(string(unit))
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006")
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02.01.2006 15:04")
}
