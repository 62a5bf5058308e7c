package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/ldelai/rapportino/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders a daily report as a workbook: a summary sheet plus one
// sheet per client section with its activity table.
func (g *Generator) Generate(report model.DailyReport) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Riepilogo"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, report); err != nil {
		return nil, err
	}

	usedNames := map[string]struct{}{summarySheet: {}}
	for _, client := range report.Clients {
		sheetName := buildSheetName(client.ClientName, client.ID, usedNames)
		usedNames[sheetName] = struct{}{}

		file.NewSheet(sheetName)
		if err := g.writeClient(file, sheetName, client); err != nil {
			return nil, err
		}
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, report model.DailyReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Data")
	set("B1", formatDate(report.Date))
	set("A2", "Stato")
	set("B2", statusLabel(report.Status))
	set("A3", "Trasferta")
	set("B3", boolLabel(report.Trasferta))
	set("A4", "Ore totali")
	set("B4", fmt.Sprintf("%.2f", reportHours(report)))
	set("A5", "Finalizzato il")
	set("B5", formatTimestamp(report.FinalizedAt))

	tableRow := 7
	set(fmt.Sprintf("A%d", tableRow), "Cliente")
	set(fmt.Sprintf("B%d", tableRow), "Cantiere")
	set(fmt.Sprintf("C%d", tableRow), "Attività")
	set(fmt.Sprintf("D%d", tableRow), "Ore macchina")

	for i, client := range report.Clients {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), client.ClientName)
		set(fmt.Sprintf("B%d", row), client.JobSite)
		set(fmt.Sprintf("C%d", row), len(client.Activities))
		set(fmt.Sprintf("D%d", row), fmt.Sprintf("%.2f", clientHours(client)))
	}

	_ = file.SetColWidth(sheet, "A", "B", 32)
	_ = file.SetColWidth(sheet, "C", "D", 14)
	return nil
}

func (g *Generator) writeClient(file *excelize.File, sheet string, client model.ClientSection) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Cliente")
	set("B1", client.ClientName)
	set("A2", "Cantiere")
	set("B2", client.JobSite)
	set("A3", "Ore macchina")
	set("B3", fmt.Sprintf("%.2f", clientHours(client)))

	tableRow := 5
	headers := []string{"Tipo", "Nome", "Quantità", "Unità", "Note"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, activity := range client.Activities {
		row := tableRow + 1 + i
		switch activity.Type {
		case model.ActivityTypeMachine:
			set(fmt.Sprintf("A%d", row), "MACCHINA")
			set(fmt.Sprintf("B%d", row), activity.MachineName)
			set(fmt.Sprintf("C%d", row), fmt.Sprintf("%.2f", activity.Hours))
			set(fmt.Sprintf("D%d", row), "ore")
			set(fmt.Sprintf("E%d", row), activity.Description)
		case model.ActivityTypeMaterial:
			set(fmt.Sprintf("A%d", row), "MATERIALE")
			set(fmt.Sprintf("B%d", row), activity.MaterialName)
			set(fmt.Sprintf("C%d", row), fmt.Sprintf("%.2f", activity.Quantity))
			set(fmt.Sprintf("D%d", row), unitLabel(activity.Unit))
			set(fmt.Sprintf("E%d", row), activity.Notes)
		}
	}

	_ = file.SetColWidth(sheet, "A", "A", 12)
	_ = file.SetColWidth(sheet, "B", "B", 32)
	_ = file.SetColWidth(sheet, "C", "D", 10)
	_ = file.SetColWidth(sheet, "E", "E", 40)
	return nil
}

func buildSheetName(name string, id uuid.UUID, used map[string]struct{}) string {
	base := strings.TrimSpace(name)
	if base == "" {
		base = id.String()
	}
	base = sanitizeSheetName(base)
	if len(base) > 31 {
		base = base[:31]
	}

	candidate := base
	counter := 2
	for {
		if _, exists := used[candidate]; !exists {
			return candidate
		}
		suffix := fmt.Sprintf("-%d", counter)
		trimmed := base
		if len(trimmed)+len(suffix) > 31 {
			trimmed = trimmed[:31-len(suffix)]
		}
		candidate = trimmed + suffix
		counter++
	}
}

func sanitizeSheetName(value string) string {
	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = strings.TrimSpace(replacer.Replace(value))
	if value == "" {
		return "Cliente"
	}
	return value
}

func reportHours(report model.DailyReport) float64 {
	if report.IsFinal() {
		return report.TotalHours
	}
	return model.TotalHours(&report)
}

func clientHours(client model.ClientSection) float64 {
	total := 0.0
	for _, activity := range client.Activities {
		if activity.Type == model.ActivityTypeMachine && activity.Hours > 0 {
			total += activity.Hours
		}
	}
	return total
}

func statusLabel(status model.ReportStatus) string {
	if status == model.ReportStatusFinal {
		return "Finalizzato"
	}
	return "Bozza"
}

func unitLabel(unit model.MaterialUnit) string {
	switch unit {
	case model.UnitCubicMeters:
		return "m³"
	case model.UnitTons:
		return "ton"
	default:
		return string(unit)
	}
}

func boolLabel(value bool) string {
	if value {
		return "Sì"
	}
	return "No"
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
