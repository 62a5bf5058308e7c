package model

import (
	"time"

	"github.com/google/uuid"
)

// PaletteSize is the number of distinct client colors the UI cycles through.
const PaletteSize = 6

// ClientSection groups the activities performed for one client within a
// daily report. ColorTag is a cyclic index into the UI palette, assigned at
// append time.
type ClientSection struct {
	ID            uuid.UUID  `json:"id"`
	DailyReportID uuid.UUID  `json:"daily_report_id"`
	ClientName    string     `json:"client_name"`
	JobSite       string     `json:"job_site"`
	ColorTag      int        `json:"color_tag"`
	CreatedAt     time.Time  `json:"created_at"`
	Activities    []Activity `json:"activities"`
}

// NextColorTag returns the palette index for the section appended after
// existing ones.
func NextColorTag(existing int) int {
	if existing < 0 {
		existing = 0
	}
	return existing % PaletteSize
}
