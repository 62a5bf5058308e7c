package model

import (
	"time"

	"github.com/google/uuid"
)

type ReportStatus string

const (
	ReportStatusDraft ReportStatus = "DRAFT"
	ReportStatusFinal ReportStatus = "FINAL"
)

// DailyReport is the root aggregate: one working day, grouped by client.
// TotalHours is authoritative only while Status is FINAL; a draft's total is
// recomputed live via TotalHours().
type DailyReport struct {
	ID          uuid.UUID       `json:"id"`
	Date        time.Time       `json:"date"`
	Status      ReportStatus    `json:"status"`
	Trasferta   bool            `json:"trasferta"`
	TotalHours  float64         `json:"total_hours"`
	CreatedAt   time.Time       `json:"created_at"`
	FinalizedAt *time.Time      `json:"finalized_at,omitempty"`
	Clients     []ClientSection `json:"clients"`
}

func (r *DailyReport) IsDraft() bool {
	return r.Status == ReportStatusDraft
}

func (r *DailyReport) IsFinal() bool {
	return r.Status == ReportStatusFinal
}

// ActivityCount counts activities across all client sections.
func (r *DailyReport) ActivityCount() int {
	count := 0
	for _, client := range r.Clients {
		count += len(client.Activities)
	}
	return count
}

// DateOnly normalizes a timestamp to local midnight. Report dates are stored
// at day granularity.
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
