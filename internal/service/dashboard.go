package service

import (
	"context"
	"sort"
	"time"

	"github.com/ldelai/rapportino/internal/model"
	"github.com/ldelai/rapportino/internal/repository"
)

// Dashboard derives rollups over the report set: hours worked this week and
// month, latest finalized days. Finalized reports contribute their stamped
// TotalHours; drafts whose date falls inside the window contribute their
// live-computed hours.
type Dashboard struct {
	store     repository.Store
	weekStart time.Weekday
	now       func() time.Time
}

func NewDashboard(store repository.Store, weekStart time.Weekday) *Dashboard {
	return &Dashboard{
		store:     store,
		weekStart: weekStart,
		now:       time.Now,
	}
}

type Summary struct {
	WeeklyHours  float64             `json:"weekly_hours"`
	MonthlyHours float64             `json:"monthly_hours"`
	Latest       []model.DailyReport `json:"latest_reports"`
}

// Summarize evaluates all rollups at once, as of now.
func (d *Dashboard) Summarize(ctx context.Context, latest int) (*Summary, error) {
	asOf := d.now()
	weekly, err := d.WeeklyHours(ctx, asOf)
	if err != nil {
		return nil, err
	}
	monthly, err := d.MonthlyHours(ctx, asOf)
	if err != nil {
		return nil, err
	}
	latestReports, err := d.LatestReports(ctx, latest)
	if err != nil {
		return nil, err
	}
	return &Summary{
		WeeklyHours:  weekly,
		MonthlyHours: monthly,
		Latest:       latestReports,
	}, nil
}

// WeeklyHours sums hours over asOf's calendar week.
func (d *Dashboard) WeeklyHours(ctx context.Context, asOf time.Time) (float64, error) {
	start, end := d.weekBounds(asOf)
	return d.hoursBetween(ctx, start, end)
}

// MonthlyHours sums hours over asOf's calendar month.
func (d *Dashboard) MonthlyHours(ctx context.Context, asOf time.Time) (float64, error) {
	start, end := monthBounds(asOf)
	return d.hoursBetween(ctx, start, end)
}

// LatestReports returns the n most recently finalized reports, newest first.
func (d *Dashboard) LatestReports(ctx context.Context, n int) ([]model.DailyReport, error) {
	reports, err := d.store.ListReportsByStatus(ctx, model.ReportStatusFinal)
	if err != nil {
		return nil, err
	}
	sort.Slice(reports, func(i, j int) bool {
		left, right := reports[i].FinalizedAt, reports[j].FinalizedAt
		if left == nil || right == nil {
			return right == nil
		}
		return left.After(*right)
	})
	if n > 0 && len(reports) > n {
		reports = reports[:n]
	}
	return reports, nil
}

// hoursBetween sums report hours for dates in [start, end).
func (d *Dashboard) hoursBetween(ctx context.Context, start, end time.Time) (float64, error) {
	total := 0.0

	finals, err := d.store.ListReportsByStatus(ctx, model.ReportStatusFinal)
	if err != nil {
		return 0, err
	}
	for _, report := range finals {
		if inWindow(report.Date, start, end) {
			total += report.TotalHours
		}
	}

	drafts, err := d.store.ListReportsByStatus(ctx, model.ReportStatusDraft)
	if err != nil {
		return 0, err
	}
	for _, row := range drafts {
		if !inWindow(row.Date, start, end) {
			continue
		}
		draft, err := d.store.GetReport(ctx, row.ID)
		if err != nil {
			return 0, err
		}
		total += model.TotalHours(draft)
	}
	return total, nil
}

func (d *Dashboard) weekBounds(asOf time.Time) (time.Time, time.Time) {
	day := model.DateOnly(asOf)
	back := (int(day.Weekday()) - int(d.weekStart) + 7) % 7
	start := day.AddDate(0, 0, -back)
	return start, start.AddDate(0, 0, 7)
}

func monthBounds(asOf time.Time) (time.Time, time.Time) {
	y, m, _ := asOf.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, asOf.Location())
	return start, start.AddDate(0, 1, 0)
}

func inWindow(date, start, end time.Time) bool {
	day := model.DateOnly(date)
	return !day.Before(start) && day.Before(end)
}
