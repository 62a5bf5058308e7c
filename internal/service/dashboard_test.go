package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldelai/rapportino/internal/model"
	"github.com/ldelai/rapportino/internal/repository"
)

func seedFinal(t *testing.T, store *repository.MemoryStore, date time.Time, hours float64, finalizedAt time.Time) *model.DailyReport {
	t.Helper()
	report := &model.DailyReport{
		ID:          uuid.New(),
		Date:        model.DateOnly(date),
		Status:      model.ReportStatusFinal,
		TotalHours:  hours,
		CreatedAt:   date,
		FinalizedAt: &finalizedAt,
		Clients:     []model.ClientSection{},
	}
	require.NoError(t, store.InsertReport(context.Background(), report))
	return report
}

func seedDraftWithHours(t *testing.T, store *repository.MemoryStore, date time.Time, hours float64) *model.DailyReport {
	t.Helper()
	ctx := context.Background()
	report := &model.DailyReport{
		ID:        uuid.New(),
		Date:      model.DateOnly(date),
		Status:    model.ReportStatusDraft,
		CreatedAt: date,
		Clients:   []model.ClientSection{},
	}
	require.NoError(t, store.InsertReport(ctx, report))
	section := &model.ClientSection{
		ID:            uuid.New(),
		DailyReportID: report.ID,
		ClientName:    "Cliente",
		JobSite:       "Cantiere",
		CreatedAt:     date,
	}
	require.NoError(t, store.InsertClientSection(ctx, section))
	activity, err := model.NewMachineActivity(section.ID, "Escavatore", hours, "")
	require.NoError(t, err)
	require.NoError(t, store.InsertActivity(ctx, &activity))
	return report
}

func TestWeeklyHours(t *testing.T) {
	ctx := context.Background()
	// 2025-06-02 is a Monday, 2025-06-08 the Sunday closing the same ISO week.
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)

	store := repository.NewMemoryStore()
	seedFinal(t, store, monday, 4, monday.Add(18*time.Hour))
	seedFinal(t, store, sunday, 5, sunday.Add(18*time.Hour))
	dashboard := NewDashboard(store, time.Monday)

	t.Run("same ISO week sums both", func(t *testing.T) {
		total, err := dashboard.WeeklyHours(ctx, sunday)
		require.NoError(t, err)
		assert.Equal(t, 9.0, total)
	})

	t.Run("previous week sees nothing", func(t *testing.T) {
		total, err := dashboard.WeeklyHours(ctx, monday.AddDate(0, 0, -7))
		require.NoError(t, err)
		assert.Equal(t, 0.0, total)
	})

	t.Run("sunday week start splits the pair", func(t *testing.T) {
		sundayStart := NewDashboard(store, time.Sunday)
		total, err := sundayStart.WeeklyHours(ctx, monday)
		require.NoError(t, err)
		assert.Equal(t, 4.0, total)

		total, err = sundayStart.WeeklyHours(ctx, sunday)
		require.NoError(t, err)
		assert.Equal(t, 5.0, total)
	})

	t.Run("draft in the window adds live hours", func(t *testing.T) {
		seedDraftWithHours(t, store, monday.AddDate(0, 0, 2), 2.5)
		total, err := dashboard.WeeklyHours(ctx, sunday)
		require.NoError(t, err)
		assert.Equal(t, 11.5, total)
	})
}

func TestMonthlyHours(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	lastOfMay := time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)
	firstOfJune := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	seedFinal(t, store, lastOfMay, 3, lastOfMay.Add(18*time.Hour))
	seedFinal(t, store, firstOfJune, 7, firstOfJune.Add(18*time.Hour))
	dashboard := NewDashboard(store, time.Monday)

	mayTotal, err := dashboard.MonthlyHours(ctx, time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 3.0, mayTotal)

	juneTotal, err := dashboard.MonthlyHours(ctx, time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 7.0, juneTotal)
}

func TestLatestReports(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	// Finalization order differs from date order: the oldest day was
	// finalized last (it was reopened and closed again).
	first := seedFinal(t, store, base, 4, base.AddDate(0, 0, 5))
	second := seedFinal(t, store, base.AddDate(0, 0, 1), 5, base.AddDate(0, 0, 1))
	third := seedFinal(t, store, base.AddDate(0, 0, 2), 6, base.AddDate(0, 0, 2))
	dashboard := NewDashboard(store, time.Monday)

	latest, err := dashboard.LatestReports(ctx, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, first.ID, latest[0].ID)
	assert.Equal(t, third.ID, latest[1].ID)

	all, err := dashboard.LatestReports(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, second.ID, all[2].ID)
}

func TestSummarize(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	day := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	seedFinal(t, store, day, 8, day.Add(18*time.Hour))

	dashboard := NewDashboard(store, time.Monday)
	dashboard.now = func() time.Time { return day.Add(20 * time.Hour) }

	summary, err := dashboard.Summarize(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 8.0, summary.WeeklyHours)
	assert.Equal(t, 8.0, summary.MonthlyHours)
	require.Len(t, summary.Latest, 1)
}
