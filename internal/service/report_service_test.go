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

var testDay = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestService() (*ReportService, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	svc := NewReportService(store)
	svc.now = func() time.Time { return testDay }
	return svc, store
}

// draftWithSection creates today's draft holding one client section.
func draftWithSection(t *testing.T, svc *ReportService) (*model.DailyReport, *model.ClientSection) {
	t.Helper()
	ctx := context.Background()
	report, err := svc.GetOrCreateTodaysDraft(ctx)
	require.NoError(t, err)
	section, err := svc.AddClientSection(ctx, report.ID, "Impresa Rossi", "Via Roma 10")
	require.NoError(t, err)
	return report, section
}

func TestGetOrCreateTodaysDraftIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	first, err := svc.GetOrCreateTodaysDraft(ctx)
	require.NoError(t, err)
	second, err := svc.GetOrCreateTodaysDraft(ctx)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.Date.Equal(model.DateOnly(testDay)))
	assert.Equal(t, model.ReportStatusDraft, first.Status)

	drafts, err := store.ListReportsByStatus(ctx, model.ReportStatusDraft)
	require.NoError(t, err)
	assert.Len(t, drafts, 1)
}

func TestGetOrCreateTodaysDraftNewDay(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	first, err := svc.GetOrCreateTodaysDraft(ctx)
	require.NoError(t, err)

	svc.now = func() time.Time { return testDay.AddDate(0, 0, 1) }
	next, err := svc.GetOrCreateTodaysDraft(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, next.ID)
	drafts, err := store.ListReportsByStatus(ctx, model.ReportStatusDraft)
	require.NoError(t, err)
	assert.Len(t, drafts, 2)
}

func TestAddClientSection(t *testing.T) {
	ctx := context.Background()

	t.Run("validates inputs", func(t *testing.T) {
		svc, _ := newTestService()
		report, err := svc.GetOrCreateTodaysDraft(ctx)
		require.NoError(t, err)

		_, err = svc.AddClientSection(ctx, report.ID, "   ", "Via Roma 10")
		require.ErrorIs(t, err, ErrInvalidInput)
		_, err = svc.AddClientSection(ctx, report.ID, "Impresa Rossi", "  ")
		require.ErrorIs(t, err, ErrInvalidInput)

		loaded, err := svc.GetReport(ctx, report.ID)
		require.NoError(t, err)
		assert.Empty(t, loaded.Clients)
	})

	t.Run("persists immediately and cycles colors", func(t *testing.T) {
		svc, store := newTestService()
		report, err := svc.GetOrCreateTodaysDraft(ctx)
		require.NoError(t, err)

		for i := 0; i < model.PaletteSize+2; i++ {
			section, err := svc.AddClientSection(ctx, report.ID, "Cliente", "Cantiere")
			require.NoError(t, err)
			assert.Equal(t, i%model.PaletteSize, section.ColorTag)
		}

		stored, err := store.GetReport(ctx, report.ID)
		require.NoError(t, err)
		assert.Len(t, stored.Clients, model.PaletteSize+2)
	})

	t.Run("rejects finalized report", func(t *testing.T) {
		svc, _ := newTestService()
		report, section := draftWithSection(t, svc)
		_, err := svc.AddMachineActivity(ctx, section.ID, "Escavatore", 8, "")
		require.NoError(t, err)
		_, err = svc.Finalize(ctx, report.ID)
		require.NoError(t, err)

		_, err = svc.AddClientSection(ctx, report.ID, "Altro", "Altrove")
		require.ErrorIs(t, err, ErrReportFinalized)
	})

	t.Run("unknown report", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.AddClientSection(ctx, uuid.New(), "Cliente", "Cantiere")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAddActivities(t *testing.T) {
	ctx := context.Background()

	t.Run("machine and material persist in order", func(t *testing.T) {
		svc, _ := newTestService()
		_, section := draftWithSection(t, svc)

		machine, err := svc.AddMachineActivity(ctx, section.ID, "Escavatore CAT 320", 2.5, "scavo")
		require.NoError(t, err)
		material, err := svc.AddMaterialActivity(ctx, section.ID, "Ghiaia", 3.25, model.UnitCubicMeters, "")
		require.NoError(t, err)

		activities, err := svc.Activities(ctx, section.ID)
		require.NoError(t, err)
		require.Len(t, activities, 2)
		assert.Equal(t, machine.ID, activities[0].ID)
		assert.Equal(t, material.ID, activities[1].ID)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		svc, _ := newTestService()
		_, section := draftWithSection(t, svc)

		_, err := svc.AddMachineActivity(ctx, section.ID, "Escavatore", 0, "")
		require.ErrorIs(t, err, ErrInvalidInput)
		_, err = svc.AddMaterialActivity(ctx, section.ID, "Ghiaia", -1, model.UnitTons, "")
		require.ErrorIs(t, err, ErrInvalidInput)

		activities, err := svc.Activities(ctx, section.ID)
		require.NoError(t, err)
		assert.Empty(t, activities)
	})

	t.Run("rejects finalized report", func(t *testing.T) {
		svc, _ := newTestService()
		report, section := draftWithSection(t, svc)
		_, err := svc.AddMachineActivity(ctx, section.ID, "Escavatore", 8, "")
		require.NoError(t, err)
		_, err = svc.Finalize(ctx, report.ID)
		require.NoError(t, err)

		_, err = svc.AddMachineActivity(ctx, section.ID, "Rullo", 1, "")
		require.ErrorIs(t, err, ErrReportFinalized)
		_, err = svc.AddMaterialActivity(ctx, section.ID, "Sabbia", 1, model.UnitTons, "")
		require.ErrorIs(t, err, ErrReportFinalized)
	})

	t.Run("unknown section", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.AddMachineActivity(ctx, uuid.New(), "Escavatore", 1, "")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRemoveClientSectionCascades(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()
	report, section := draftWithSection(t, svc)
	activity, err := svc.AddMachineActivity(ctx, section.ID, "Escavatore", 3, "")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveClientSection(ctx, section.ID))

	_, err = store.GetClientSection(ctx, section.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = store.GetActivity(ctx, activity.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	loaded, err := svc.GetReport(ctx, report.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Clients)
}

func TestRemoveActivity(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	report, section := draftWithSection(t, svc)
	keep, err := svc.AddMachineActivity(ctx, section.ID, "Escavatore", 3, "")
	require.NoError(t, err)
	drop, err := svc.AddMaterialActivity(ctx, section.ID, "Ghiaia", 2, model.UnitCubicMeters, "")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveActivity(ctx, drop.ID))

	activities, err := svc.Activities(ctx, section.ID)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, keep.ID, activities[0].ID)

	require.ErrorIs(t, svc.RemoveActivity(ctx, drop.ID), ErrNotFound)

	// Finalized reports refuse activity removal.
	_, err = svc.Finalize(ctx, report.ID)
	require.NoError(t, err)
	require.ErrorIs(t, svc.RemoveActivity(ctx, keep.ID), ErrReportFinalized)
}

func TestFinalize(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty day", func(t *testing.T) {
		svc, _ := newTestService()
		report, err := svc.GetOrCreateTodaysDraft(ctx)
		require.NoError(t, err)

		_, err = svc.Finalize(ctx, report.ID)
		require.ErrorIs(t, err, ErrEmptyReport)
	})

	t.Run("rejects sections without activities", func(t *testing.T) {
		svc, _ := newTestService()
		report, _ := draftWithSection(t, svc)

		_, err := svc.Finalize(ctx, report.ID)
		require.ErrorIs(t, err, ErrEmptyReport)
	})

	t.Run("stamps status, timestamp and total", func(t *testing.T) {
		svc, store := newTestService()
		report, section := draftWithSection(t, svc)
		_, err := svc.AddMachineActivity(ctx, section.ID, "Escavatore", 2.5, "")
		require.NoError(t, err)
		_, err = svc.AddMachineActivity(ctx, section.ID, "Rullo", 3.0, "")
		require.NoError(t, err)
		other, err := svc.AddClientSection(ctx, report.ID, "Cantieri Bianchi", "SS36")
		require.NoError(t, err)
		_, err = svc.AddMachineActivity(ctx, other.ID, "Gru", 1.0, "")
		require.NoError(t, err)
		_, err = svc.AddMaterialActivity(ctx, other.ID, "Ghiaia", 12, model.UnitCubicMeters, "")
		require.NoError(t, err)

		finalized, err := svc.Finalize(ctx, report.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ReportStatusFinal, finalized.Status)
		require.NotNil(t, finalized.FinalizedAt)
		assert.True(t, finalized.FinalizedAt.Equal(testDay))
		assert.Equal(t, 6.5, finalized.TotalHours)

		stored, err := store.GetReport(ctx, report.ID)
		require.NoError(t, err)
		assert.Equal(t, 6.5, stored.TotalHours)

		_, err = svc.Finalize(ctx, report.ID)
		require.ErrorIs(t, err, ErrReportFinalized)
	})
}

func TestReopen(t *testing.T) {
	ctx := context.Background()

	t.Run("reverses the finalize stamps", func(t *testing.T) {
		svc, _ := newTestService()
		report, section := draftWithSection(t, svc)
		_, err := svc.AddMachineActivity(ctx, section.ID, "Escavatore", 4, "")
		require.NoError(t, err)
		_, err = svc.Finalize(ctx, report.ID)
		require.NoError(t, err)

		reopened, err := svc.Reopen(ctx, report.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ReportStatusDraft, reopened.Status)
		assert.Nil(t, reopened.FinalizedAt)

		// A later finalize recomputes from current content, not the old stamp.
		_, err = svc.AddMachineActivity(ctx, section.ID, "Rullo", 2, "")
		require.NoError(t, err)
		finalized, err := svc.Finalize(ctx, report.ID)
		require.NoError(t, err)
		assert.Equal(t, 6.0, finalized.TotalHours)
	})

	t.Run("rejects drafts", func(t *testing.T) {
		svc, _ := newTestService()
		report, err := svc.GetOrCreateTodaysDraft(ctx)
		require.NoError(t, err)

		_, err = svc.Reopen(ctx, report.ID)
		require.ErrorIs(t, err, ErrNotFinalized)
	})

	t.Run("rejects when the day already has a draft", func(t *testing.T) {
		svc, _ := newTestService()
		report, section := draftWithSection(t, svc)
		_, err := svc.AddMachineActivity(ctx, section.ID, "Escavatore", 4, "")
		require.NoError(t, err)
		_, err = svc.Finalize(ctx, report.ID)
		require.NoError(t, err)

		// Starting the day again creates a fresh draft for the same date.
		_, err = svc.GetOrCreateTodaysDraft(ctx)
		require.NoError(t, err)

		_, err = svc.Reopen(ctx, report.ID)
		require.ErrorIs(t, err, ErrDraftExists)
	})
}

func TestUpdateTrasferta(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	report, section := draftWithSection(t, svc)

	require.NoError(t, svc.UpdateTrasferta(ctx, report.ID, true))
	loaded, err := svc.GetReport(ctx, report.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Trasferta)

	// Trasferta is metadata: still mutable after finalize.
	_, err = svc.AddMachineActivity(ctx, section.ID, "Escavatore", 4, "")
	require.NoError(t, err)
	_, err = svc.Finalize(ctx, report.ID)
	require.NoError(t, err)
	require.NoError(t, svc.UpdateTrasferta(ctx, report.ID, false))

	loaded, err = svc.GetReport(ctx, report.ID)
	require.NoError(t, err)
	assert.False(t, loaded.Trasferta)
}

func TestCurrentDraft(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.CurrentDraft(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	report, section := draftWithSection(t, svc)
	_, err = svc.AddMachineActivity(ctx, section.ID, "Escavatore", 5.5, "")
	require.NoError(t, err)

	draft, err := svc.CurrentDraft(ctx)
	require.NoError(t, err)
	assert.Equal(t, report.ID, draft.ID)
	// Draft totals are live-computed, never read from the stored stamp.
	assert.Equal(t, 5.5, draft.TotalHours)
}

func TestDeleteReport(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()
	report, section := draftWithSection(t, svc)
	activity, err := svc.AddMachineActivity(ctx, section.ID, "Escavatore", 4, "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteReport(ctx, report.ID))

	_, err = svc.GetReport(ctx, report.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetActivity(ctx, activity.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.ErrorIs(t, svc.DeleteReport(ctx, report.ID), ErrNotFound)
}

func TestFinalizedReports(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	report, section := draftWithSection(t, svc)
	_, err := svc.AddMachineActivity(ctx, section.ID, "Escavatore", 4, "")
	require.NoError(t, err)

	reports, err := svc.FinalizedReports(ctx)
	require.NoError(t, err)
	assert.Empty(t, reports)

	_, err = svc.Finalize(ctx, report.ID)
	require.NoError(t, err)

	reports, err = svc.FinalizedReports(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, report.ID, reports[0].ID)

	// Reopening drops it from the finalized list immediately.
	_, err = svc.Reopen(ctx, report.ID)
	require.NoError(t, err)
	reports, err = svc.FinalizedReports(ctx)
	require.NoError(t, err)
	assert.Empty(t, reports)
}
