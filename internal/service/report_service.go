package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ldelai/rapportino/internal/model"
	"github.com/ldelai/rapportino/internal/repository"
)

// ReportService is the draft/finalize lifecycle over daily reports. Every
// mutation persists through the store before returning, so a crash after any
// operation leaves storage consistent with the last completed call. Mutations
// against the same report are serialized by a per-report lock; reads run
// unlocked against the store's consistent snapshots.
type ReportService struct {
	store repository.Store
	now   func() time.Time

	createMu sync.Mutex
	locksMu  sync.Mutex
	locks    map[uuid.UUID]*sync.Mutex
}

func NewReportService(store repository.Store) *ReportService {
	return &ReportService{
		store: store,
		now:   time.Now,
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// GetOrCreateTodaysDraft returns today's draft report, creating it when none
// exists. The check-then-insert runs under the creation lock, so repeated
// calls within the same day always resolve to the same report. The modeled
// storage has no unique constraint on (date, status); this lock is what
// keeps the one-draft-per-day invariant.
func (s *ReportService) GetOrCreateTodaysDraft(ctx context.Context) (*model.DailyReport, error) {
	s.createMu.Lock()
	defer s.createMu.Unlock()

	today := model.DateOnly(s.now())
	existing, err := s.store.FindReportByDateAndStatus(ctx, today, model.ReportStatusDraft)
	if err == nil {
		return withLiveTotal(existing), nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	report := &model.DailyReport{
		ID:        uuid.New(),
		Date:      today,
		Status:    model.ReportStatusDraft,
		CreatedAt: s.now(),
		Clients:   []model.ClientSection{},
	}
	if err := s.store.InsertReport(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// AddClientSection appends a client section to a draft report. The color tag
// cycles over the fixed palette in append order.
func (s *ReportService) AddClientSection(ctx context.Context, reportID uuid.UUID, clientName, jobSite string) (*model.ClientSection, error) {
	clientName = strings.TrimSpace(clientName)
	jobSite = strings.TrimSpace(jobSite)
	if clientName == "" {
		return nil, fmt.Errorf("%w: client name is required", ErrInvalidInput)
	}
	if jobSite == "" {
		return nil, fmt.Errorf("%w: job site is required", ErrInvalidInput)
	}

	unlock := s.lockReport(reportID)
	defer unlock()

	report, err := s.loadDraft(ctx, reportID)
	if err != nil {
		return nil, err
	}

	section := &model.ClientSection{
		ID:            uuid.New(),
		DailyReportID: report.ID,
		ClientName:    clientName,
		JobSite:       jobSite,
		ColorTag:      model.NextColorTag(len(report.Clients)),
		CreatedAt:     s.now(),
		Activities:    []model.Activity{},
	}
	if err := s.store.InsertClientSection(ctx, section); err != nil {
		return nil, mapStoreErr(err)
	}
	return section, nil
}

// RemoveClientSection deletes a section and, by cascade, its activities.
func (s *ReportService) RemoveClientSection(ctx context.Context, sectionID uuid.UUID) error {
	section, err := s.store.GetClientSection(ctx, sectionID)
	if err != nil {
		return mapStoreErr(err)
	}

	unlock := s.lockReport(section.DailyReportID)
	defer unlock()

	if _, err := s.loadDraft(ctx, section.DailyReportID); err != nil {
		return err
	}
	return mapStoreErr(s.store.DeleteClientSection(ctx, sectionID))
}

// AddMachineActivity records machine usage for a client section of a draft
// report.
func (s *ReportService) AddMachineActivity(ctx context.Context, sectionID uuid.UUID, machineName string, hours float64, description string) (*model.Activity, error) {
	activity, err := model.NewMachineActivity(sectionID, machineName, hours, description)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	return s.appendActivity(ctx, sectionID, activity)
}

// AddMaterialActivity records material consumption for a client section of a
// draft report.
func (s *ReportService) AddMaterialActivity(ctx context.Context, sectionID uuid.UUID, materialName string, quantity float64, unit model.MaterialUnit, notes string) (*model.Activity, error) {
	activity, err := model.NewMaterialActivity(sectionID, materialName, quantity, unit, notes)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	return s.appendActivity(ctx, sectionID, activity)
}

func (s *ReportService) appendActivity(ctx context.Context, sectionID uuid.UUID, activity model.Activity) (*model.Activity, error) {
	section, err := s.store.GetClientSection(ctx, sectionID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	unlock := s.lockReport(section.DailyReportID)
	defer unlock()

	if _, err := s.loadDraft(ctx, section.DailyReportID); err != nil {
		return nil, err
	}
	activity.CreatedAt = s.now()
	if err := s.store.InsertActivity(ctx, &activity); err != nil {
		return nil, mapStoreErr(err)
	}
	return &activity, nil
}

// RemoveActivity deletes an activity by identity.
func (s *ReportService) RemoveActivity(ctx context.Context, activityID uuid.UUID) error {
	activity, err := s.store.GetActivity(ctx, activityID)
	if err != nil {
		return mapStoreErr(err)
	}
	section, err := s.store.GetClientSection(ctx, activity.ClientSectionID)
	if err != nil {
		return mapStoreErr(err)
	}

	unlock := s.lockReport(section.DailyReportID)
	defer unlock()

	if _, err := s.loadDraft(ctx, section.DailyReportID); err != nil {
		return err
	}
	return mapStoreErr(s.store.DeleteActivity(ctx, activityID))
}

// Finalize closes a draft day. An empty day cannot be finalized: the report
// needs at least one client section and at least one activity overall. This
// is the single point where TotalHours is stamped as a stored value.
func (s *ReportService) Finalize(ctx context.Context, reportID uuid.UUID) (*model.DailyReport, error) {
	unlock := s.lockReport(reportID)
	defer unlock()

	report, err := s.store.GetReport(ctx, reportID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if !report.IsDraft() {
		return nil, ErrReportFinalized
	}
	if len(report.Clients) == 0 || report.ActivityCount() == 0 {
		return nil, ErrEmptyReport
	}

	finalizedAt := s.now()
	report.Status = model.ReportStatusFinal
	report.TotalHours = model.TotalHours(report)
	report.FinalizedAt = &finalizedAt
	if err := s.store.UpdateReport(ctx, report); err != nil {
		return nil, mapStoreErr(err)
	}
	return report, nil
}

// Reopen turns a finalized report back into a draft. The stored TotalHours
// goes stale until the next finalize; FinalizedAt is cleared so the report
// drops out of the finalized views immediately.
func (s *ReportService) Reopen(ctx context.Context, reportID uuid.UUID) (*model.DailyReport, error) {
	unlock := s.lockReport(reportID)
	defer unlock()

	report, err := s.store.GetReport(ctx, reportID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if report.IsDraft() {
		return nil, ErrNotFinalized
	}

	// Reopening must not produce a second draft for the same day.
	if other, err := s.store.FindReportByDateAndStatus(ctx, report.Date, model.ReportStatusDraft); err == nil && other.ID != report.ID {
		return nil, fmt.Errorf("%w for %s", ErrDraftExists, report.Date.Format("2006-01-02"))
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	report.Status = model.ReportStatusDraft
	report.FinalizedAt = nil
	if err := s.store.UpdateReport(ctx, report); err != nil {
		return nil, mapStoreErr(err)
	}
	return withLiveTotal(report), nil
}

// DeleteReport removes a report and, by cascade, its client sections and
// activities. Legal in either state; the archive allows discarding finalized
// days.
func (s *ReportService) DeleteReport(ctx context.Context, reportID uuid.UUID) error {
	unlock := s.lockReport(reportID)
	defer unlock()

	return mapStoreErr(s.store.DeleteReport(ctx, reportID))
}

// UpdateTrasferta flips the away-from-base flag. Trasferta is metadata, not
// content, so this is legal in either state.
func (s *ReportService) UpdateTrasferta(ctx context.Context, reportID uuid.UUID, value bool) error {
	unlock := s.lockReport(reportID)
	defer unlock()

	report, err := s.store.GetReport(ctx, reportID)
	if err != nil {
		return mapStoreErr(err)
	}
	report.Trasferta = value
	return mapStoreErr(s.store.UpdateReport(ctx, report))
}

// CurrentDraft returns today's draft with its live-computed total, or
// ErrNotFound when the day has not been started.
func (s *ReportService) CurrentDraft(ctx context.Context) (*model.DailyReport, error) {
	report, err := s.store.FindReportByDateAndStatus(ctx, model.DateOnly(s.now()), model.ReportStatusDraft)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return withLiveTotal(report), nil
}

// GetReport returns the full aggregate; a draft carries its live total.
func (s *ReportService) GetReport(ctx context.Context, reportID uuid.UUID) (*model.DailyReport, error) {
	report, err := s.store.GetReport(ctx, reportID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return withLiveTotal(report), nil
}

// ClientSections lists a report's sections in creation order.
func (s *ReportService) ClientSections(ctx context.Context, reportID uuid.UUID) ([]model.ClientSection, error) {
	report, err := s.store.GetReport(ctx, reportID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return report.Clients, nil
}

// Activities lists a section's activities in creation order.
func (s *ReportService) Activities(ctx context.Context, sectionID uuid.UUID) ([]model.Activity, error) {
	section, err := s.store.GetClientSection(ctx, sectionID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return section.Activities, nil
}

// FinalizedReports lists finalized report rows ordered by date descending.
func (s *ReportService) FinalizedReports(ctx context.Context) ([]model.DailyReport, error) {
	return s.store.ListReportsByStatus(ctx, model.ReportStatusFinal)
}

// loadDraft fetches a report and rejects content mutation unless it is a
// draft. Callers hold the report lock.
func (s *ReportService) loadDraft(ctx context.Context, reportID uuid.UUID) (*model.DailyReport, error) {
	report, err := s.store.GetReport(ctx, reportID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if !report.IsDraft() {
		return nil, ErrReportFinalized
	}
	return report, nil
}

func (s *ReportService) lockReport(id uuid.UUID) func() {
	s.locksMu.Lock()
	mu, ok := s.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[id] = mu
	}
	s.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

func withLiveTotal(report *model.DailyReport) *model.DailyReport {
	if report.IsDraft() {
		report.TotalHours = model.TotalHours(report)
	}
	return report
}

func mapStoreErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
