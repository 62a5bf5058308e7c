package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ldelai/rapportino/internal/model"
)

// MemoryStore is a mutex-guarded in-memory Store. It backs the service when
// no database is configured (single-device local mode) and is the storage
// used by the test suites. All values are deep-copied on the way in and out
// so callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	reports  map[uuid.UUID]*model.DailyReport
	sections map[uuid.UUID]uuid.UUID // section id -> report id
	acts     map[uuid.UUID]uuid.UUID // activity id -> section id
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reports:  make(map[uuid.UUID]*model.DailyReport),
		sections: make(map[uuid.UUID]uuid.UUID),
		acts:     make(map[uuid.UUID]uuid.UUID),
	}
}

func (s *MemoryStore) FindReportByDateAndStatus(_ context.Context, date time.Time, status model.ReportStatus) (*model.DailyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day := model.DateOnly(date)
	for _, report := range s.reports {
		if report.Status == status && model.DateOnly(report.Date).Equal(day) {
			return copyReport(report), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetReport(_ context.Context, id uuid.UUID) (*model.DailyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyReport(report), nil
}

func (s *MemoryStore) InsertReport(_ context.Context, report *model.DailyReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyReport(report)
	s.reports[stored.ID] = stored
	for _, section := range stored.Clients {
		s.sections[section.ID] = stored.ID
		for _, activity := range section.Activities {
			s.acts[activity.ID] = section.ID
		}
	}
	return nil
}

func (s *MemoryStore) UpdateReport(_ context.Context, report *model.DailyReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.reports[report.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Status = report.Status
	stored.Trasferta = report.Trasferta
	stored.TotalHours = report.TotalHours
	if report.FinalizedAt != nil {
		at := *report.FinalizedAt
		stored.FinalizedAt = &at
	} else {
		stored.FinalizedAt = nil
	}
	return nil
}

func (s *MemoryStore) DeleteReport(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.reports[id]
	if !ok {
		return ErrNotFound
	}
	for _, section := range report.Clients {
		for _, activity := range section.Activities {
			delete(s.acts, activity.ID)
		}
		delete(s.sections, section.ID)
	}
	delete(s.reports, id)
	return nil
}

func (s *MemoryStore) GetClientSection(_ context.Context, id uuid.UUID) (*model.ClientSection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	section := s.findSection(id)
	if section == nil {
		return nil, ErrNotFound
	}
	copied := copySection(section)
	return &copied, nil
}

func (s *MemoryStore) InsertClientSection(_ context.Context, section *model.ClientSection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.reports[section.DailyReportID]
	if !ok {
		return ErrNotFound
	}
	report.Clients = append(report.Clients, copySection(section))
	s.sections[section.ID] = report.ID
	return nil
}

func (s *MemoryStore) DeleteClientSection(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reportID, ok := s.sections[id]
	if !ok {
		return ErrNotFound
	}
	report := s.reports[reportID]
	for i, section := range report.Clients {
		if section.ID != id {
			continue
		}
		for _, activity := range section.Activities {
			delete(s.acts, activity.ID)
		}
		report.Clients = append(report.Clients[:i], report.Clients[i+1:]...)
		break
	}
	delete(s.sections, id)
	return nil
}

func (s *MemoryStore) GetActivity(_ context.Context, id uuid.UUID) (*model.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sectionID, ok := s.acts[id]
	if !ok {
		return nil, ErrNotFound
	}
	section := s.findSection(sectionID)
	if section == nil {
		return nil, ErrNotFound
	}
	for _, activity := range section.Activities {
		if activity.ID == id {
			copied := activity
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) InsertActivity(_ context.Context, activity *model.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	section := s.findSection(activity.ClientSectionID)
	if section == nil {
		return ErrNotFound
	}
	section.Activities = append(section.Activities, *activity)
	s.acts[activity.ID] = section.ID
	return nil
}

func (s *MemoryStore) DeleteActivity(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sectionID, ok := s.acts[id]
	if !ok {
		return ErrNotFound
	}
	section := s.findSection(sectionID)
	if section != nil {
		for i, activity := range section.Activities {
			if activity.ID == id {
				section.Activities = append(section.Activities[:i], section.Activities[i+1:]...)
				break
			}
		}
	}
	delete(s.acts, id)
	return nil
}

func (s *MemoryStore) ListReportsByStatus(_ context.Context, status model.ReportStatus) ([]model.DailyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reports := make([]model.DailyReport, 0)
	for _, report := range s.reports {
		if report.Status != status {
			continue
		}
		copied := copyReport(report)
		copied.Clients = []model.ClientSection{}
		reports = append(reports, *copied)
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Date.After(reports[j].Date)
	})
	return reports, nil
}

// findSection must be called with the lock held.
func (s *MemoryStore) findSection(id uuid.UUID) *model.ClientSection {
	reportID, ok := s.sections[id]
	if !ok {
		return nil
	}
	report, ok := s.reports[reportID]
	if !ok {
		return nil
	}
	for i := range report.Clients {
		if report.Clients[i].ID == id {
			return &report.Clients[i]
		}
	}
	return nil
}

func copyReport(report *model.DailyReport) *model.DailyReport {
	copied := *report
	if report.FinalizedAt != nil {
		at := *report.FinalizedAt
		copied.FinalizedAt = &at
	}
	copied.Clients = make([]model.ClientSection, 0, len(report.Clients))
	for _, section := range report.Clients {
		copied.Clients = append(copied.Clients, copySection(&section))
	}
	return &copied
}

func copySection(section *model.ClientSection) model.ClientSection {
	copied := *section
	copied.Activities = make([]model.Activity, len(section.Activities))
	copy(copied.Activities, section.Activities)
	return copied
}
