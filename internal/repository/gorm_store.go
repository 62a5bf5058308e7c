package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ldelai/rapportino/internal/model"
)

// GormStore implements Store on Postgres through GORM. Cascades rely on the
// ON DELETE CASCADE foreign keys declared in the migrations.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

type reportRow struct {
	ID          uuid.UUID
	Date        time.Time
	Status      string
	Trasferta   bool
	TotalHours  float64
	CreatedAt   time.Time
	FinalizedAt *time.Time
}

type sectionRow struct {
	ID            uuid.UUID
	DailyReportID uuid.UUID
	ClientName    string
	JobSite       string
	ColorTag      int
	CreatedAt     time.Time
}

type activityRow struct {
	ID              uuid.UUID
	ClientSectionID uuid.UUID
	ActivityType    string
	MachineName     *string
	Hours           *float64
	Description     *string
	MaterialName    *string
	Quantity        *float64
	Unit            *string
	Notes           *string
	CreatedAt       time.Time
}

func (s *GormStore) FindReportByDateAndStatus(ctx context.Context, date time.Time, status model.ReportStatus) (*model.DailyReport, error) {
	dayStart := model.DateOnly(date)
	dayEnd := dayStart.Add(24 * time.Hour)

	var row reportRow
	if err := s.db.WithContext(ctx).Raw(`
		SELECT id, date, status, trasferta, total_hours, created_at, finalized_at
		FROM daily_report
		WHERE date >= ? AND date < ? AND status = ?
		LIMIT 1
	`, dayStart, dayEnd, status).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, ErrNotFound
	}
	return s.loadAggregate(ctx, row)
}

func (s *GormStore) GetReport(ctx context.Context, id uuid.UUID) (*model.DailyReport, error) {
	var row reportRow
	if err := s.db.WithContext(ctx).Raw(`
		SELECT id, date, status, trasferta, total_hours, created_at, finalized_at
		FROM daily_report
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, ErrNotFound
	}
	return s.loadAggregate(ctx, row)
}

func (s *GormStore) loadAggregate(ctx context.Context, row reportRow) (*model.DailyReport, error) {
	report := reportFromRow(row)

	var sections []sectionRow
	if err := s.db.WithContext(ctx).Raw(`
		SELECT id, daily_report_id, client_name, job_site, color_tag, created_at
		FROM client_section
		WHERE daily_report_id = ?
		ORDER BY created_at ASC
	`, row.ID).Scan(&sections).Error; err != nil {
		return nil, err
	}

	report.Clients = make([]model.ClientSection, 0, len(sections))
	for _, sec := range sections {
		var activities []activityRow
		if err := s.db.WithContext(ctx).Raw(`
			SELECT id, client_section_id, activity_type, machine_name, hours,
				description, material_name, quantity, unit, notes, created_at
			FROM activity
			WHERE client_section_id = ?
			ORDER BY created_at ASC
		`, sec.ID).Scan(&activities).Error; err != nil {
			return nil, err
		}

		section := sectionFromRow(sec)
		section.Activities = make([]model.Activity, 0, len(activities))
		for _, act := range activities {
			section.Activities = append(section.Activities, activityFromRow(act))
		}
		report.Clients = append(report.Clients, section)
	}
	return report, nil
}

func (s *GormStore) InsertReport(ctx context.Context, report *model.DailyReport) error {
	return s.db.WithContext(ctx).Exec(`
		INSERT INTO daily_report (id, date, status, trasferta, total_hours, created_at, finalized_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, report.ID, report.Date, report.Status, report.Trasferta, report.TotalHours, report.CreatedAt, report.FinalizedAt).Error
}

func (s *GormStore) UpdateReport(ctx context.Context, report *model.DailyReport) error {
	result := s.db.WithContext(ctx).Exec(`
		UPDATE daily_report
		SET status = ?, trasferta = ?, total_hours = ?, finalized_at = ?
		WHERE id = ?
	`, report.Status, report.Trasferta, report.TotalHours, report.FinalizedAt, report.ID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteReport(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Exec(`DELETE FROM daily_report WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) GetClientSection(ctx context.Context, id uuid.UUID) (*model.ClientSection, error) {
	var row sectionRow
	if err := s.db.WithContext(ctx).Raw(`
		SELECT id, daily_report_id, client_name, job_site, color_tag, created_at
		FROM client_section
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, ErrNotFound
	}
	section := sectionFromRow(row)

	var activities []activityRow
	if err := s.db.WithContext(ctx).Raw(`
		SELECT id, client_section_id, activity_type, machine_name, hours,
			description, material_name, quantity, unit, notes, created_at
		FROM activity
		WHERE client_section_id = ?
		ORDER BY created_at ASC
	`, id).Scan(&activities).Error; err != nil {
		return nil, err
	}
	section.Activities = make([]model.Activity, 0, len(activities))
	for _, act := range activities {
		section.Activities = append(section.Activities, activityFromRow(act))
	}
	return &section, nil
}

func (s *GormStore) InsertClientSection(ctx context.Context, section *model.ClientSection) error {
	return s.db.WithContext(ctx).Exec(`
		INSERT INTO client_section (id, daily_report_id, client_name, job_site, color_tag, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, section.ID, section.DailyReportID, section.ClientName, section.JobSite, section.ColorTag, section.CreatedAt).Error
}

func (s *GormStore) DeleteClientSection(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Exec(`DELETE FROM client_section WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) GetActivity(ctx context.Context, id uuid.UUID) (*model.Activity, error) {
	var row activityRow
	if err := s.db.WithContext(ctx).Raw(`
		SELECT id, client_section_id, activity_type, machine_name, hours,
			description, material_name, quantity, unit, notes, created_at
		FROM activity
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, ErrNotFound
	}
	activity := activityFromRow(row)
	return &activity, nil
}

func (s *GormStore) InsertActivity(ctx context.Context, activity *model.Activity) error {
	return s.db.WithContext(ctx).Exec(`
		INSERT INTO activity (id, client_section_id, activity_type, machine_name, hours,
			description, material_name, quantity, unit, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		activity.ID,
		activity.ClientSectionID,
		activity.Type,
		nullString(activity.MachineName),
		nullFloat(activity.Hours),
		nullString(activity.Description),
		nullString(activity.MaterialName),
		nullFloat(activity.Quantity),
		nullString(string(activity.Unit)),
		nullString(activity.Notes),
		activity.CreatedAt,
	).Error
}

func (s *GormStore) DeleteActivity(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Exec(`DELETE FROM activity WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) ListReportsByStatus(ctx context.Context, status model.ReportStatus) ([]model.DailyReport, error) {
	var rows []reportRow
	if err := s.db.WithContext(ctx).Raw(`
		SELECT id, date, status, trasferta, total_hours, created_at, finalized_at
		FROM daily_report
		WHERE status = ?
		ORDER BY date DESC
	`, status).Scan(&rows).Error; err != nil {
		return nil, err
	}

	reports := make([]model.DailyReport, 0, len(rows))
	for _, row := range rows {
		reports = append(reports, *reportFromRow(row))
	}
	return reports, nil
}

func reportFromRow(row reportRow) *model.DailyReport {
	return &model.DailyReport{
		ID:          row.ID,
		Date:        row.Date,
		Status:      model.ReportStatus(row.Status),
		Trasferta:   row.Trasferta,
		TotalHours:  row.TotalHours,
		CreatedAt:   row.CreatedAt,
		FinalizedAt: row.FinalizedAt,
		Clients:     []model.ClientSection{},
	}
}

func sectionFromRow(row sectionRow) model.ClientSection {
	return model.ClientSection{
		ID:            row.ID,
		DailyReportID: row.DailyReportID,
		ClientName:    row.ClientName,
		JobSite:       row.JobSite,
		ColorTag:      row.ColorTag,
		CreatedAt:     row.CreatedAt,
		Activities:    []model.Activity{},
	}
}

func activityFromRow(row activityRow) model.Activity {
	return model.Activity{
		ID:              row.ID,
		ClientSectionID: row.ClientSectionID,
		Type:            model.ActivityType(row.ActivityType),
		CreatedAt:       row.CreatedAt,
		MachineName:     derefString(row.MachineName),
		Hours:           derefFloat(row.Hours),
		Description:     derefString(row.Description),
		MaterialName:    derefString(row.MaterialName),
		Quantity:        derefFloat(row.Quantity),
		Unit:            model.MaterialUnit(derefString(row.Unit)),
		Notes:           derefString(row.Notes),
	}
}

func nullString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func nullFloat(value float64) *float64 {
	if value == 0 {
		return nil
	}
	return &value
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func derefFloat(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}
