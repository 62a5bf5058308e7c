package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ldelai/rapportino/internal/model"
)

// ErrNotFound is returned when a report, client section or activity does not
// exist. Implementations map their driver-specific miss onto this sentinel.
var ErrNotFound = errors.New("record not found")

// Store is the persistence contract the report lifecycle depends on.
// DailyReport is the root aggregate; client sections and activities are
// addressed individually but always belong to exactly one report tree.
// Each operation is atomic at the single-record level; the lifecycle layer
// never needs a multi-record transaction.
type Store interface {
	// FindReportByDateAndStatus returns the full aggregate for the report
	// matching (date, status), or ErrNotFound. Date is compared at day
	// granularity.
	FindReportByDateAndStatus(ctx context.Context, date time.Time, status model.ReportStatus) (*model.DailyReport, error)

	// GetReport loads the full aggregate: report, client sections ordered by
	// creation time, activities ordered by creation time.
	GetReport(ctx context.Context, id uuid.UUID) (*model.DailyReport, error)
	InsertReport(ctx context.Context, report *model.DailyReport) error
	UpdateReport(ctx context.Context, report *model.DailyReport) error
	// DeleteReport cascades over the report's client sections and their
	// activities.
	DeleteReport(ctx context.Context, id uuid.UUID) error

	GetClientSection(ctx context.Context, id uuid.UUID) (*model.ClientSection, error)
	InsertClientSection(ctx context.Context, section *model.ClientSection) error
	// DeleteClientSection cascades over the section's activities.
	DeleteClientSection(ctx context.Context, id uuid.UUID) error

	GetActivity(ctx context.Context, id uuid.UUID) (*model.Activity, error)
	InsertActivity(ctx context.Context, activity *model.Activity) error
	DeleteActivity(ctx context.Context, id uuid.UUID) error

	// ListReportsByStatus returns report rows (no children) ordered by date
	// descending.
	ListReportsByStatus(ctx context.Context, status model.ReportStatus) ([]model.DailyReport, error)
}
