package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'report_status') THEN
			CREATE TYPE report_status AS ENUM ('DRAFT', 'FINAL');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'activity_type') THEN
			CREATE TYPE activity_type AS ENUM ('MACHINE', 'MATERIAL');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS daily_report (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		date TIMESTAMPTZ NOT NULL,
		status report_status NOT NULL DEFAULT 'DRAFT',
		trasferta BOOLEAN NOT NULL DEFAULT FALSE,
		total_hours NUMERIC(8,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		finalized_at TIMESTAMPTZ
	);`,
	`CREATE TABLE IF NOT EXISTS client_section (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		daily_report_id UUID NOT NULL REFERENCES daily_report(id) ON DELETE CASCADE,
		client_name VARCHAR(255) NOT NULL,
		job_site VARCHAR(255) NOT NULL,
		color_tag SMALLINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS activity (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		client_section_id UUID NOT NULL REFERENCES client_section(id) ON DELETE CASCADE,
		activity_type activity_type NOT NULL,
		machine_name VARCHAR(255),
		hours NUMERIC(6,2),
		description TEXT,
		material_name VARCHAR(255),
		quantity NUMERIC(10,2),
		unit VARCHAR(8),
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_daily_report_date_status ON daily_report (date, status);`,
	`CREATE INDEX IF NOT EXISTS idx_daily_report_finalized_at ON daily_report (finalized_at) WHERE finalized_at IS NOT NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_client_section_report_id ON client_section (daily_report_id);`,
	`CREATE INDEX IF NOT EXISTS idx_activity_section_id ON activity (client_section_id);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
