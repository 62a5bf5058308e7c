package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ActivityType string

const (
	ActivityTypeMachine  ActivityType = "MACHINE"
	ActivityTypeMaterial ActivityType = "MATERIAL"
)

type MaterialUnit string

const (
	UnitCubicMeters MaterialUnit = "M3"
	UnitTons        MaterialUnit = "TON"
)

var ErrInvalidActivity = fmt.Errorf("invalid activity")

// Activity is a tagged union over the two activity kinds. Exactly one side's
// fields are populated, selected by Type: machine usage carries MachineName
// and Hours, material consumption carries MaterialName, Quantity and Unit.
type Activity struct {
	ID              uuid.UUID    `json:"id"`
	ClientSectionID uuid.UUID    `json:"client_section_id"`
	Type            ActivityType `json:"type"`
	CreatedAt       time.Time    `json:"created_at"`

	MachineName string  `json:"machine_name,omitempty"`
	Hours       float64 `json:"hours,omitempty"`
	Description string  `json:"description,omitempty"`

	MaterialName string       `json:"material_name,omitempty"`
	Quantity     float64      `json:"quantity,omitempty"`
	Unit         MaterialUnit `json:"unit,omitempty"`
	Notes        string       `json:"notes,omitempty"`
}

// NewMachineActivity builds a validated machine-usage activity. Hours must be
// strictly positive; a zero amount is an input error, never coerced.
func NewMachineActivity(sectionID uuid.UUID, machineName string, hours float64, description string) (Activity, error) {
	machineName = strings.TrimSpace(machineName)
	if machineName == "" {
		return Activity{}, fmt.Errorf("%w: machine name is required", ErrInvalidActivity)
	}
	if hours <= 0 {
		return Activity{}, fmt.Errorf("%w: hours must be positive", ErrInvalidActivity)
	}
	return Activity{
		ID:              uuid.New(),
		ClientSectionID: sectionID,
		Type:            ActivityTypeMachine,
		CreatedAt:       time.Now(),
		MachineName:     machineName,
		Hours:           hours,
		Description:     strings.TrimSpace(description),
	}, nil
}

// NewMaterialActivity builds a validated material-consumption activity.
func NewMaterialActivity(sectionID uuid.UUID, materialName string, quantity float64, unit MaterialUnit, notes string) (Activity, error) {
	materialName = strings.TrimSpace(materialName)
	if materialName == "" {
		return Activity{}, fmt.Errorf("%w: material name is required", ErrInvalidActivity)
	}
	if quantity <= 0 {
		return Activity{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidActivity)
	}
	if unit != UnitCubicMeters && unit != UnitTons {
		return Activity{}, fmt.Errorf("%w: unknown unit %q", ErrInvalidActivity, unit)
	}
	return Activity{
		ID:              uuid.New(),
		ClientSectionID: sectionID,
		Type:            ActivityTypeMaterial,
		CreatedAt:       time.Now(),
		MaterialName:    materialName,
		Quantity:        quantity,
		Unit:            unit,
		Notes:           strings.TrimSpace(notes),
	}, nil
}

// ParseMaterialUnit normalizes the unit spellings seen in older records
// ("m3", "m³", "ton", "tons") to the canonical enum.
func ParseMaterialUnit(raw string) (MaterialUnit, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "m3", "m³", "cubic_meters":
		return UnitCubicMeters, nil
	case "ton", "tons", "t":
		return UnitTons, nil
	default:
		return "", fmt.Errorf("%w: unknown unit %q", ErrInvalidActivity, raw)
	}
}
