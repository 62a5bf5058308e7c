package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMachineActivity(t *testing.T) {
	sectionID := uuid.New()

	t.Run("valid", func(t *testing.T) {
		activity, err := NewMachineActivity(sectionID, "  Escavatore CAT 320 ", 8.5, " scavo fondazioni ")
		require.NoError(t, err)
		assert.Equal(t, ActivityTypeMachine, activity.Type)
		assert.Equal(t, "Escavatore CAT 320", activity.MachineName)
		assert.Equal(t, 8.5, activity.Hours)
		assert.Equal(t, "scavo fondazioni", activity.Description)
		assert.Equal(t, sectionID, activity.ClientSectionID)
		assert.NotEqual(t, uuid.Nil, activity.ID)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewMachineActivity(sectionID, "   ", 8.5, "")
		require.ErrorIs(t, err, ErrInvalidActivity)
	})

	t.Run("zero hours", func(t *testing.T) {
		_, err := NewMachineActivity(sectionID, "Escavatore", 0, "")
		require.ErrorIs(t, err, ErrInvalidActivity)
	})

	t.Run("negative hours", func(t *testing.T) {
		_, err := NewMachineActivity(sectionID, "Escavatore", -1.5, "")
		require.ErrorIs(t, err, ErrInvalidActivity)
	})
}

func TestNewMaterialActivity(t *testing.T) {
	sectionID := uuid.New()

	t.Run("valid", func(t *testing.T) {
		activity, err := NewMaterialActivity(sectionID, "Ghiaia", 3.25, UnitCubicMeters, "consegna mattina")
		require.NoError(t, err)
		assert.Equal(t, ActivityTypeMaterial, activity.Type)
		assert.Equal(t, "Ghiaia", activity.MaterialName)
		assert.Equal(t, 3.25, activity.Quantity)
		assert.Equal(t, UnitCubicMeters, activity.Unit)
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, err := NewMaterialActivity(sectionID, "Ghiaia", 0, UnitTons, "")
		require.ErrorIs(t, err, ErrInvalidActivity)
	})

	t.Run("unknown unit", func(t *testing.T) {
		_, err := NewMaterialActivity(sectionID, "Ghiaia", 1, MaterialUnit("KG"), "")
		require.ErrorIs(t, err, ErrInvalidActivity)
	})
}

func TestParseMaterialUnit(t *testing.T) {
	cases := []struct {
		raw  string
		want MaterialUnit
	}{
		{"m3", UnitCubicMeters},
		{"m³", UnitCubicMeters},
		{"cubic_meters", UnitCubicMeters},
		{"M3", UnitCubicMeters},
		{"ton", UnitTons},
		{"tons", UnitTons},
		{" T ", UnitTons},
	}
	for _, tc := range cases {
		got, err := ParseMaterialUnit(tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}

	_, err := ParseMaterialUnit("litri")
	require.ErrorIs(t, err, ErrInvalidActivity)
}
