package entities

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewVehicle(t *testing.T) {
	// Act
	vehicle := NewVehicle("abc-1234", "Fiat", "Strada", 2021, 15000, "flex")

	// Assert
	assert.NotEqual(t, uuid.Nil, vehicle.ID)
	assert.Equal(t, "ABC1234", vehicle.Plate)
	assert.Equal(t, "Fiat", vehicle.Brand)
	assert.Equal(t, "Strada", vehicle.Model)
	assert.Equal(t, 2021, vehicle.Year)
	assert.Equal(t, 15000, vehicle.CurrentKm)
	assert.Equal(t, VehicleAvailable, vehicle.Status)
}

func TestNormalizePlate(t *testing.T) {
	tests := []struct {
		name     string
		plate    string
		expected string
	}{
		{"Lowercase with dash", "abc-1234", "ABC1234"},
		{"Spaces", " abc 1234 ", "ABC1234"},
		{"Already canonical", "ABC1234", "ABC1234"},
		{"Mercosul format", "abc1d23", "ABC1D23"},
		{"Mixed separators", "a.b c-1:2;3_4", "ABC1234"},
		{"Empty", "", ""},
		{"Only separators", "--- ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePlate(tt.plate))
		})
	}
}

func TestVehicle_ChangeStatus(t *testing.T) {
	tests := []struct {
		name          string
		status        VehicleStatus
		available     bool
		inMaintenance bool
	}{
		{"Available vehicle", VehicleAvailable, true, false},
		{"Vehicle in use", VehicleInUse, false, false},
		{"Vehicle in maintenance", VehicleMaintenance, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vehicle := NewVehicle("ABC1234", "Fiat", "Strada", 2021, 0, "flex")

			vehicle.ChangeStatus(tt.status)

			assert.Equal(t, tt.status, vehicle.Status)
			assert.Equal(t, tt.available, vehicle.IsAvailable())
			assert.Equal(t, tt.inMaintenance, vehicle.InMaintenance())
		})
	}
}

func TestVehicle_AdvanceOdometer(t *testing.T) {
	tests := []struct {
		name        string
		currentKm   int
		newKm       int
		expectedErr error
		expectedKm  int
	}{
		{"Forward reading", 15000, 15120, nil, 15120},
		{"Same reading", 15000, 15000, nil, 15000},
		{"Backward reading rejected", 15000, 14900, ErrInvalidOdometerReading, 15000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vehicle := NewVehicle("ABC1234", "Fiat", "Strada", 2021, tt.currentKm, "flex")

			err := vehicle.AdvanceOdometer(tt.newKm)

			assert.Equal(t, tt.expectedErr, err)
			assert.Equal(t, tt.expectedKm, vehicle.CurrentKm)
		})
	}
}

func TestVehicle_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Vehicle)
		expectedErr error
	}{
		{"Valid vehicle", func(v *Vehicle) {}, nil},
		{"Empty plate", func(v *Vehicle) { v.Plate = "" }, ErrInvalidPlate},
		{"Separator-only plate", func(v *Vehicle) { v.Plate = "---" }, ErrInvalidPlate},
		{"Missing brand", func(v *Vehicle) { v.Brand = "" }, ErrInvalidVehicleData},
		{"Missing model", func(v *Vehicle) { v.Model = "" }, ErrInvalidVehicleData},
		{"Invalid year", func(v *Vehicle) { v.Year = 0 }, ErrInvalidVehicleData},
		{"Negative odometer", func(v *Vehicle) { v.CurrentKm = -1 }, ErrInvalidOdometerReading},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vehicle := NewVehicle("ABC1234", "Fiat", "Strada", 2021, 1000, "flex")
			tt.mutate(vehicle)

			assert.Equal(t, tt.expectedErr, vehicle.Validate())
		})
	}
}
