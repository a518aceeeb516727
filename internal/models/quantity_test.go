package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealbridge/mealbridge-backend/internal/apperr"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Quantity
	}{
		{"kg no space", "10kg", Quantity{Amount: 10, Unit: UnitKilograms}},
		{"kg with space", "10 kg", Quantity{Amount: 10, Unit: UnitKilograms}},
		{"kgs alias", "2kgs", Quantity{Amount: 2, Unit: UnitKilograms}},
		{"kilograms alias", "3 kilograms", Quantity{Amount: 3, Unit: UnitKilograms}},
		{"plates", "5 plates", Quantity{Amount: 5, Unit: UnitPlates}},
		{"singular plate", "1 plate", Quantity{Amount: 1, Unit: UnitPlates}},
		{"servings alias", "20 servings", Quantity{Amount: 20, Unit: UnitPlates}},
		{"meals alias", "15 meals", Quantity{Amount: 15, Unit: UnitPlates}},
		{"bare number defaults to plates", "12", Quantity{Amount: 12, Unit: UnitPlates}},
		{"decimal magnitude", "2.5kg", Quantity{Amount: 2.5, Unit: UnitKilograms}},
		{"mixed case and padding", "  10KG ", Quantity{Amount: 10, Unit: UnitKilograms}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuantity(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseQuantityRejectsGarbage(t *testing.T) {
	for _, input := range []string{
		"",
		"   ",
		"kg",
		"lots of rice",
		"10 liters",
		"0 kg",
		"10..5kg",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseQuantity(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperr.ErrValidation), "expected validation error, got %v", err)
		})
	}
}
