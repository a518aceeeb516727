package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mealbridge/mealbridge-backend/internal/apperr"
)

// QuantityUnit is the bucket a donation quantity is aggregated under.
// Weights and plate counts are never summed together.
type QuantityUnit string

const (
	UnitKilograms QuantityUnit = "kg"
	UnitPlates    QuantityUnit = "plates"
)

// Quantity is the parsed form of the free-text quantity a donor submits
// (e.g. "12kg", "5 plates"). Parsing happens once, on write; analytics only
// ever sees the tagged value.
type Quantity struct {
	Amount float64      `json:"amount"`
	Unit   QuantityUnit `json:"unit"`
}

var unitAliases = map[string]QuantityUnit{
	"kg":        UnitKilograms,
	"kgs":       UnitKilograms,
	"kilogram":  UnitKilograms,
	"kilograms": UnitKilograms,
	"plate":     UnitPlates,
	"plates":    UnitPlates,
	"serving":   UnitPlates,
	"servings":  UnitPlates,
	"meal":      UnitPlates,
	"meals":     UnitPlates,
}

// ParseQuantity parses a magnitude followed by an optional unit. A bare
// number counts as plates, matching how most donors fill the field.
func ParseQuantity(raw string) (Quantity, error) {
	s := strings.TrimSpace(strings.ToLower(raw))
	if s == "" {
		return Quantity{}, fmt.Errorf("%w: quantity is required", apperr.ErrValidation)
	}

	i := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
		i++
	}
	if i == 0 {
		return Quantity{}, fmt.Errorf("%w: quantity %q must start with a number", apperr.ErrValidation, raw)
	}

	amount, err := strconv.ParseFloat(s[:i], 64)
	if err != nil || amount <= 0 {
		return Quantity{}, fmt.Errorf("%w: quantity %q has no usable magnitude", apperr.ErrValidation, raw)
	}

	unitToken := strings.TrimSpace(s[i:])
	if unitToken == "" {
		return Quantity{Amount: amount, Unit: UnitPlates}, nil
	}
	unit, ok := unitAliases[unitToken]
	if !ok {
		return Quantity{}, fmt.Errorf("%w: unknown quantity unit %q", apperr.ErrValidation, unitToken)
	}
	return Quantity{Amount: amount, Unit: unit}, nil
}

func (q Quantity) String() string {
	return fmt.Sprintf("%g %s", q.Amount, q.Unit)
}
