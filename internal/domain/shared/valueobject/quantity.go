package valueobject

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Quantity is a value object representing item quantities.
// It supports decimal quantities for goods procured by weight/volume.
// It is immutable - all operations return new Quantity instances
type Quantity struct {
	value decimal.Decimal
	unit  string
}

// NewQuantity creates a new Quantity with the specified value and unit
func NewQuantity(value decimal.Decimal, unit string) (Quantity, error) {
	if value.IsNegative() {
		return Quantity{}, errors.New("quantity cannot be negative")
	}
	return Quantity{
		value: value,
		unit:  unit,
	}, nil
}

// NewQuantityFromFloat creates Quantity from a float64 value
func NewQuantityFromFloat(value float64, unit string) (Quantity, error) {
	return NewQuantity(decimal.NewFromFloat(value), unit)
}

// NewQuantityFromInt creates Quantity from an int64 value
func NewQuantityFromInt(value int64, unit string) (Quantity, error) {
	return NewQuantity(decimal.NewFromInt(value), unit)
}

// MustNewQuantity creates a Quantity and panics on error
func MustNewQuantity(value decimal.Decimal, unit string) Quantity {
	q, err := NewQuantity(value, unit)
	if err != nil {
		panic(err)
	}
	return q
}

// ZeroQuantity returns a zero quantity with the specified unit
func ZeroQuantity(unit string) Quantity {
	return Quantity{value: decimal.Zero, unit: unit}
}

// Value returns the decimal value
func (q Quantity) Value() decimal.Decimal {
	return q.value
}

// Unit returns the unit of measure
func (q Quantity) Unit() string {
	return q.unit
}

// IsZero returns true if the value is zero
func (q Quantity) IsZero() bool {
	return q.value.IsZero()
}

// IsPositive returns true if the value is positive
func (q Quantity) IsPositive() bool {
	return q.value.IsPositive()
}

// Add returns a new Quantity with the sum of both values
// Returns error if units don't match
func (q Quantity) Add(other Quantity) (Quantity, error) {
	if q.unit != other.unit {
		return Quantity{}, fmt.Errorf("unit mismatch: %s vs %s", q.unit, other.unit)
	}
	return Quantity{value: q.value.Add(other.value), unit: q.unit}, nil
}

// Sub returns a new Quantity with the difference of both values
// Returns error if units don't match or the result would be negative
func (q Quantity) Sub(other Quantity) (Quantity, error) {
	if q.unit != other.unit {
		return Quantity{}, fmt.Errorf("unit mismatch: %s vs %s", q.unit, other.unit)
	}
	result := q.value.Sub(other.value)
	if result.IsNegative() {
		return Quantity{}, errors.New("quantity cannot go negative")
	}
	return Quantity{value: result, unit: q.unit}, nil
}

// GreaterThan returns true if this value is greater than the other
func (q Quantity) GreaterThan(other Quantity) bool {
	return q.value.GreaterThan(other.value)
}

// LessThan returns true if this value is less than the other
func (q Quantity) LessThan(other Quantity) bool {
	return q.value.LessThan(other.value)
}

// Equals returns true if both value and unit match
func (q Quantity) Equals(other Quantity) bool {
	return q.unit == other.unit && q.value.Equal(other.value)
}

// String returns a human-readable representation
func (q Quantity) String() string {
	if q.unit == "" {
		return q.value.String()
	}
	return fmt.Sprintf("%s %s", q.value.String(), q.unit)
}
