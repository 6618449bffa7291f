package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// Number is a float64 whose NaN and infinite values encode as JSON null.
// NaN is the sentinel for an undefined ratio.
type Number float64

// Undefined reports whether n holds the undefined sentinel.
func (n Number) Undefined() bool {
	return math.IsNaN(float64(n))
}

// Float returns n as a float64.
func (n Number) Float() float64 {
	return float64(n)
}

// MarshalJSON implements json.Marshaler
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Number(math.NaN())
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Category is a binary bucket (0 or 1) that may be undefined.
type Category int8

const (
	// CategoryUndefined marks a row that could not be binned.
	CategoryUndefined Category = -1
	CategoryLow       Category = 0
	CategoryHigh      Category = 1
)

// Defined reports whether c is 0 or 1.
func (c Category) Defined() bool {
	return c == CategoryLow || c == CategoryHigh
}

// String returns "0", "1" or "" for undefined.
func (c Category) String() string {
	if !c.Defined() {
		return ""
	}
	return strconv.Itoa(int(c))
}

// MarshalJSON implements json.Marshaler
func (c Category) MarshalJSON() ([]byte, error) {
	if !c.Defined() {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(c))), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (c *Category) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = CategoryUndefined
		return nil
	}
	v, err := strconv.Atoi(string(data))
	if err != nil {
		return err
	}
	*c = Category(v)
	return nil
}
