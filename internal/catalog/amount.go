package catalog

import (
	"math"

	"github.com/goccy/go-json"
)

// Amount is an optional SAR figure. The zero value is absent.
type Amount struct {
	value float64
	set   bool
}

// Some returns a present Amount.
func Some(v float64) Amount {
	return Amount{value: v, set: true}
}

// Get returns the value and whether it was set.
func (a Amount) Get() (float64, bool) {
	return a.value, a.set
}

// Set reports whether a value is present, regardless of its sign.
func (a Amount) Set() bool { return a.set }

// Available reports whether a is a usable positive fee. Absent, zero, negative
// and non-finite amounts all mean the option is not offered.
func (a Amount) Available() bool {
	return a.set && Positive(a.value)
}

// Or returns the value when available, otherwise def.
func (a Amount) Or(def float64) float64 {
	if a.Available() {
		return a.value
	}
	return def
}

// Positive reports whether v is a finite number greater than zero.
func Positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// MarshalJSON encodes an absent amount as null.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.set {
		return []byte("null"), nil
	}
	return json.Marshal(a.value)
}

// UnmarshalJSON decodes null as absent.
func (a *Amount) UnmarshalJSON(b []byte) error {
	var v *float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v == nil {
		*a = Amount{}
		return nil
	}
	*a = Some(*v)
	return nil
}
