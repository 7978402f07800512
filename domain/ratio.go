package domain

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

const ratioNotApplicable = "not_applicable"

// Ratio is either a computed value or not applicable because its
// denominator was zero. The zero value is not applicable.
type Ratio struct {
	value      decimal.Decimal
	applicable bool
}

func RatioOf(v decimal.Decimal) Ratio {
	return Ratio{value: v, applicable: true}
}

func NotApplicable() Ratio {
	return Ratio{}
}

// Value returns the ratio and whether it was computed.
func (r Ratio) Value() (decimal.Decimal, bool) {
	return r.value, r.applicable
}

func (r Ratio) Applicable() bool {
	return r.applicable
}

func (r Ratio) Equal(o Ratio) bool {
	if r.applicable != o.applicable {
		return false
	}
	return !r.applicable || r.value.Equal(o.value)
}

func (r Ratio) String() string {
	if !r.applicable {
		return "N/A"
	}
	return r.value.String()
}

type ratioJSON struct {
	Status string           `json:"status"`
	Value  *decimal.Decimal `json:"value,omitempty"`
}

// MarshalJSON encodes {"status":"value","value":"0.08"} or
// {"status":"not_applicable"}.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.applicable {
		return json.Marshal(ratioJSON{Status: ratioNotApplicable})
	}
	v := r.value
	return json.Marshal(ratioJSON{Status: "value", Value: &v})
}

func (r *Ratio) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*r = NotApplicable()
		return nil
	}
	var raw ratioJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch raw.Status {
	case ratioNotApplicable:
		*r = NotApplicable()
	case "value":
		if raw.Value == nil {
			return fmt.Errorf("ratio: missing value")
		}
		*r = RatioOf(*raw.Value)
	default:
		return fmt.Errorf("ratio: unknown status %q", raw.Status)
	}
	return nil
}
