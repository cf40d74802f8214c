// Package money holds prices as integer minor units so cart totals add up
// exactly, while accepting the loosely typed prices the storefront API emits
// (JSON numbers or numeric strings such as "39.90").
package money

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Price is an amount in cents.
type Price int64

func FromFloat(f float64) Price {
	return Price(math.Round(f * 100))
}

// Parse reads a decimal string. Surrounding whitespace is ignored and an
// empty string parses as zero. Amounts whose cents do not fit in an int64
// are rejected.
func Parse(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("money: invalid price %q", s)
	}
	if cents := math.Round(f * 100); math.Abs(cents) >= 1<<63 {
		return 0, fmt.Errorf("money: price %q out of range", s)
	}
	return FromFloat(f), nil
}

func (p Price) Float() float64 {
	return float64(p) / 100
}

func (p Price) Times(qty int) Price {
	return p * Price(qty)
}

// String formats with exactly two decimals.
func (p Price) String() string {
	sign := ""
	v := int64(p)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(p.Float(), 'f', -1, 64)), nil
}

func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*p = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := Parse(s)
		if err != nil {
			return err
		}
		*p = v
		return nil
	}
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
