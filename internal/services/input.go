package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Number accepts a JSON number or a numeric string, as form clients send both.
// An empty string or null leaves it unset.
type Number struct {
	Value float64
	Set   bool
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}
	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*n = Number{}
			return nil
		}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("invalid number %q", raw)
	}
	*n = Number{Value: v, Set: true}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Finite reports whether n is set to a real, finite value
func (n Number) Finite() bool {
	return n.Set && !math.IsNaN(n.Value) && !math.IsInf(n.Value, 0)
}

// Num is a convenience constructor for a set Number
func Num(v float64) Number {
	return Number{Value: v, Set: true}
}

func (n Number) ptr() *float64 {
	if !n.Set {
		return nil
	}
	v := n.Value
	return &v
}

func (n Number) intPtr() *int {
	if !n.Set {
		return nil
	}
	v := int(n.Value)
	return &v
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

// optional turns a blank string into nil
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
