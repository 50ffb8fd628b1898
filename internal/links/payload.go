// internal/links/payload.go
package links

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Well-known payload keys.
const (
	FieldLinks     = "links"
	FieldTransType = "trans_type"
	FieldTransNo   = "trans_no"
)

// Payload is the read-only result an upstream engine produced for one
// imported transaction.
type Payload map[string]interface{}

// String returns the trimmed string stored under key. Non-string values
// are treated as absent.
func (p Payload) String(key string) (string, bool) {
	raw, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// TransType returns the numeric-coerced trans_type field.
func (p Payload) TransType() (int, bool) {
	return CoerceInt(p[FieldTransType])
}

// TransNo returns the numeric-coerced trans_no field.
func (p Payload) TransNo() (int, bool) {
	return CoerceInt(p[FieldTransNo])
}

// CoerceInt converts loosely typed numeric values (JSON numbers, ints,
// numeric strings) to int. Booleans, blank strings, fractional values and
// values outside the int range are rejected.
func CoerceInt(v interface{}) (int, bool) {
	switch val := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		val = strings.TrimSpace(val)
		if val == "" {
			return 0, false
		}
		n, err := cast.ToIntE(strings.TrimLeft(val, "0") + zeroIfEmpty(val))
		if err != nil {
			return 0, false
		}
		return n, true
	case json.Number:
		if n, err := val.Int64(); err == nil {
			if n > math.MaxInt || n < math.MinInt {
				return 0, false
			}
			return int(n), true
		}
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	case float64:
		return floatToInt(val)
	case float32:
		return floatToInt(float64(val))
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// floatToInt accepts only integral values inside the int range.
func floatToInt(f float64) (int, bool) {
	if f != math.Trunc(f) || f < float64(math.MinInt) || f >= -float64(math.MinInt) {
		return 0, false
	}
	return int(f), true
}

// zeroIfEmpty keeps "0" and "000" parseable once leading zeros are trimmed.
func zeroIfEmpty(s string) string {
	if strings.TrimLeft(s, "0") == "" {
		return "0"
	}
	return ""
}
