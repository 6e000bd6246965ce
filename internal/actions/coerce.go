package actions

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/safespend-dev/safespend/internal/model"
)

var errMissing = errors.New("missing")

// record is one raw action with convenience accessors over its loosely
// typed fields.
type record map[string]any

// flatten accepts either a flat record or the {"intent": ..., "data": {...}}
// envelope and returns a flat record with the kind under "kind".
func flatten(raw map[string]any) record {
	out := make(record, len(raw))
	if data, ok := raw["data"].(map[string]any); ok {
		for k, v := range data {
			out[k] = v
		}
	}
	for k, v := range raw {
		if k == "data" || k == "intent" {
			continue
		}
		if _, set := out[k]; !set {
			out[k] = v
		}
	}
	if _, ok := out["kind"]; !ok {
		if intent, ok := raw["intent"]; ok {
			out["kind"] = intent
		}
	}
	return out
}

// str returns the trimmed string value of key. Numbers are rendered in
// their shortest form; null and absent keys yield "".
func (r record) str(key string) string {
	switch v := r[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return decimal.NewFromFloat(v).String()
	case int:
		return fmt.Sprint(v)
	case int64:
		return fmt.Sprint(v)
	default:
		return ""
	}
}

// first returns the first non-empty string among keys.
func (r record) first(keys ...string) string {
	for _, k := range keys {
		if s := r.str(k); s != "" {
			return s
		}
	}
	return ""
}

var currencyNoise = strings.NewReplacer(
	"₹", "", "$", "", "€", "", "£", "",
	"Rs.", "", "Rs", "", "INR", "", ",", "", " ", "",
)

// amount reads a monetary value rounded half-up to the given number of
// decimal places.
func (r record) amount(key string, places int32) (decimal.Decimal, error) {
	var d decimal.Decimal
	switch v := r[key].(type) {
	case nil:
		return decimal.Zero, errMissing
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, fmt.Errorf("not a number")
		}
		d = decimal.NewFromFloat(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case int64:
		d = decimal.NewFromInt(v)
	case json.Number:
		parsed, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("not a number: %q", v.String())
		}
		d = parsed
	case string:
		s := currencyNoise.Replace(strings.TrimSpace(v))
		if s == "" {
			return decimal.Zero, errMissing
		}
		parsed, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("not a number: %q", v)
		}
		d = parsed
	case decimal.Decimal:
		d = v
	default:
		return decimal.Zero, fmt.Errorf("cannot convert %T to an amount", v)
	}
	d = d.Round(places)
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("must be positive, got %s", d.String())
	}
	return d, nil
}

// date reads an optional calendar date. ok is false when the key is absent,
// null or blank.
func (r record) date(key string) (t time.Time, ok bool, err error) {
	s := r.str(key)
	if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
		return time.Time{}, false, nil
	}
	t, err = model.ParseDate(s)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// names reads a list of person names from an array or a comma separated
// string.
func (r record) names(key string) ([]string, error) {
	var raw []string
	switch v := r[key].(type) {
	case nil:
		return nil, nil
	case string:
		raw = strings.Split(v, ",")
	case []string:
		raw = v
	case []any:
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("entry %d is %T, not a name", i, item)
			}
			raw = append(raw, s)
		}
	default:
		return nil, fmt.Errorf("cannot convert %T to a list of names", v)
	}

	var out []string
	seen := make(map[string]bool)
	for _, name := range raw {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || selfReferences[key] {
			continue
		}
		if seen[key] {
			return nil, fmt.Errorf("%q listed twice", name)
		}
		seen[key] = true
		out = append(out, name)
	}
	return out, nil
}

// selfReferences are how a classifier tends to list the user among the
// people sharing an expense.
var selfReferences = map[string]bool{
	"me": true, "i": true, "myself": true, "self": true, "user": true, "you": true,
}

func expectedDate(v any) (model.ExpectedDate, error) {
	switch n := v.(type) {
	case nil:
		return "", errMissing
	case float64:
		if n != math.Trunc(n) {
			return "", fmt.Errorf("%w: got %v", model.ErrInvalidExpectedDate, n)
		}
		return model.ParseExpectedDate(fmt.Sprint(int64(n)))
	case int:
		return model.ParseExpectedDate(fmt.Sprint(n))
	case json.Number:
		return model.ParseExpectedDate(n.String())
	case string:
		return model.ParseExpectedDate(n)
	case model.ExpectedDate:
		return model.ParseExpectedDate(string(n))
	default:
		return "", fmt.Errorf("cannot convert %T to an expected date", v)
	}
}
