package actions

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/safespend-dev/safespend/internal/model"
)

// Encode renders actions in the raw record shape Normalize accepts.
// Amounts are written as decimal strings so no precision is lost.
func Encode(actions []model.Action) []map[string]any {
	out := make([]map[string]any, 0, len(actions))
	for _, a := range actions {
		switch v := a.(type) {
		case model.TransactionAction:
			m := map[string]any{
				"kind":     string(model.KindTransaction),
				"amount":   v.Amount.String(),
				"category": v.Category,
				"merchant": v.Merchant,
				"title":    v.Title,
				"type":     string(v.Type),
				"date":     model.FormatDate(v.Date),
			}
			if v.Remarks != "" {
				m["remarks"] = v.Remarks
			}
			if len(v.SplitWith) > 0 {
				m["splitWith"] = append([]string(nil), v.SplitWith...)
			}
			out = append(out, m)
		case model.DebtAction:
			m := map[string]any{
				"kind":       string(model.KindDebt),
				"personName": v.PersonName,
				"amount":     v.Amount.String(),
				"direction":  string(v.Direction),
			}
			if !v.DueDate.IsZero() {
				m["dueDate"] = model.FormatDate(v.DueDate)
			}
			out = append(out, m)
		case model.RecurringAction:
			m := map[string]any{
				"kind":         string(model.KindRecurring),
				"name":         v.Name,
				"amount":       v.Amount.String(),
				"type":         string(v.Type),
				"frequency":    string(v.Frequency),
				"expectedDate": string(v.ExpectedDate),
			}
			if !v.EndDate.IsZero() {
				m["endDate"] = model.FormatDate(v.EndDate)
			}
			out = append(out, m)
		}
	}
	return out
}

// EncodeJSON is Encode followed by indented JSON marshaling. Object keys
// are sorted, so equal inputs give byte-identical output.
func EncodeJSON(actions []model.Action) ([]byte, error) {
	data, err := json.MarshalIndent(Encode(actions), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling actions: %w", err)
	}
	return data, nil
}

// Decode reads raw records from a JSON array, or from a single JSON object.
// Numbers are kept as json.Number so amounts are not routed through float64.
func Decode(data []byte) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("decoding actions: empty input")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	if trimmed[0] == '{' {
		var one map[string]any
		if err := dec.Decode(&one); err != nil {
			return nil, fmt.Errorf("decoding action: %w", err)
		}
		return []map[string]any{one}, nil
	}

	var many []map[string]any
	if err := dec.Decode(&many); err != nil {
		return nil, fmt.Errorf("decoding actions: %w", err)
	}
	return many, nil
}
