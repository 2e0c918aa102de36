package model

import "encoding/json"

// ChartRow is one date of a pivoted chart. Values holds a key only for the
// series that observed Date.
type ChartRow struct {
	Date   Date
	Values map[string]float64
}

// Value returns the value of key and whether the row has one.
func (r ChartRow) Value(key string) (float64, bool) {
	v, ok := r.Values[key]
	return v, ok
}

// MarshalJSON flattens the row into {"date": ..., "<key>": value, ...}.
func (r ChartRow) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Values)+1)
	for k, v := range r.Values {
		flat[k] = v
	}
	flat["date"] = r.Date.String()
	return json.Marshal(flat)
}
