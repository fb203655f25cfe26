package storage

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Diverged runs produce NaN and infinite values, which encoding/json
// rejects. They are written as the strings "NaN", "+Inf" and "-Inf".

func encodeFloat(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return v
}

func decodeFloat(raw json.RawMessage) (float64, error) {
	var v float64
	if err := json.Unmarshal(raw, &v); err == nil {
		return v, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("invalid value %s", raw)
	}
	return strconv.ParseFloat(s, 64)
}

// Metrics holds the final value of each metric of a run.
type Metrics map[string]float64

func (m Metrics) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = encodeFloat(v)
	}
	return json.Marshal(out)
}

func (m *Metrics) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*m = nil
		return nil
	}
	out := make(Metrics, len(raw))
	for k, r := range raw {
		v, err := decodeFloat(r)
		if err != nil {
			return fmt.Errorf("metric %s: %w", k, err)
		}
		out[k] = v
	}
	*m = out
	return nil
}

// Samples is one metric series.
type Samples []float64

func (s Samples) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = encodeFloat(v)
	}
	return json.Marshal(out)
}

func (s *Samples) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = nil
		return nil
	}
	out := make(Samples, len(raw))
	for i, r := range raw {
		v, err := decodeFloat(r)
		if err != nil {
			return err
		}
		out[i] = v
	}
	*s = out
	return nil
}
