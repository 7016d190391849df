package export

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// jsonFloat is a box extent in JSON. Finite values are numbers; NaN and
// the infinities, which JSON cannot represent, are the strings "NaN",
// "+Inf" and "-Inf".
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte(strconv.Quote(strconv.FormatFloat(v, 'g', -1, 64))), nil
	}
	return json.Marshal(v)
}

func (f *jsonFloat) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return fmt.Errorf("extent %s: %w", b, err)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("extent %s: %w", b, err)
		}
		*f = jsonFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = jsonFloat(v)
	return nil
}

type jsonRecord struct {
	ID   uint64      `json:"id"`
	Proc uint32      `json:"proc"`
	Low  []jsonFloat `json:"low"`
	High []jsonFloat `json:"high"`
}

// MarshalJSON encodes r, keeping non-finite extents representable.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonRecord{ID: r.ID, Proc: r.Proc, Low: toJSONFloats(r.Low), High: toJSONFloats(r.High)})
}

// UnmarshalJSON decodes a record written by MarshalJSON.
func (r *Record) UnmarshalJSON(b []byte) error {
	var jr jsonRecord
	if err := json.Unmarshal(b, &jr); err != nil {
		return err
	}
	*r = Record{ID: jr.ID, Proc: jr.Proc, Low: fromJSONFloats(jr.Low), High: fromJSONFloats(jr.High)}
	return nil
}

func toJSONFloats(s []float64) []jsonFloat {
	if s == nil {
		return nil
	}
	out := make([]jsonFloat, len(s))
	for i, v := range s {
		out[i] = jsonFloat(v)
	}
	return out
}

func fromJSONFloats(s []jsonFloat) []float64 {
	if s == nil {
		return nil
	}
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = float64(v)
	}
	return out
}
