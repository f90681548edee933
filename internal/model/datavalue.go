package model

import (
	"encoding/json"

	"github.com/rotisserie/eris"
)

// ValueKind discriminates the DataValue union.
type ValueKind int

const (
	KindNumber ValueKind = iota
	KindString
	KindBool
	KindRecord
	KindList
)

// DataValue is a closed tagged union for question supporting data.
// Keeping the set closed (number, string, bool, record, list) keeps
// related_data serializable and comparable in tests, unlike an open
// any-typed map.
type DataValue struct {
	Kind   ValueKind
	Num    float64
	Str    string
	Bool   bool
	Record map[string]DataValue
	List   []DataValue
}

// Number wraps a float64.
func Number(f float64) DataValue { return DataValue{Kind: KindNumber, Num: f} }

// Int wraps an integer count.
func Int(n int) DataValue { return DataValue{Kind: KindNumber, Num: float64(n)} }

// String wraps a string.
func String(s string) DataValue { return DataValue{Kind: KindString, Str: s} }

// Bool wraps a boolean.
func Bool(b bool) DataValue { return DataValue{Kind: KindBool, Bool: b} }

// Record wraps a nested record.
func Record(m map[string]DataValue) DataValue { return DataValue{Kind: KindRecord, Record: m} }

// List wraps a list of values.
func List(vs ...DataValue) DataValue { return DataValue{Kind: KindList, List: vs} }

// Strings wraps a list of strings.
func Strings(ss []string) DataValue {
	vs := make([]DataValue, len(ss))
	for i, s := range ss {
		vs[i] = String(s)
	}
	return DataValue{Kind: KindList, List: vs}
}

// MarshalJSON renders the value transparently as its underlying JSON type.
func (v DataValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		return json.Marshal(v.Num)
	case KindString:
		return json.Marshal(v.Str)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindRecord:
		if v.Record == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.Record)
	case KindList:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	}
	return nil, eris.Errorf("model: unknown data value kind %d", v.Kind)
}

// UnmarshalJSON re-tags a JSON value by its type.
func (v *DataValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return eris.Wrap(err, "model: unmarshal data value")
	}
	dv, err := fromAny(raw)
	if err != nil {
		return err
	}
	*v = dv
	return nil
}

func fromAny(raw any) (DataValue, error) {
	switch t := raw.(type) {
	case float64:
		return Number(t), nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		// Absent values degrade to the empty string rather than failing.
		return String(""), nil
	case map[string]any:
		rec := make(map[string]DataValue, len(t))
		for k, e := range t {
			dv, err := fromAny(e)
			if err != nil {
				return DataValue{}, err
			}
			rec[k] = dv
		}
		return Record(rec), nil
	case []any:
		list := make([]DataValue, len(t))
		for i, e := range t {
			dv, err := fromAny(e)
			if err != nil {
				return DataValue{}, err
			}
			list[i] = dv
		}
		return DataValue{Kind: KindList, List: list}, nil
	}
	return DataValue{}, eris.Errorf("model: unsupported data value type %T", raw)
}
