package validate

import "encoding/json"

// Optional is a JSON field that remembers whether its key was present.
//
// Partial updates need three states per field: absent (leave the column
// alone), null (clear it) and a value. A plain pointer collapses the first
// two, so request schemas use Optional instead:
//
//	type patch struct {
//	    Feedback validate.Optional `json:"feedback"`
//	}
//
// After decoding, Set is false for an absent key. For a present key, Value
// holds whatever encoding/json produced (nil, float64, string, bool, ...).
type Optional struct {
	Set   bool
	Value any
}

// Some returns a present Optional holding v.
func Some(v any) Optional {
	return Optional{Set: true, Value: v}
}

// UnmarshalJSON is only called when the key exists, including for null.
func (o *Optional) UnmarshalJSON(b []byte) error {
	o.Set = true
	return json.Unmarshal(b, &o.Value)
}

// MarshalJSON writes the held value; an unset Optional is written as null.
func (o Optional) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}

// IsZero reports an absent key, so a field tagged `json:",omitzero"` is
// left out of the encoded object while Some(nil) is still sent as null.
func (o Optional) IsZero() bool {
	return !o.Set
}

// IsNull reports a key that was present with a JSON null.
func (o Optional) IsNull() bool {
	return o.Set && o.Value == nil
}
