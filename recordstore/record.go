package recordstore

import (
	"fmt"
	"strconv"
	"time"
)

// Fields are the values stored on a Record, keyed by field name.
//
// Setting a field to nil in a call to Patch clears it.
type Fields map[string]any

// A Record is a single row of a table in the record store.
type Record struct {
	ID          string    `json:"id"`
	CreatedTime time.Time `json:"createdTime"`
	Fields      Fields    `json:"fields"`
}

// String retrieves the field as a string.
// Missing fields return an empty string;
// non-string values are formatted with fmt.
func (r Record) String(field string) string {
	return stringValue(r.Fields[field])
}

// Bool retrieves the field as a bool.
// Checkbox fields are simply absent when unchecked,
// so missing fields are false.
func (r Record) Bool(field string) bool {
	switch v := r.Fields[field].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

// Time retrieves the field as a time.Time, parsing RFC 3339 text.
// Missing or malformed fields return the zero time.Time.
func (r Record) Time(field string) time.Time {
	switch v := r.Fields[field].(type) {
	case time.Time:
		return v
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}
		}
		return t
	default:
		return time.Time{}
	}
}

func stringValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
