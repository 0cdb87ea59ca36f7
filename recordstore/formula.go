package recordstore

import (
	"strconv"
	"strings"
)

var (
	_ Formula = All{}
	_ Formula = And{}
	_ Formula = Contains{}
	_ Formula = Eq{}
	_ Formula = Or{}
	_ Formula = RecordID("")
)

// A Formula is a predicate over the fields of a Record.
//
// String renders the Formula in the Airtable formula language.
// Matches evaluates the Formula against a Record in process.
type Formula interface {
	String() string
	Matches(r Record) bool
}

// All matches every record.
type All struct{}

func (All) String() string { return "TRUE()" }
func (All) Matches(_ Record) bool { return true }

// Eq matches records whose Field exactly equals Value.
//
// Value may be a string, bool, int or float64.
// String comparison is case-sensitive.
// A missing field equals an empty string or false, and no number.
type Eq struct {
	Field string
	Value any
}

func (e Eq) String() string {
	return fieldRef(e.Field) + "=" + literal(e.Value)
}

func (e Eq) Matches(r Record) bool {
	got := r.Fields[e.Field]
	switch want := e.Value.(type) {
	case bool:
		return r.Bool(e.Field) == want
	case int:
		f, ok := number(got)
		return ok && f == float64(want)
	case float64:
		f, ok := number(got)
		return ok && f == want
	default:
		return stringValue(got) == stringValue(want)
	}
}

// Contains matches records whose Field holds Substr anywhere in its text.
// An empty Substr never matches.
type Contains struct {
	Field  string
	Substr string
}

func (c Contains) String() string {
	return "FIND(" + literal(c.Substr) + "," + fieldRef(c.Field) + ")"
}

func (c Contains) Matches(r Record) bool {
	if c.Substr == "" {
		return false
	}

	return strings.Contains(r.String(c.Field), c.Substr)
}

// RecordID matches the record with this ID.
type RecordID string

func (id RecordID) String() string {
	return "RECORD_ID()=" + literal(string(id))
}

func (id RecordID) Matches(r Record) bool { return r.ID == string(id) }

// And matches records matching every Formula in it.
// An empty And matches every record.
type And []Formula

func (a And) String() string {
	if len(a) == 1 {
		return a[0].String()
	}

	return "AND(" + join(a) + ")"
}

func (a And) Matches(r Record) bool {
	for _, f := range a {
		if !f.Matches(r) {
			return false
		}
	}

	return true
}

// Or matches records matching any Formula in it.
// An empty Or matches no record.
type Or []Formula

func (o Or) String() string {
	switch len(o) {
	case 0:
		return "FALSE()"
	case 1:
		return o[0].String()
	default:
		return "OR(" + join(o) + ")"
	}
}

func (o Or) Matches(r Record) bool {
	for _, f := range o {
		if f.Matches(r) {
			return true
		}
	}

	return false
}

func join(fs []Formula) string {
	parts := make([]string, 0, len(fs))
	for _, f := range fs {
		parts = append(parts, f.String())
	}

	if len(parts) == 0 {
		return "TRUE()"
	}

	return strings.Join(parts, ",")
}

// fieldRef renders a field reference, e.g., {email}.
// Closing braces cannot appear in a field reference.
func fieldRef(field string) string {
	return "{" + strings.ReplaceAll(field, "}", "") + "}"
}

// literal renders v as an Airtable formula literal.
// Strings are single-quoted with backslash escapes.
func literal(v any) string {
	switch v := v.(type) {
	case bool:
		if v {
			return "TRUE()"
		}
		return "FALSE()"
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		s := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(stringValue(v))
		return "'" + s + "'"
	}
}

func number(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
