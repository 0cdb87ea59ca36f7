package pgstore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/recordstore"
)

// toSQL translates f into a WHERE clause over the records table and its arguments.
//
// The clause matches the same records f.Matches does,
// except that Eq on a number only matches fields stored as JSON numbers.
func toSQL(f recordstore.Formula) (string, []any, error) {
	switch f := f.(type) {
	case nil, recordstore.All:
		return "TRUE", nil, nil

	case recordstore.RecordID:
		return "id = ?", []any{string(f)}, nil

	case recordstore.Eq:
		switch v := f.Value.(type) {
		case bool:
			return "COALESCE(fields->>?, 'false') = ?", []any{f.Field, strconv.FormatBool(v)}, nil
		case int:
			return numberEq, []any{f.Field, f.Field, float64(v)}, nil
		case float64:
			return numberEq, []any{f.Field, f.Field, v}, nil
		case string:
			return "COALESCE(fields->>?, '') = ?", []any{f.Field, v}, nil
		default:
			return "COALESCE(fields->>?, '') = ?", []any{f.Field, fmt.Sprint(v)}, nil
		}

	case recordstore.Contains:
		if f.Substr == "" {
			return "FALSE", nil, nil
		}

		return "strpos(COALESCE(fields->>?, ''), ?) > 0", []any{f.Field, f.Substr}, nil

	case recordstore.And:
		return combine([]recordstore.Formula(f), "AND", "TRUE")

	case recordstore.Or:
		return combine([]recordstore.Formula(f), "OR", "FALSE")

	default:
		return "", nil, fmt.Errorf("%w: formula %T", synkro.ErrNotImplemented, f)
	}
}

const numberEq = "CASE WHEN jsonb_typeof(fields->?) = 'number' THEN (fields->>?)::numeric = ? ELSE FALSE END"

// combine joins fs with op, rendering empty when fs is empty.
func combine(fs []recordstore.Formula, op, empty string) (string, []any, error) {
	if len(fs) == 0 {
		return empty, nil, nil
	}

	var (
		parts = make([]string, 0, len(fs))
		args  []any
	)
	for _, f := range fs {
		clause, a, err := toSQL(f)
		if err != nil {
			return "", nil, err
		}

		parts = append(parts, "("+clause+")")
		args = append(args, a...)
	}

	return strings.Join(parts, " "+op+" "), args, nil
}
