package synkro

import "net/url"

const (
	LogKindKey = "kind"
	LogMaskVal = "xxxxxx"

	AppLogKind  = "app"
	HTTPLogKind = "http"
)

// MaskedParams are the request parameters whose values never reach a log.
var MaskedParams = []string{"jwt", "password", "token"}

// Mask replaces every value of key in vals with a single LogMaskVal.
func Mask(vals url.Values, key string) {
	if _, ok := vals[key]; !ok {
		return
	}

	vals.Set(key, LogMaskVal)
}
