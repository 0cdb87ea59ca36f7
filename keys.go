package synkro

import (
	"context"
	"sort"
)

type Key string

const (
	// CallerIDKey stashes the identity of the caller making an HTTP request.
	CallerIDKey Key = "CallerIDKey"

	// DecisionKey stashes the access decision reached for an HTTP request.
	DecisionKey Key = "DecisionKey"

	// IpAddrKey stashes the IP address of an HTTP request being handled by synkro.
	IpAddrKey Key = "IpAddrKey"

	// RequestIDKey stashes a unique UUID for each HTTP request.
	RequestIDKey Key = "RequestIDKey"
)

// String formats the stringified key with additional contextual information
func (k Key) String() string {
	return "synkro context key: " + string(k)
}

// ByKey is a sortable set of Key.
type ByKey []Key

func (k ByKey) Len() int           { return len(k) }
func (k ByKey) Less(i, j int) bool { return k[i] < k[j] }
func (k ByKey) Swap(i, j int)      { k[i], k[j] = k[j], k[i] }

// UniqueSort sorts the set of Key and drops duplicates and zero values.
func (k ByKey) UniqueSort() ByKey {
	uniq := make(map[Key]struct{})
	for _, key := range k {
		if key == "" {
			continue
		}

		uniq[key] = struct{}{}
	}

	out := make(ByKey, 0, len(uniq))
	for key := range uniq {
		out = append(out, key)
	}

	sort.Sort(out)
	return out
}

// NewCallerContext stashes callerID in ctx.
func NewCallerContext(ctx context.Context, callerID string) context.Context {
	return context.WithValue(ctx, CallerIDKey, callerID)
}

// CallerFromContext retrieves the caller ID stashed in ctx.
// An empty string and false return when none is set.
func CallerFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(CallerIDKey).(string)
	if !ok || id == "" {
		return "", false
	}

	return id, true
}

// RequestIDFromContext retrieves the request ID stashed in ctx, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
