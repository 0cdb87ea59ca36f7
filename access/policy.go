package access

import (
	"fmt"
	"strings"

	"github.com/xy-planning-network/synkro"
)

var _ synkro.Enumerable = RevokedGrantPolicy("")

// A RevokedGrantPolicy decides how to treat a caller flagged as a sub-account
// whose grant is not active.
type RevokedGrantPolicy string

const (
	// DenyAsUnknown resolves the caller to an Account with no role,
	// which the Evaluator denies outright.
	DenyAsUnknown RevokedGrantPolicy = "denyAsUnknown"

	// FallbackToOwner resolves the caller to a primary account with the owner role.
	// The caller keeps access to events they own themselves
	// and loses any access through their former parent or sharing.
	FallbackToOwner RevokedGrantPolicy = "fallbackToOwner"
)

// DefaultRevokedGrantPolicy is the RevokedGrantPolicy used when none is configured.
const DefaultRevokedGrantPolicy = DenyAsUnknown

func (p RevokedGrantPolicy) String() string { return string(p) }

func (p RevokedGrantPolicy) Valid() error {
	switch p {
	case DenyAsUnknown, FallbackToOwner:
		return nil
	default:
		return fmt.Errorf("%w: revoked grant policy %q", synkro.ErrNotValid, string(p))
	}
}

// ParseRevokedGrantPolicy reads a RevokedGrantPolicy from text, ignoring case.
// Empty text returns DefaultRevokedGrantPolicy.
func ParseRevokedGrantPolicy(s string) (RevokedGrantPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultRevokedGrantPolicy, nil
	case strings.ToLower(string(DenyAsUnknown)):
		return DenyAsUnknown, nil
	case strings.ToLower(string(FallbackToOwner)):
		return FallbackToOwner, nil
	default:
		return "", fmt.Errorf("%w: revoked grant policy %q", synkro.ErrBadConfig, s)
	}
}
