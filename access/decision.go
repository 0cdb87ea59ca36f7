package access

// A Reason explains why access was denied.
type Reason string

const (
	ReasonMissingParams    Reason = "missing parameters"
	ReasonResourceNotFound Reason = "resource not found"
	ReasonLookupError      Reason = "lookup error"
	ReasonCallerNotFound   Reason = "caller not found"
	ReasonGrantInactive    Reason = "grant not active"
	ReasonNotAuthorized    Reason = "access not authorized"
	ReasonActionDenied     Reason = "action not permitted"
)

func (r Reason) String() string { return string(r) }

// Rules a Decision can be reached by.
const (
	RuleOwner   = "owner"
	RuleParent  = "parent"
	RuleSharing = "sharing"
	RuleDenied  = "denied"
)

// A Decision is the outcome of evaluating a caller's access to an event.
// A Decision is never persisted.
type Decision struct {
	CanAccess  bool   `json:"canAccess"`
	Permission Role   `json:"permission,omitempty"`
	Reason     Reason `json:"reason,omitempty"`
	ViaParent  bool   `json:"viaParent"`
	ViaSharing bool   `json:"viaSharing"`

	// Err is the failure, if any, that led to a denial.
	Err error `json:"-"`
}

// Rule names the rule the Decision was reached by.
func (d Decision) Rule() string {
	switch {
	case !d.CanAccess:
		return RuleDenied
	case d.ViaParent:
		return RuleParent
	case d.ViaSharing:
		return RuleSharing
	default:
		return RuleOwner
	}
}

func deny(reason Reason, err error) Decision {
	return Decision{Reason: reason, Err: err}
}

// An ActionDecision is a Decision about performing a specific Action.
type ActionDecision struct {
	Decision
	Action     Action   `json:"action"`
	CanPerform bool     `json:"canPerform"`
	Actions    []Action `json:"actions"`
}

// An Observer is told about every Decision an Evaluator reaches.
type Observer interface {
	ObserveDecision(d Decision)
}
