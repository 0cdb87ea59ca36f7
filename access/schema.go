package access

// Tables and fields in the record store.
const (
	TableUsers            = "Users"
	FieldUserID           = "user_id"
	FieldUserEmail        = "email"
	FieldUserIsSubAccount = "is_sub_account"
	FieldUserParentID     = "parent_account_id"

	TableGrants          = "SubAccounts"
	FieldGrantParentID   = "parent_account_id"
	FieldGrantSubject    = "sub_account_user_id"
	FieldGrantEmail      = "email"
	FieldGrantRole       = "role"
	FieldGrantStatus     = "status"
	FieldGrantInvitedAt  = "invited_at"
	FieldGrantAcceptedAt = "accepted_at"

	TableEvents          = "Events"
	FieldEventTitle      = "title"
	FieldEventOwnerEmail = "owner_email"
	FieldEventSharedWith = "shared_with"
	FieldEventCreatedAt  = "created_at"
)
