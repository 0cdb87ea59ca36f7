/*
Package access decides who a caller is and what they may do with an event.

# Resolving accounts

A [Resolver] turns a caller's external identity into an [Account].
A caller is either a primary account, owning its own events,
or a sub-account acting for a parent account under a constrained [Role].
A sub-account is only recognized while its [Grant] is active;
what happens otherwise is governed by a [RevokedGrantPolicy].

# Evaluating access

An [Evaluator] decides whether a caller can access an event.
The rules apply in order and the first to match wins:
  - the caller's email matches the event's owner email: the caller is the owner
  - the caller is a sub-account whose parent owns the event: the caller's role applies
  - the event is explicitly shared with the caller: the shared permission applies
  - otherwise: access is denied

Every failure reading the record store degrades to a denial.
A [Decision] always returns; its Err field carries the failure for logging.

[CanPerformAction] layers the static permission matrix on top:

	role    view  edit  delete  share  manage_team
	owner   yes   yes   yes     yes    yes
	admin   yes   yes   yes     yes    no
	editor  yes   yes   no      no     no
	viewer  yes   no    no      no     no
*/
package access
