/*
Package api serves synkro over HTTP.

Every route under /api needs a caller, put in the request context by middleware.InjectCaller.
/api/access is the decision surface other services call to ask whether a caller can access an event:

	GET /api/access?resourceId=recE1&action=edit

It responds with 401 if the request has no caller, 400 if it names no resource or an unknown action,
403 with the decision, whose reason explains the denial, and otherwise 200 with the decision.

The remaining routes let callers see their account and their events, share events and manage their team.
*/
package api
