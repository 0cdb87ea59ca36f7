/*
Package auth verifies who is calling.

Callers present a JWT signed with HS256 by the identity provider
sharing JWT_SECRET with this service.
The token's subject claim is the caller's ID,
the same ID found in the user_id field of the Users table.

Tokens arrive in the Authorization header as a bearer token
or, for links that cannot set headers, in the jwt query parameter.
*/
package auth
