/*
The resp package provides a high-level API for responding to HTTP requests
with an easy way to configure the responses application-wide.

Every response is JSON. Successful responses look like this:

	{
		"caller": "U2",
		"data": {},
		"meta": {"requestId": "..."}
	}

Failed responses replace "data" with "error", holding a message safe to show the caller.
*/
package resp
