/*
The middleware package defines what a middleware is in synkro and a set of basic middlewares.

The available middlewares are:
  - Authorize
  - CORS
  - ForceHTTPS
  - Idempotent
  - InjectCaller
  - InjectIPAddress
  - LogRequest
  - RateLimit
  - ReportPanic
  - RequestID
  - RequireCaller

Due to the amount of configuration required, middleware does not provide a default middleware chain.
Instead, the following can be copy-pasted:

	adpts := []middleware.Adapter{
		middleware.ReportPanic(env),
		middleware.ForceHTTPS(env),
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.LogRequest(log),
		middleware.InjectCaller(responder, verifier, env),
		middleware.RateLimit(limiter, middleware.CallerOrIP, log),
	}
*/
package middleware
