/*
Package ratelimit bounds how many requests a subject can make in a window.

A Limiter is injected wherever requests need bounding.
Each implementation is configured with a Config and holds no package state:

  - FixedWindow counts requests in memory, per process
  - Redis counts the same fixed windows in Redis, shared across processes
  - TokenBucket refills each subject's allowance continuously

Subjects are opaque: the HTTP middleware keys them by caller and endpoint.
*/
package ratelimit
