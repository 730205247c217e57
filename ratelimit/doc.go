// Package ratelimit enforces fixed-window attempt budgets for
// brute-forceable secrets: password-protected share links, verification
// codes, SSO callback retries.
//
// Identifiers are opaque strings; callers compose them, typically
// "{secretId}:{clientIP}". Counters live behind the [Store] interface so a
// single-instance deployment can run on the in-process map store while a
// horizontally scaled one swaps in the Redis store without touching call
// sites.
//
// # Window semantics
//
// Fixed windows, never sliding: the first attempt opens a window, further
// attempts increment inside it, and a lapsed window is indistinguishable
// from no window at all. Attempts 1..max are allowed; attempt max+1 is
// denied until the window resets or [Limiter.Clear] runs on success.
package ratelimit
