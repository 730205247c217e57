// Package areaperm resolves fine-grained {add/edit, delete, close}
// capabilities per functional area of a project.
//
// Resolution defers to an external policy store keyed by
// (subject, project, area) and caches results for five minutes. The cache
// is TTL-only: a changed grant can stay stale for up to one TTL. Subjects
// without an identity or a usable project id resolve to all-false
// synchronously, with no round trip, so callers can disable controls
// before any lookup completes.
//
// Callers see three states that are never conflated: loading (async lookup
// still in flight), error (the store failed after one retry), and resolved
// (possibly all-false).
package areaperm
