// Package access computes whether a subject may act on a project.
//
// The resolver is a pure function over data the caller has already loaded:
// the subject, the project, and the grant rows that mention both. It builds
// the OR of four independent grant paths and reports each path's outcome
// separately so callers (and tests) can see exactly which clause granted.
//
// # Grant paths
//
//   - direct:  a UserProjectPermission row with access != NO_ACCESS
//   - group:   membership in a group whose GroupProjectPermission has
//     access != NO_ACCESS
//   - default: the project's DefaultAccess is GLOBAL_ROLE
//   - projectAdmin: the subject holds the PROJECTADMIN role and is directly
//     assigned to the project (any access value)
//
// ADMIN subjects short-circuit to an unconditional allow with zero paths.
//
// # What this package must NOT do
//
//   - Perform I/O. Loading grant rows is the caller's job.
//   - Hide which path granted; the per-path results are part of the API.
package access
