// Package middleware adapts the authgate engine to net/http request
// flows: auditing the generic CRUD gateway and guarding project-scoped
// routes.
//
// The audit middleware observes traffic without touching it: the
// response the client sees is byte-identical with or without auditing.
// The guard answers 404 on denial, never 403, so a denied caller cannot
// learn that the project exists.
package middleware
