// Package authgate is the authorization and audit-interception layer of a
// test-management backend.
//
// It bundles five concerns behind one [Engine], built with [New]:
//
//   - project access resolution over independent OR'd grant paths
//     (package access)
//   - fine-grained per-area capability resolution with a 5-minute TTL
//     cache (package areaperm)
//   - a pure classifier that mirrors qualifying CRUD gateway mutations
//     into audit events (package auditlog), delivered fire-and-forget
//     through a buffered background dispatcher
//   - ephemeral security primitives for SSO and protected share links
//     (package securetoken)
//   - fixed-window rate limiting for brute-forceable secrets
//     (package ratelimit)
//
// The CRUD gateway itself, the ORM, and the UI are external collaborators;
// this module only watches their traffic and answers their policy
// questions.
package authgate
