// Package securetoken generates and validates the ephemeral cryptographic
// artifacts used by the SSO and protected-share-link flows: opaque state
// nonces, CSRF tokens, short-lived signed assertions, redirect targets, and
// SAML validity windows.
//
// All verification paths resolve to explicit boolean or error results. A
// malformed, expired, or tampered input is an invalid token, never a panic.
//
// # What this package must NOT do
//
//   - Persist anything. Replay protection and storage belong to callers.
//   - Speak any auth protocol's wire format; it only hardens the edges.
package securetoken
