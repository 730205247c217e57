// Package auditlog turns qualifying mutations on the generic CRUD gateway
// into audit events.
//
// The [Classifier] is a pure function over an observed
// {method, path, status, body} tuple. It never touches the response the
// caller sees and never fails the underlying mutation: a request that does
// not qualify is silently skipped, and delivering a produced event is the
// dispatcher's problem, not the classifier's.
//
// Gateway paths encode "{model}/{operation}". Only an 18-model allow-list
// is ever audited, entity names come from a per-model field projection
// table validated at construction, and the apiToken model overrides the
// generic create/delete actions with API key specific ones.
package auditlog
