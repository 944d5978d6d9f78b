// Package audit provides audit logging for trailhub operations.
//
// This package implements structured audit logging for security-relevant
// operations: entity mutations, relationship changes and browser sign-ins.
// Events are written in RFC5424 syslog format so they can be shipped to
// standard log collectors.
//
// # Usage
//
//	audit.Log(audit.EntityEvent{
//		Subject:   claim.Subject,
//		Kind:      "Trail",
//		EntityID:  id,
//		Operation: "delete",
//		Success:   true,
//	})
//
// Logging defaults to stdout and is controlled by TRAILHUB_AUDIT_ENABLED.
package audit
