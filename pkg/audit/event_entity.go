package audit

import "fmt"

// EntityEvent represents a create, update or delete of a stored entity.
type EntityEvent struct {
	Subject      string // verified caller, empty for anonymous edits
	Kind         string
	EntityID     int64
	Operation    string // "create", "replace", "patch", "delete"
	Success      bool
	ErrorMessage string
}

func (e EntityEvent) MessageID() string {
	return e.Operation
}

func (e EntityEvent) Message() string {
	actor := e.Subject
	if actor == "" {
		actor = "anonymous"
	}
	target := fmt.Sprintf("%s %d", e.Kind, e.EntityID)
	if e.EntityID == 0 {
		target = e.Kind
	}
	if e.Success {
		return fmt.Sprintf("%s performed %s on %s", actor, e.Operation, target)
	}
	msg := fmt.Sprintf("%s failed to %s %s", actor, e.Operation, target)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e EntityEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e EntityEvent) Facility() int {
	return FacilityAuth
}

func (e EntityEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	sd := map[string]map[string]string{
		SDIDSubject: {
			"kind": e.Kind,
			"id":   fmt.Sprintf("%d", e.EntityID),
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result,
		},
	}
	if e.Subject != "" {
		sd[SDIDAuth] = map[string]string{"user": e.Subject}
	}
	return sd
}
