package audit

import "fmt"

// LinkEvent represents an assignment or removal of a Trail to Trailhead edge.
type LinkEvent struct {
	Subject      string
	TrailID      int64
	TrailheadID  int64
	Operation    string // "assign", "remove"
	Success      bool
	ErrorMessage string
}

func (e LinkEvent) MessageID() string {
	return "link-" + e.Operation
}

func (e LinkEvent) Message() string {
	edge := fmt.Sprintf("trail %d and trailhead %d", e.TrailID, e.TrailheadID)
	if e.Success {
		if e.Operation == "remove" {
			return fmt.Sprintf("%s unlinked %s", e.Subject, edge)
		}
		return fmt.Sprintf("%s linked %s", e.Subject, edge)
	}
	msg := fmt.Sprintf("%s failed to %s link between %s", e.Subject, e.Operation, edge)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e LinkEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e LinkEvent) Facility() int {
	return FacilityAuth
}

func (e LinkEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	sd := map[string]map[string]string{
		SDIDSubject: {
			"trail":     fmt.Sprintf("%d", e.TrailID),
			"trailhead": fmt.Sprintf("%d", e.TrailheadID),
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
