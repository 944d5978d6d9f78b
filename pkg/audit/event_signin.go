package audit

import "fmt"

// SignInEvent represents a completed or failed browser sign-in.
type SignInEvent struct {
	Subject      string // empty when token verification failed
	Success      bool
	ErrorMessage string
}

func (e SignInEvent) MessageID() string {
	return "signin"
}

func (e SignInEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s signed in", e.Subject)
	}
	msg := "sign-in failed"
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e SignInEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e SignInEvent) Facility() int {
	return FacilityAuthPriv
}

func (e SignInEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	sd := map[string]map[string]string{
		SDIDAction: {
			"operation": "signin",
			"result":    result,
		},
	}
	if e.Subject != "" {
		sd[SDIDAuth] = map[string]string{"user": e.Subject}
	}
	return sd
}
