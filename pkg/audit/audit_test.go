package audit

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	logger.Log(EntityEvent{
		Subject:   "alice-subject",
		Kind:      "Trail",
		EntityID:  42,
		Operation: "delete",
		Success:   true,
	})

	line := buf.String()

	// PRI = FacilityAuth*8 + SeverityInfo = 38
	if !strings.HasPrefix(line, "<38>1 ") {
		t.Errorf("expected RFC5424 header with PRI 38, got %q", line)
	}
	for _, want := range []string{
		"trailhub",
		"delete",
		`[` + SDIDAuth + ` user="alice-subject"]`,
		"alice-subject performed delete on Trail 42",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("log line missing %q: %q", want, line)
		}
	}
}

func TestEntityEventMessages(t *testing.T) {
	testCases := []struct {
		name  string
		event EntityEvent
		want  string
	}{
		{
			name:  "success",
			event: EntityEvent{Subject: "alice", Kind: "Trail", EntityID: 7, Operation: "patch", Success: true},
			want:  "alice performed patch on Trail 7",
		},
		{
			name:  "failure with reason",
			event: EntityEvent{Subject: "bob", Kind: "Trail", EntityID: 7, Operation: "delete", ErrorMessage: "forbidden"},
			want:  "bob failed to delete Trail 7: forbidden",
		},
		{
			name:  "anonymous create",
			event: EntityEvent{Kind: "Trailhead", Operation: "create", Success: true},
			want:  "anonymous performed create on Trailhead",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.event.Message(); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEventSeverity(t *testing.T) {
	ok := LinkEvent{Subject: "alice", TrailID: 1, TrailheadID: 2, Operation: "assign", Success: true}
	if ok.Severity() != SeverityInfo {
		t.Error("successful events should be info")
	}

	failed := SignInEvent{ErrorMessage: "state mismatch"}
	if failed.Severity() != SeverityWarning {
		t.Error("failed events should be warnings")
	}
}

func TestStructuredDataEscaping(t *testing.T) {
	escaped := escapeSDValue(`va"lue]\`)
	if escaped != `"va\"lue\]\\"` {
		t.Errorf("unexpected escaping: %s", escaped)
	}
}
