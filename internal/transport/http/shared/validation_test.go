package shared

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestTimestampExplicit(t *testing.T) {
	v := NewValidator()
	at := v.Timestamp("checkInTime", "2025-03-10T09:30:00+05:30")
	if v.HasIssues() {
		t.Fatalf("unexpected issues: %+v", v.Issues())
	}
	want := time.Date(2025, 3, 10, 4, 0, 0, 0, time.UTC)
	if !at.Equal(want) {
		t.Fatalf("at = %v, want %v", at, want)
	}
}

func TestTimestampDefaultsToNow(t *testing.T) {
	v := NewValidator()
	before := time.Now().UTC()
	at := v.Timestamp("checkInTime", "")
	if v.HasIssues() {
		t.Fatalf("unexpected issues: %+v", v.Issues())
	}
	if at.Before(before) || at.After(time.Now().UTC()) {
		t.Fatalf("defaulted time %v out of range", at)
	}
}

func TestTimestampRejectsBadValues(t *testing.T) {
	for _, raw := range []string{"2025-03-10", "yesterday", "10:00"} {
		v := NewValidator()
		v.Timestamp("checkInTime", raw)
		if !v.HasIssues() {
			t.Fatalf("expected issue for %q", raw)
		}
	}
}

func TestDateAcceptsBothLayouts(t *testing.T) {
	v := NewValidator()
	if _, ok := v.Date("from", "2025-03-10"); !ok {
		t.Fatal("date-only form rejected")
	}
	if _, ok := v.Date("from", "2025-03-10T00:00:00Z"); !ok {
		t.Fatal("RFC3339 form rejected")
	}
	if _, ok := v.Date("from", "10/03/2025"); ok {
		t.Fatal("slash form accepted")
	}
}

func TestIssuesSortedByFieldThenReason(t *testing.T) {
	v := NewValidator()
	v.Add("b", "second")
	v.Add("a", "z-reason")
	v.Add("a", "a-reason")
	issues := v.Issues()
	if len(issues) != 3 {
		t.Fatalf("issues = %d", len(issues))
	}
	if issues[0].Field != "a" || issues[0].Reason != "a-reason" {
		t.Fatalf("first issue = %+v", issues[0])
	}
	if issues[2].Field != "b" {
		t.Fatalf("last issue = %+v", issues[2])
	}
}

func TestRejectWritesNothingWithoutIssues(t *testing.T) {
	v := NewValidator()
	w := httptest.NewRecorder()
	if v.Reject(w, "req-1") {
		t.Fatal("clean validator must not reject")
	}
	if w.Body.Len() != 0 {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}
