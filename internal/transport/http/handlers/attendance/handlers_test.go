package attendancehandler

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDecodeCheckPayload(t *testing.T) {
	r := httptest.NewRequest("POST", "/attendance/check-in",
		strings.NewReader(`{"employeeId":"e1","checkInTime":"2025-03-10T09:00:00Z"}`))
	payload, err := decodeCheckPayload(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.EmployeeID != "e1" || payload.CheckInTime != "2025-03-10T09:00:00Z" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestDecodeCheckPayloadEmptyBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/attendance/check-in", strings.NewReader(""))
	payload, err := decodeCheckPayload(r)
	if err != nil {
		t.Fatalf("empty body must not fail: %v", err)
	}
	if payload.EmployeeID != "" || payload.CheckInTime != "" {
		t.Fatalf("expected zero payload, got %+v", payload)
	}
}

func TestDecodeCheckPayloadMalformed(t *testing.T) {
	r := httptest.NewRequest("POST", "/attendance/check-in", strings.NewReader("{"))
	if _, err := decodeCheckPayload(r); err == nil {
		t.Fatal("expected error for malformed body")
	}
}
