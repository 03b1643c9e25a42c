package shared

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"orbithr/internal/transport/http/api"
)

// dayLayouts are the formats accepted for date fields, tried in order.
var dayLayouts = []string{time.RFC3339, "2006-01-02"}

type ValidationIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Validator accumulates field issues across a payload so the response can
// report all of them at once instead of failing on the first.
type Validator struct {
	byField map[string][]string
}

func NewValidator() *Validator {
	return &Validator{byField: map[string][]string{}}
}

func (v *Validator) Add(field, reason string) {
	if v == nil {
		return
	}
	field = strings.TrimSpace(field)
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return
	}
	v.byField[field] = append(v.byField[field], reason)
}

func (v *Validator) Required(field, value, reason string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, reason)
	}
}

func (v *Validator) Enum(field, value string, allowed ...string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	for _, candidate := range allowed {
		if value == candidate {
			return
		}
	}
	v.Add(field, "must be one of "+strings.Join(allowed, ", "))
}

// Date parses a calendar-date field, accepting RFC3339 or YYYY-MM-DD.
func (v *Validator) Date(field, raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dayLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil && !parsed.IsZero() {
			return parsed, true
		}
	}
	v.Add(field, "must be a valid date in YYYY-MM-DD format")
	return time.Time{}, false
}

// Timestamp parses an event-time field. Empty means "now": attendance events
// recorded without a timestamp use the server clock.
func (v *Validator) Timestamp(field, raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now().UTC()
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		v.Add(field, "must be an ISO 8601 timestamp")
		return time.Time{}
	}
	return parsed.UTC()
}

func (v *Validator) DateOrder(startField string, start time.Time, endField string, end time.Time) {
	if start.IsZero() || end.IsZero() {
		return
	}
	if end.Before(start) {
		v.Add(startField, "must be on or before "+endField)
		v.Add(endField, "must be on or after "+startField)
	}
}

func (v *Validator) HasIssues() bool {
	return v != nil && len(v.byField) > 0
}

func (v *Validator) Issues() []ValidationIssue {
	if !v.HasIssues() {
		return nil
	}
	out := make([]ValidationIssue, 0, len(v.byField))
	for field, reasons := range v.byField {
		for _, reason := range reasons {
			out = append(out, ValidationIssue{Field: field, Reason: reason})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Field == out[j].Field {
			return out[i].Reason < out[j].Reason
		}
		return out[i].Field < out[j].Field
	})
	return out
}

// Reject writes the 400 envelope when issues were recorded and reports
// whether the handler should stop.
func (v *Validator) Reject(w http.ResponseWriter, requestID string) bool {
	if !v.HasIssues() {
		return false
	}
	api.FailWithDetails(
		w,
		http.StatusBadRequest,
		api.CodeValidation,
		"payload validation failed",
		map[string]any{"fields": v.Issues()},
		requestID,
	)
	return true
}
