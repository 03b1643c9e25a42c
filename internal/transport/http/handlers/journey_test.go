package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"orbithr/internal/app/server"
	"orbithr/internal/platform/config"
	"orbithr/internal/platform/db"
)

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     any             `json:"error"`
	RequestID string          `json:"requestId"`
}

func testConfig(dbURL string) config.Config {
	return config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		DataEncryptionKey:  "0123456789abcdef0123456789abcdef",
		Environment:        "test",
		AllowedOrigins:     []string{"*"},
		SeedTenantName:     "Test Tenant",
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		EmailFrom:          "no-reply@test.local",
		MigrationsDir:      "../../../../migrations",
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
	}
}

func startApp(t *testing.T) (*server.App, *httptest.Server) {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	cfg := testConfig(dbURL)

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}
	if err := db.Seed(ctx, pool, cfg); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	app := server.New(cfg, pool)
	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return app, ts
}

func TestAttendanceLeavePayrollJourney(t *testing.T) {
	app, ts := startApp(t)
	client := ts.Client()

	adminToken := login(t, client, ts.URL, app.Config.SeedAdminEmail, app.Config.SeedAdminPassword)

	employeeEmail := fmt.Sprintf("journey-%d@example.com", time.Now().UnixNano())
	employeePassword := "Employee123!"
	employeeID := onboardEmployee(t, client, ts.URL, adminToken, employeeEmail, employeePassword)

	createOffer(t, client, ts.URL, adminToken, employeeID)

	policyID := createLeavePolicy(t, client, ts.URL, adminToken, fmt.Sprintf("Journey Leave %d", time.Now().UnixNano()))

	employeeToken := login(t, client, ts.URL, employeeEmail, employeePassword)

	checkIn(t, client, ts.URL, employeeToken)
	checkOut(t, client, ts.URL, employeeToken)

	now := time.Now().UTC()
	day := now.AddDate(0, 0, 7).Format("2006-01-02")
	requestID := createLeaveRequest(t, client, ts.URL, employeeToken, policyID, day, day)

	status := decideLeaveRequest(t, client, ts.URL, adminToken, requestID, "approve")
	if status != "APPROVED" {
		t.Fatalf("expected leave status APPROVED, got %s", status)
	}

	overview := getJSON(t, client, ts.URL+"/api/v1/leave", employeeToken)
	var overviewPayload struct {
		Balances []map[string]any `json:"balances"`
	}
	if err := json.Unmarshal(overview.Data, &overviewPayload); err != nil {
		t.Fatalf("failed to decode leave overview: %v", err)
	}
	if len(overviewPayload.Balances) == 0 {
		t.Fatal("expected leave balances after approval")
	}

	previewURL := fmt.Sprintf("%s/api/v1/payroll/preview?month=%d&year=%d", ts.URL, int(now.Month()), now.Year())
	preview := getJSON(t, client, previewURL, adminToken)
	var previewPayload struct {
		Rows []map[string]any `json:"rows"`
	}
	if err := json.Unmarshal(preview.Data, &previewPayload); err != nil {
		t.Fatalf("failed to decode payroll preview: %v", err)
	}
	if len(previewPayload.Rows) == 0 {
		t.Fatal("expected payroll preview rows for the offered employee")
	}

	runStatus := commitPayroll(t, client, ts.URL, adminToken, int(now.Month()), now.Year())
	if runStatus != "COMMITTED" {
		t.Fatalf("expected payroll run status COMMITTED, got %s", runStatus)
	}

	postJSONStatus(t, client, ts.URL+"/api/v1/payroll/runs", adminToken, map[string]any{
		"month": int(now.Month()),
		"year":  now.Year(),
	}, http.StatusConflict)
}

func TestEmployeeCannotApproveLeave(t *testing.T) {
	app, ts := startApp(t)
	client := ts.Client()

	adminToken := login(t, client, ts.URL, app.Config.SeedAdminEmail, app.Config.SeedAdminPassword)

	employeeEmail := fmt.Sprintf("solo-%d@example.com", time.Now().UnixNano())
	employeePassword := "Employee123!"
	onboardEmployee(t, client, ts.URL, adminToken, employeeEmail, employeePassword)

	employeeToken := login(t, client, ts.URL, employeeEmail, employeePassword)
	postJSONStatus(t, client, ts.URL+"/api/v1/leave/requests/00000000-0000-0000-0000-000000000000/approve",
		employeeToken, map[string]any{}, http.StatusForbidden)
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	app, ts := startApp(t)
	client := ts.Client()

	adminToken := login(t, client, ts.URL, app.Config.SeedAdminEmail, app.Config.SeedAdminPassword)

	employeeEmail := fmt.Sprintf("noin-%d@example.com", time.Now().UnixNano())
	employeePassword := "Employee123!"
	onboardEmployee(t, client, ts.URL, adminToken, employeeEmail, employeePassword)

	employeeToken := login(t, client, ts.URL, employeeEmail, employeePassword)
	postJSONStatus(t, client, ts.URL+"/api/v1/attendance/check-out", employeeToken, map[string]any{}, http.StatusNotFound)
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if payload.Token == "" {
		t.Fatal("expected token")
	}
	return payload.Token
}

func onboardEmployee(t *testing.T, client *http.Client, baseURL, token, email, password string) string {
	t.Helper()
	startDate := time.Now().UTC().AddDate(-1, 0, 0).Format(time.RFC3339)
	resp := postJSON(t, client, baseURL+"/api/v1/employees/onboard", token, map[string]any{
		"employee": map[string]any{
			"firstName":   "Journey",
			"lastName":    "Tester",
			"email":       email,
			"designation": "Engineer",
			"startDate":   startDate,
		},
		"password": password,
		"role":     "employee",
	})
	var payload struct {
		EmployeeID string `json:"employeeId"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode onboard response: %v", err)
	}
	if payload.EmployeeID == "" {
		t.Fatal("expected employee id")
	}
	return payload.EmployeeID
}

func createOffer(t *testing.T, client *http.Client, baseURL, token, employeeID string) {
	t.Helper()
	postJSON(t, client, baseURL+"/api/v1/employees/"+employeeID+"/offer", token, map[string]any{
		"basicPay":         30000,
		"hra":              12000,
		"da":               3000,
		"specialAllowance": 5000,
		"pfDeduction":      1800,
		"tax":              2500,
	})
}

func createLeavePolicy(t *testing.T, client *http.Client, baseURL, token, name string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/leave/policies", token, map[string]any{
		"name":        name,
		"defaultDays": 12,
	})
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode policy response: %v", err)
	}
	if payload.ID == "" {
		t.Fatal("expected policy id")
	}
	return payload.ID
}

func workDay() (string, string) {
	day := time.Now().UTC()
	in := time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, time.UTC)
	return in.Format(time.RFC3339), in.Add(9 * time.Hour).Format(time.RFC3339)
}

func checkIn(t *testing.T, client *http.Client, baseURL, token string) {
	t.Helper()
	in, _ := workDay()
	postJSON(t, client, baseURL+"/api/v1/attendance/check-in", token, map[string]any{
		"checkInTime": in,
	})
}

func checkOut(t *testing.T, client *http.Client, baseURL, token string) {
	t.Helper()
	_, out := workDay()
	postJSON(t, client, baseURL+"/api/v1/attendance/check-out", token, map[string]any{
		"checkOutTime": out,
	})
}

func createLeaveRequest(t *testing.T, client *http.Client, baseURL, token, policyID, start, end string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/leave/requests", token, map[string]any{
		"policyId":  policyID,
		"startDate": start,
		"endDate":   end,
		"daysLwp":   0,
		"reason":    "Rest",
	})
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode leave request response: %v", err)
	}
	if payload.ID == "" {
		t.Fatal("expected leave request id")
	}
	return payload.ID
}

func decideLeaveRequest(t *testing.T, client *http.Client, baseURL, token, requestID, verb string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/leave/requests/"+requestID+"/"+verb, token, map[string]any{})
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode leave decision response: %v", err)
	}
	return payload.Status
}

func commitPayroll(t *testing.T, client *http.Client, baseURL, token string, month, year int) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/payroll/runs", token, map[string]any{
		"month": month,
		"year":  year,
	})
	var payload struct {
		Run struct {
			Status string `json:"status"`
		} `json:"run"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode payroll commit response: %v", err)
	}
	return payload.Run.Status
}

func postJSON(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	env, status, raw := doRequest(t, client, http.MethodPost, url, token, body)
	if status >= 400 {
		t.Fatalf("unexpected status %d: %s", status, raw)
	}
	return env
}

func postJSONStatus(t *testing.T, client *http.Client, url, token string, body any, want int) envelope {
	t.Helper()
	env, status, raw := doRequest(t, client, http.MethodPost, url, token, body)
	if status != want {
		t.Fatalf("expected status %d, got %d: %s", want, status, raw)
	}
	return env
}

func getJSON(t *testing.T, client *http.Client, url, token string) envelope {
	t.Helper()
	env, status, raw := doRequest(t, client, http.MethodGet, url, token, nil)
	if status >= 400 {
		t.Fatalf("unexpected status %d: %s", status, raw)
	}
	return env
}

func doRequest(t *testing.T, client *http.Client, method, url, token string, body any) (envelope, int, string) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env, resp.StatusCode, string(raw)
}
