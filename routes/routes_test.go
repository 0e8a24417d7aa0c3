package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"ems/condb/condbtest"
	"ems/config"
	"ems/controllers"
	"ems/metrics"
	"ems/models"
	"ems/services"
	"ems/store"
)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

type testAPI struct {
	app *fiber.App
	svc *services.Services
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	cfg := config.Default()
	cfg.Database = config.DatabaseConfig{Driver: "sqlite", URL: "unused"}
	cfg.Auth.JWTSecret = "test-secret-0123456789"
	require.NoError(t, cfg.Validate())

	loc := cfg.Attendance.Location()
	clock := fixedClock(time.Date(2026, time.October, 5, 8, 5, 0, 0, loc))

	log := zaptest.NewLogger(t)
	st := store.New(condbtest.New(t)).WithClock(clock.Now)
	m := metrics.New()
	svc, err := services.New(st, cfg, clock, m, log)
	require.NoError(t, err)

	app := NewApp(cfg.HTTP, controllers.New(svc, log), svc.Auth.Issuer(), m, log)
	return &testAPI{app: app, svc: svc}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = strings.NewReader(string(b))
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (a *testAPI) user(t *testing.T, email string, role models.Role, employeeID *string) string {
	t.Helper()
	_, err := a.svc.Auth.CreateUser(context.Background(), models.CreateUserReq{
		Email:      email,
		Password:   "Passw0rd!",
		Role:       role,
		EmployeeID: employeeID,
	})
	require.NoError(t, err)

	status, body := a.do(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email":    email,
		"password": "Passw0rd!",
	})
	require.Equal(t, http.StatusOK, status, body)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestLoginFailsWithWrongPassword(t *testing.T) {
	api := newTestAPI(t)
	api.user(t, "admin@example.com", models.RoleAdmin, nil)

	status, body := api.do(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email":    "admin@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NotEmpty(t, body["error"])
}

func TestLoginSetsCookie(t *testing.T) {
	api := newTestAPI(t)
	_, err := api.svc.Auth.CreateUser(context.Background(), models.CreateUserReq{
		Email: "admin@example.com", Password: "Passw0rd!", Role: models.RoleAdmin,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"admin@example.com","password":"Passw0rd!"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var jwtCookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == "jwt" {
			jwtCookie = ck
		}
	}
	require.NotNil(t, jwtCookie)
	assert.True(t, jwtCookie.HttpOnly)

	// the cookie alone authenticates
	me := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	me.AddCookie(&http.Cookie{Name: "jwt", Value: jwtCookie.Value})
	resp, err = api.app.Test(me, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthorization(t *testing.T) {
	api := newTestAPI(t)
	admin := api.user(t, "admin@example.com", models.RoleAdmin, nil)
	hr := api.user(t, "hr@example.com", models.RoleHR, nil)
	employee := api.user(t, "staff@example.com", models.RoleEmployee, nil)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no token", http.MethodGet, "/api/v1/employees", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/v1/employees", "not-a-jwt", http.StatusUnauthorized},
		{"employee on staff route", http.MethodGet, "/api/v1/employees", employee, http.StatusForbidden},
		{"hr on staff route", http.MethodGet, "/api/v1/employees", hr, http.StatusOK},
		{"hr on admin route", http.MethodGet, "/api/v1/users", hr, http.StatusForbidden},
		{"admin on admin route", http.MethodGet, "/api/v1/users", admin, http.StatusOK},
		{"employee reads announcements", http.MethodGet, "/api/v1/announcements", employee, http.StatusOK},
		{"employee on dashboard", http.MethodGet, "/api/v1/dashboard", employee, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := api.do(t, tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestEmployeeEndpoints(t *testing.T) {
	api := newTestAPI(t)
	admin := api.user(t, "admin@example.com", models.RoleAdmin, nil)

	status, created := api.do(t, http.MethodPost, "/api/v1/employees", admin, fiber.Map{
		"first_name":  "Maria",
		"last_name":   "Santos",
		"email":       "maria@example.com",
		"position":    "Clerk",
		"base_salary": 2500000,
	})
	require.Equal(t, http.StatusCreated, status, created)
	assert.Equal(t, "EMP001", created["employee_no"])
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	status, got := api.do(t, http.MethodGet, "/api/v1/employees/"+id, admin, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "maria@example.com", got["email"])

	status, body := api.do(t, http.MethodGet, "/api/v1/employees/missing", admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not found", body["error"])

	status, _ = api.do(t, http.MethodPost, "/api/v1/employees", admin, fiber.Map{
		"first_name": "Other",
		"last_name":  "Person",
		"email":      "maria@example.com",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, body = api.do(t, http.MethodPost, "/api/v1/employees", admin, fiber.Map{
		"first_name": "No",
		"email":      "no-last-name@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "last_name")

	status, _ = api.do(t, http.MethodDelete, "/api/v1/employees/"+id, admin, nil)
	assert.Equal(t, http.StatusOK, status)
	_, got = api.do(t, http.MethodGet, "/api/v1/employees/"+id, admin, nil)
	assert.Equal(t, string(models.EmployeeTerminated), got["status"])
}

func TestEmployeeSeesOnlyOwnRecord(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()
	me, err := api.svc.Employees.Create(ctx, models.EmployeeReq{FirstName: "Ana", LastName: "Cruz", Email: "ana@example.com"})
	require.NoError(t, err)
	other, err := api.svc.Employees.Create(ctx, models.EmployeeReq{FirstName: "Ben", LastName: "Reyes", Email: "ben@example.com"})
	require.NoError(t, err)
	token := api.user(t, "ana.login@example.com", models.RoleEmployee, &me.ID)

	status, _ := api.do(t, http.MethodGet, "/api/v1/employees/"+me.ID, token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = api.do(t, http.MethodGet, "/api/v1/employees/"+other.ID, token, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestClockFlow(t *testing.T) {
	api := newTestAPI(t)
	emp, err := api.svc.Employees.Create(context.Background(), models.EmployeeReq{
		FirstName: "Ana", LastName: "Cruz", Email: "ana@example.com",
	})
	require.NoError(t, err)
	token := api.user(t, "ana.login@example.com", models.RoleEmployee, &emp.ID)

	status, body := api.do(t, http.MethodPost, "/api/v1/attendance/clock", token, fiber.Map{"action": "in"})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, string(models.SessionMorning), body["session"])
	assert.EqualValues(t, 0, body["late_by_minutes"])

	status, _ = api.do(t, http.MethodPost, "/api/v1/attendance/clock", token, fiber.Map{"action": "in"})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = api.do(t, http.MethodPost, "/api/v1/attendance/clock", token, fiber.Map{"action": "out"})
	assert.Equal(t, http.StatusOK, status)

	status, _ = api.do(t, http.MethodPost, "/api/v1/attendance/clock", token, fiber.Map{"action": "out"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = api.do(t, http.MethodPost, "/api/v1/attendance/clock", token, fiber.Map{"action": "nap"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = api.do(t, http.MethodGet, "/api/v1/attendance/today", token, nil)
	require.Equal(t, http.StatusOK, status)
	row, ok := body["attendance"].(map[string]interface{})
	require.True(t, ok, body)
	assert.Equal(t, "2026-10-05", row["work_date"])
}

func TestClockWithoutLinkedEmployee(t *testing.T) {
	api := newTestAPI(t)
	admin := api.user(t, "admin@example.com", models.RoleAdmin, nil)

	status, body := api.do(t, http.MethodPost, "/api/v1/attendance/clock", admin, fiber.Map{"action": "in"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "employee_id")
}

func TestMalformedBody(t *testing.T) {
	api := newTestAPI(t)
	admin := api.user(t, "admin@example.com", models.RoleAdmin, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/departments", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+admin)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)

	status, body := api.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	resp, err := api.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `ems_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestRequestIDHeader(t *testing.T) {
	api := newTestAPI(t)
	resp, err := api.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}
