package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"amp_scheduler/internal/models"
)

func signUpAndGetToken(t *testing.T, fx *testFixture) string {
	t.Helper()

	creds := `{"username":"operator","password":"secret"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/sign-up", strings.NewReader(creds))
	req.Header.Set("Content-Type", "application/json")
	fx.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-up: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/sign-in", strings.NewReader(creds))
	req.Header.Set("Content-Type", "application/json")
	fx.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-in: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode sign-in response: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("empty token in sign-in response")
	}
	return resp.Token
}

func TestHealth(t *testing.T) {
	fx := newTestFixture(validStoredSchedule())

	w := doRequest(t, fx, http.MethodGet, "/health", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestAPI_RequiresToken(t *testing.T) {
	fx := newTestFixture(validStoredSchedule())

	for _, path := range []string{"/api/v1/status", "/api/v1/schedule", "/api/v1/logs"} {
		w := doRequest(t, fx, http.MethodGet, path, nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("GET %s without token: expected 401, got %d", path, w.Code)
		}
	}
}

func TestAPI_RejectsMalformedAuthHeader(t *testing.T) {
	fx := newTestFixture(validStoredSchedule())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	req.Header.Set("Authorization", "Basic abc123")
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAPI_StatusWithToken(t *testing.T) {
	stored := validStoredSchedule()
	stored.Windows = []models.TimeWindow{{StartHour: 8, EndHour: 17}}
	stored.Volume = 20
	fx := newTestFixture(stored)

	token := signUpAndGetToken(t, fx)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var st models.AmpStatus
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st.Volume != 20 || len(st.Windows) != 1 {
		t.Fatalf("unexpected status: %+v", st)
	}
	if st.Clock.Hour != 10 || st.Clock.Minute != 30 {
		t.Fatalf("unexpected clock in status: %+v", st.Clock)
	}
}

func TestAPI_ScheduleWithToken(t *testing.T) {
	stored := validStoredSchedule()
	stored.Windows = []models.TimeWindow{{StartHour: 22, EndHour: 6}}
	fx := newTestFixture(stored)

	token := signUpAndGetToken(t, fx)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var sched models.Schedule
	if err := json.Unmarshal(w.Body.Bytes(), &sched); err != nil {
		t.Fatalf("decode schedule: %v", err)
	}
	if len(sched.Windows) != 1 || sched.Windows[0].StartHour != 22 {
		t.Fatalf("unexpected schedule: %+v", sched)
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	fx := newTestFixture(validStoredSchedule())
	signUpAndGetToken(t, fx)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/sign-in",
		strings.NewReader(`{"username":"operator","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	fx.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
