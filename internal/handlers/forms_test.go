package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"amp_scheduler/internal/models"
)

func doRequest(t *testing.T, fx *testFixture, method, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)
	return w
}

func expectRedirectHome(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to /, got %q", loc)
	}
}

func TestIndexPage(t *testing.T) {
	stored := validStoredSchedule()
	stored.Windows = []models.TimeWindow{{StartHour: 8, EndHour: 17}}
	fx := newTestFixture(stored)

	w := doRequest(t, fx, http.MethodGet, "/", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "08:00 - 17:00") {
		t.Fatalf("page must show the configured window, got:\n%s", body)
	}
	if !strings.Contains(body, `name="start_h_2"`) {
		t.Fatalf("page must render all window slots")
	}
	if !strings.Contains(body, "10:30") {
		t.Fatalf("page must show the clock reading")
	}
}

func TestSetSchedule_FormRoundTrip(t *testing.T) {
	fx := newTestFixture(validStoredSchedule())

	w := doRequest(t, fx, http.MethodPost, "/set", url.Values{
		"start_h_0": {"8"}, "start_m_0": {"0"},
		"end_h_0": {"17"}, "end_m_0": {"0"},
	})
	expectRedirectHome(t, w)

	snap := fx.services.Schedule.Snapshot()
	if len(snap.Windows) != 1 {
		t.Fatalf("expected 1 window after submit, got %+v", snap.Windows)
	}
	if snap.Windows[0].StartHour != 8 || snap.Windows[0].EndHour != 17 {
		t.Fatalf("unexpected window: %+v", snap.Windows[0])
	}

	page := doRequest(t, fx, http.MethodGet, "/", nil)
	if !strings.Contains(page.Body.String(), "08:00 - 17:00") {
		t.Fatalf("submitted window must show on the page")
	}
}

func TestSetSchedule_GarbageFieldsClamped(t *testing.T) {
	fx := newTestFixture(validStoredSchedule())

	w := doRequest(t, fx, http.MethodPost, "/set", url.Values{
		"start_h_0": {"banana"}, "start_m_0": {"-10"},
		"end_h_0": {"99"}, "end_m_0": {"75"},
	})
	expectRedirectHome(t, w)

	snap := fx.services.Schedule.Snapshot()
	if len(snap.Windows) != 1 {
		t.Fatalf("expected the slot kept, got %+v", snap.Windows)
	}
	got := snap.Windows[0]
	if got.StartHour != 0 || got.StartMinute != 0 || got.EndHour != 23 || got.EndMinute != 59 {
		t.Fatalf("expected 00:00 - 23:59 after clamping, got %+v", got)
	}
}

func TestSetVolume_ClampedAndPersisted(t *testing.T) {
	fx := newTestFixture(validStoredSchedule())

	w := doRequest(t, fx, http.MethodPost, "/setvolume", url.Values{"v": {"999"}})
	expectRedirectHome(t, w)

	if got := fx.services.Schedule.Snapshot().Volume; got != models.MaxVolume {
		t.Fatalf("expected volume %d, got %d", models.MaxVolume, got)
	}
	if fx.schedRepo.stored.Volume != models.MaxVolume {
		t.Fatalf("expected volume persisted, repo holds %+v", fx.schedRepo.stored)
	}
}

func TestSetTime_ForwardsClampedFields(t *testing.T) {
	fx := newTestFixture(validStoredSchedule())

	w := doRequest(t, fx, http.MethodPost, "/settime", url.Values{
		"h": {"25"}, "m": {"30"}, "s": {"0"},
		"d": {"15"}, "mon": {"6"}, "y": {"2026"},
	})
	expectRedirectHome(t, w)

	if len(fx.clock.setCalls) != 1 {
		t.Fatalf("expected one clock write, got %d", len(fx.clock.setCalls))
	}
	got := fx.clock.setCalls[0]
	if got.Hour != 23 || got.Minute != 30 || got.Day != 15 || got.Month != 6 || got.Year != 2026 {
		t.Fatalf("unexpected clock write: %+v", got)
	}
}

func TestUnknownPath_PlainText404(t *testing.T) {
	fx := newTestFixture(validStoredSchedule())

	w := doRequest(t, fx, http.MethodGet, "/nope", nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w.Body.String() != "404: not found" {
		t.Fatalf("unexpected body: %q", w.Body.String())
	}
}

func TestFormRoutes_RejectGet(t *testing.T) {
	fx := newTestFixture(validStoredSchedule())

	for _, path := range []string{"/set", "/setvolume", "/settime"} {
		w := doRequest(t, fx, http.MethodGet, path, nil)
		if w.Code != http.StatusMethodNotAllowed {
			t.Fatalf("GET %s: expected 405, got %d", path, w.Code)
		}
	}
}
