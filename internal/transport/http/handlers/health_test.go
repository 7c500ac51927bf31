package http_handlers

import (
	"net/http"
	"strings"
	"testing"
)

func TestRootBanner(t *testing.T) {
	app := newTestApp(t)
	rr := app.call(t, http.MethodGet, "/", "", nil)
	if rr.Code != http.StatusOK || rr.Body.String() != "Backend server is running ✅" {
		t.Fatalf("status=%d body=%q", rr.Code, rr.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	rr := app.call(t, http.MethodGet, "/healthz", "", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
}

func TestReadyz(t *testing.T) {
	app := newTestApp(t)
	if rr := app.call(t, http.MethodGet, "/readyz", "", nil); rr.Code != http.StatusOK {
		t.Fatalf("ready: status=%d", rr.Code)
	}

	app.ready = errStoreDown
	rr := app.call(t, http.MethodGet, "/readyz", "", nil)
	if rr.Code != http.StatusServiceUnavailable || !strings.Contains(rr.Body.String(), "store unavailable") {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
}
