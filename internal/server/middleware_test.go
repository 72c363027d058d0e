package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// TestAPIKeyAuth covers the three header states: missing, wrong, correct.
func TestAPIKeyAuth(t *testing.T) {
	handler := APIKeyAuth("secret")(okHandler())

	tests := []struct {
		name string
		key  string
		want int
	}{
		{"missing key", "", http.StatusUnauthorized},
		{"wrong key", "nope", http.StatusForbidden},
		{"correct key", "secret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

// TestRequirePremium verifies the entitlement gate returns 402 with the
// upsell message for non-premium and passes through for premium.
func TestRequirePremium(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	w := httptest.NewRecorder()
	RequirePremium(false)(okHandler()).ServeHTTP(w, req)
	if w.Code != http.StatusPaymentRequired {
		t.Errorf("non-premium status = %d, want 402", w.Code)
	}
	if !strings.Contains(w.Body.String(), "premium users") {
		t.Errorf("body = %q, want upsell message", w.Body.String())
	}

	w = httptest.NewRecorder()
	RequirePremium(true)(okHandler()).ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("premium status = %d, want 200", w.Code)
	}
}

// TestCORSPreflight verifies OPTIONS requests short-circuit with the CORS
// headers set.
func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	w := httptest.NewRecorder()
	CORS(okHandler()).ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
}

// TestStatusWriter verifies the wrapper records the handler's status code.
func TestStatusWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec, status: http.StatusOK}

	sw.WriteHeader(http.StatusTeapot)

	if sw.status != http.StatusTeapot {
		t.Errorf("recorded status = %d, want %d", sw.status, http.StatusTeapot)
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("underlying status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}
