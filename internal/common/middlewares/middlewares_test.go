package middlewares

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/c14220110/poliklinik-antrian/pkg/utils"
)

const testSecret = "rahasia-test"

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func newContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func token(t *testing.T, role string, exp time.Time) string {
	t.Helper()
	tok, err := utils.GenerateJWTToken(testSecret, 7, "budi", role, exp)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestJWTMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc.def.ghi", status: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + token(t, RoleLoket, time.Now().Add(-time.Minute)), status: http.StatusUnauthorized},
		{name: "valid", header: "Bearer " + token(t, RoleLoket, time.Now().Add(time.Hour)), status: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			c, rec := newContext(req)

			var got *utils.Claims
			h := JWTMiddleware(testSecret)(func(c echo.Context) error {
				got, _ = ClaimsFrom(c)
				return okHandler(c)
			})
			if err := h(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tc.status {
				t.Errorf("expected %d, got %d", tc.status, rec.Code)
			}
			if tc.status == http.StatusOK && (got == nil || got.Username != "budi") {
				t.Errorf("claims not stored in context: %+v", got)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name   string
		claims *utils.Claims
		status int
	}{
		{name: "no claims", claims: nil, status: http.StatusUnauthorized},
		{name: "allowed", claims: &utils.Claims{Role: RoleLoket}, status: http.StatusOK},
		{name: "admin bypass", claims: &utils.Claims{Role: RoleAdmin}, status: http.StatusOK},
		{name: "forbidden", claims: &utils.Claims{Role: RoleFarmasi}, status: http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newContext(httptest.NewRequest(http.MethodPost, "/", nil))
			if tc.claims != nil {
				c.Set(string(ContextKeyClaims), tc.claims)
			}
			if err := RequireRole(RoleLoket, RolePendaftaran)(okHandler)(c); err != nil {
				t.Fatal(err)
			}
			if rec.Code != tc.status {
				t.Errorf("expected %d, got %d", tc.status, rec.Code)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	c, rec := newContext(httptest.NewRequest(http.MethodGet, "/", nil))
	var rid string
	h := RequestID()(func(c echo.Context) error {
		rid, _ = c.Get("request_id").(string)
		return okHandler(c)
	})
	if err := h(c); err != nil {
		t.Fatal(err)
	}
	if rid == "" || rec.Header().Get(RequestIDHeader) != rid {
		t.Errorf("expected generated request id in context and header, got %q / %q", rid, rec.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	c, rec = newContext(req)
	if err := RequestID()(okHandler)(c); err != nil {
		t.Fatal(err)
	}
	if rec.Header().Get(RequestIDHeader) != "abc-123" {
		t.Errorf("expected existing id to be kept, got %q", rec.Header().Get(RequestIDHeader))
	}
}

func TestLoggerWritesRequestLine(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	c, _ := newContext(httptest.NewRequest(http.MethodGet, "/api/queues/waiting", nil))
	c.Set("request_id", "rid-1")

	if err := Logger(logger)(okHandler)(c); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`"request_id":"rid-1"`, `"path":"/api/queues/waiting"`, `"status":200`} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %s missing %s", out, want)
		}
	}
}

func TestRecovery(t *testing.T) {
	c, _ := newContext(httptest.NewRequest(http.MethodGet, "/", nil))
	err := Recovery(zerolog.Nop())(func(echo.Context) error { panic("boom") })(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 HTTPError, got %v", err)
	}
}

func TestValidator(t *testing.T) {
	type req struct {
		CounterName string `validate:"required"`
		PoliID      int64  `validate:"gte=0"`
	}
	v := NewValidator()
	if err := v.Validate(req{CounterName: "Loket 1"}); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
	err := v.Validate(req{PoliID: -1})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "CounterName") || !strings.Contains(err.Error(), "PoliID") {
		t.Errorf("expected both fields in message, got %q", err.Error())
	}
}
