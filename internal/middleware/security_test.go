package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecurity(t *testing.T) {
	tests := []struct {
		name      string
		isDev     bool
		header    string
		wantValue string
	}{
		{name: "nosniff", header: "X-Content-Type-Options", wantValue: "nosniff"},
		{name: "frame options", header: "X-Frame-Options", wantValue: "DENY"},
		{name: "referrer policy", header: "Referrer-Policy", wantValue: "strict-origin-when-cross-origin"},
		{name: "csp", header: "Content-Security-Policy", wantValue: "default-src 'none'; frame-ancestors 'none'"},
		{name: "hsts in production", header: "Strict-Transport-Security", wantValue: "max-age=31536000; includeSubDomains; preload"},
		{name: "no hsts in development", isDev: true, header: "Strict-Transport-Security", wantValue: ""},
		{name: "no-store", header: "Cache-Control", wantValue: "no-store"},
		{name: "coop", header: "Cross-Origin-Opener-Policy", wantValue: "same-origin"},
		{name: "corp", header: "Cross-Origin-Resource-Policy", wantValue: "same-origin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Security(tt.isDev)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			if got := rec.Header().Get(tt.header); got != tt.wantValue {
				t.Errorf("header %s = %q, want %q", tt.header, got, tt.wantValue)
			}
		})
	}
}

func TestMaxBodySize(t *testing.T) {
	tests := []struct {
		name          string
		maxBytes      int64
		contentLength int64
		body          string
		wantStatus    int
	}{
		{
			name:          "small body allowed",
			maxBytes:      1024,
			contentLength: 10,
			body:          "small body",
			wantStatus:    http.StatusOK,
		},
		{
			name:          "content-length exceeds limit",
			maxBytes:      10,
			contentLength: 100,
			body:          "this is a much longer body that exceeds the limit",
			wantStatus:    http.StatusRequestEntityTooLarge,
		},
		{
			name:          "zero limit falls back to default",
			maxBytes:      0,
			contentLength: 10,
			body:          "small body",
			wantStatus:    http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := MaxBodySize(tt.maxBytes)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.Copy(io.Discard, r.Body)
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.ContentLength = tt.contentLength
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusRequestEntityTooLarge && !strings.Contains(rec.Body.String(), "PAYLOAD_TOO_LARGE") {
				t.Errorf("body = %s", rec.Body.String())
			}
		})
	}
}
