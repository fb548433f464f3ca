package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestResponseWriterCapturesStatusAndBytes(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusOK) // second call ignored
	if _, err := rw.Write([]byte("not found")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if rw.statusCode != http.StatusNotFound {
		t.Errorf("statusCode = %d, want %d", rw.statusCode, http.StatusNotFound)
	}
	if rw.bytesWritten != 9 {
		t.Errorf("bytesWritten = %d, want 9", rw.bytesWritten)
	}
}

func TestSanitizeLogField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "GET", "GET"},
		{"newline forging", "evil\n2024-01-01 injected", "evil 2024-01-01 injected"},
		{"carriage return", "a\rb", "a b"},
		{"ansi escape", "a\x1b[31mred", "a[31mred"},
		{"null byte", "a\x00b", "ab"},
		{"tab preserved", "a\tb", "a\tb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeLogField(tt.input); got != tt.want {
				t.Errorf("sanitizeLogField(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestShouldSkip(t *testing.T) {
	config := DefaultLoggingConfig()
	config.SkipPaths = []string{"/internal"}
	config.LogHealthChecks = false

	tests := []struct {
		path string
		want bool
	}{
		{"/api/photos", false},
		{"/internal/debug", true},
		{"/healthz", true},
		{"/static/app.css", true},
		{"/api/photos/1/thumb", false},
	}
	for _, tt := range tests {
		if got := shouldSkip(tt.path, config); got != tt.want {
			t.Errorf("shouldSkip(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"direct", nil, "10.0.0.5:1234", "10.0.0.5"},
		{"forwarded single", map[string]string{"X-Forwarded-For": "203.0.113.9"}, "10.0.0.5:1234", "203.0.113.9"},
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, "10.0.0.5:1234", "203.0.113.9"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.2"}, "10.0.0.5:1234", "198.51.100.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := getClientIP(r); got != tt.want {
				t.Errorf("getClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/photos", "/api/photos"},
		{"/api/photos/42", "/api/photos/{id}"},
		{"/api/photos/42/thumb", "/api/photos/{id}/thumb"},
		{"/api/albums/7/photos/42", "/api/albums/{id}/photos/{id}"},
		{"/raw/0123456789abcdef0123456789abcdef", "/raw/{token}"},
		{"/api/search", "/api/search"},
	}
	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestMetricsMiddlewarePassesThrough(t *testing.T) {
	handler := Metrics(DefaultMetricsConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/photos/3", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}

func TestCompressionCompressesJSON(t *testing.T) {
	payload := strings.Repeat(`{"name":"photo"},`, 200)
	handler := Compression(DefaultCompressionConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))

	req := httptest.NewRequest("GET", "/api/photos", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if enc := rec.Header().Get("Content-Encoding"); enc != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", enc)
	}
	zr, err := gzip.NewReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response not valid gzip: %v", err)
	}
	decompressed, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("failed to decompress: %v", err)
	}
	if string(decompressed) != payload {
		t.Error("decompressed body does not match original payload")
	}
}

func TestCompressionSkipsSmallAndBinaryResponses(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{"small json", "application/json", `{"ok":true}`},
		{"jpeg", "image/jpeg", strings.Repeat("x", 4096)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Compression(DefaultCompressionConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.Write([]byte(tt.body))
			}))

			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set("Accept-Encoding", "gzip")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if enc := rec.Header().Get("Content-Encoding"); enc == "gzip" {
				t.Error("response compressed, want passthrough")
			}
			if rec.Body.String() != tt.body {
				t.Error("body altered by passthrough")
			}
		})
	}
}

func TestCompressionRespectsAcceptEncoding(t *testing.T) {
	payload := strings.Repeat("compressible text ", 200)
	handler := Compression(DefaultCompressionConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(payload))
	}))

	req := httptest.NewRequest("GET", "/", nil) // no Accept-Encoding
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if enc := rec.Header().Get("Content-Encoding"); enc == "gzip" {
		t.Error("compressed without client opt-in")
	}
}
