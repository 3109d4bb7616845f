package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusTeapot)
})

func TestAPIKey(t *testing.T) {
	h := APIKey("secret", "/")(ok)
	cases := []struct {
		name   string
		path   string
		header string
		ws     bool
		want   int
	}{
		{"missing", "/actions", "", false, http.StatusUnauthorized},
		{"wrong", "/actions", "nope", false, http.StatusUnauthorized},
		{"right", "/actions", "secret", false, http.StatusTeapot},
		{"open path", "/", "", false, http.StatusTeapot},
		{"query ignored without upgrade", "/actions?key=secret", "", false, http.StatusUnauthorized},
		{"query on websocket", "/intervals/x/watch?key=secret", "", true, http.StatusTeapot},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set(APIKeyHeader, tc.header)
			}
			if tc.ws {
				req.Header.Set("Upgrade", "websocket")
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestAPIKeyDisabled(t *testing.T) {
	rec := httptest.NewRecorder()
	APIKey("")(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/actions", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/agenda", nil)
	req.Header.Set("Origin", "chrome-extension://abc")
	rec := httptest.NewRecorder()
	CORS(ok).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "chrome-extension://abc", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "key")
}
