package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// APIKeyHeader carries the shared secret the extension sends.
const APIKeyHeader = "key"

// APIKey rejects requests whose key header does not match key. Websocket
// upgrades may pass it as ?key= since browsers cannot set headers there.
// Paths in open skip the check. An empty key disables it.
func APIKey(key string, open ...string) func(http.Handler) http.Handler {
	key = strings.TrimSpace(key)
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range open {
				if r.URL.Path == p {
					next.ServeHTTP(w, r)
					return
				}
			}
			got := r.Header.Get(APIKeyHeader)
			if got == "" && websocketUpgrade(r) {
				got = r.URL.Query().Get("key")
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail":"Unauthorized"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func websocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}
