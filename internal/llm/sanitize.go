package llm

import (
	"encoding/base64"
	"regexp"
)

var (
	reDataURL = regexp.MustCompile(`(?is)\bdata:(image|video|audio)/[a-z0-9+.-]+;base64,[a-z0-9+/=\r\n]+`)
	reGSURI   = regexp.MustCompile(`\b(gs|s3)://[^\s"']+`)
)

// RedactMedia walks any JSON-like value and replaces inline media payloads
// with a marker and storage URIs with their scheme only.
func RedactMedia(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, vv := range x {
			out[k] = RedactMedia(vv)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, vv := range x {
			out[i] = RedactMedia(vv)
		}
		return out
	case string:
		if looksLikeBase64Blob(x) {
			return "[REDACTED media]"
		}
		s := reDataURL.ReplaceAllString(x, "[REDACTED media]")
		return reGSURI.ReplaceAllString(s, "$1://[REDACTED]")
	default:
		return v
	}
}

func looksLikeBase64Blob(s string) bool {
	if len(s) < 512 {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(s)
	return err == nil
}
