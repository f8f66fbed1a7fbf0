package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

const redactedValue = "[REDACTED]"

var redactedKeyParts = []string{
	"token",
	"authorization",
	"password",
	"secret",
	"cookie",
	"api_key",
	"apikey",
	"email",
}

var hashedKeyParts = []string{
	"user_id",
	"session_id",
}

// scrubber rewrites key/value pairs before they reach zap. A nil or disabled
// scrubber passes pairs through untouched.
type scrubber struct {
	enabled bool
	salt    string
}

func scrubberFromEnv() *scrubber {
	s := &scrubber{enabled: true, salt: strings.TrimSpace(os.Getenv("LOG_HASH_SALT"))}
	switch strings.TrimSpace(strings.ToLower(os.Getenv("LOG_REDACTION_ENABLED"))) {
	case "0", "false", "no", "off":
		s.enabled = false
	}
	return s
}

func (s *scrubber) apply(kv []interface{}) []interface{} {
	if s == nil || !s.enabled || len(kv) == 0 {
		return kv
	}
	out := make([]interface{}, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		key := stringify(kv[i])
		out = append(out, key, s.value(strings.ToLower(strings.TrimSpace(key)), kv[i+1]))
	}
	return out
}

func (s *scrubber) value(key string, val interface{}) interface{} {
	switch {
	case containsAny(key, redactedKeyParts):
		return redactedValue
	case containsAny(key, hashedKeyParts):
		return s.hash(val)
	}
	if str, ok := val.(string); ok && looksLikeJWT(str) {
		return redactedValue
	}
	if m, ok := val.(map[string]interface{}); ok {
		cleaned := make(map[string]interface{}, len(m))
		for k, v := range m {
			cleaned[k] = s.value(strings.ToLower(strings.TrimSpace(k)), v)
		}
		return cleaned
	}
	return val
}

func (s *scrubber) hash(val interface{}) string {
	raw := stringify(val)
	if raw == "" || raw == "0" {
		return raw
	}
	sum := sha256.Sum256([]byte(s.salt + raw))
	return "hash:" + hex.EncodeToString(sum[:])[:12]
}

func containsAny(key string, parts []string) bool {
	for _, p := range parts {
		if strings.Contains(key, p) {
			return true
		}
	}
	return false
}

func looksLikeJWT(s string) bool {
	parts := strings.Split(s, ".")
	return len(parts) == 3 && len(parts[0]) > 10 && len(parts[1]) > 10
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
