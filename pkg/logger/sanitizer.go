package logger

import (
	"regexp"
	"strings"
)

const redactedPlaceholder = "[REDACTED]"

type redactionRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Key/value pairs keep their key; bare compact JWTs are replaced whole.
var redactionRules = []redactionRule{
	{regexp.MustCompile(`(?i)(password|passwd|pwd)[\s:=]+\S+`), "${1}=" + redactedPlaceholder},
	{regexp.MustCompile(`(?i)(token|jwt|bearer)[\s:=]+\S+`), "${1}=" + redactedPlaceholder},
	{regexp.MustCompile(`(?i)(secret|signing[_-]?key)[\s:=]+\S+`), "${1}=" + redactedPlaceholder},
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*`), redactedPlaceholder},
}

var sensitiveKeys = []string{
	"password", "passwd", "pwd",
	"token", "jwt", "bearer", "authorization",
	"secret", "signing_key", "signing-key",
}

// SanitizeLogMessage removes credentials and tokens from a log line.
func SanitizeLogMessage(message string) string {
	for _, rule := range redactionRules {
		message = rule.pattern.ReplaceAllString(message, rule.replacement)
	}
	return message
}

// SanitizeMap returns a copy of data with sensitive values redacted.
// A nil map stays nil.
func SanitizeMap(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}

	sanitized := make(map[string]any, len(data))
	for k, v := range data {
		if isSensitiveKey(k) {
			sanitized[k] = redactedPlaceholder
			continue
		}
		sanitized[k] = v
	}
	return sanitized
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
