package logging

import (
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/m-mizutani/masq"
)

// sensitiveHeaders are lowercase HTTP header names that carry credentials.
var sensitiveHeaders = []string{
	"authorization",
	"proxy-authorization",
	"x-api-key",
	"x-auth-token",
	"cookie",
	"set-cookie",
}

// sensitiveFields are attribute keys whose values are always redacted. The
// store settings (dsn, password) are the ones most likely to reach a log.
var sensitiveFields = []string{
	"password",
	"secret",
	"token",
	"dsn",
	"redis_password",
}

var sensitivePrefixes = []string{"secret_", "api_key"}

// sensitiveValues catch credentials in free-form strings: bearer tokens,
// JWTs (three segments of at least 10 characters, so version numbers pass),
// inline api keys, and userinfo in connection URLs such as
// postgres://user:secret@db/accounts.
var sensitiveValues = []*regexp.Regexp{
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`),
	regexp.MustCompile(`[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}`),
	regexp.MustCompile(`(?i)(api[_\-]?key|apikey)\s*[:=]\s*\S+`),
	regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+.\-]*://[^:/\s]+:[^@\s]+@`),
}

// IsSensitiveHeader reports whether the named HTTP header carries
// credentials. The comparison ignores case.
func IsSensitiveHeader(name string) bool {
	return slices.Contains(sensitiveHeaders, strings.ToLower(name))
}

// redactAttr returns the masq ReplaceAttr used by every handler from New.
func redactAttr() func([]string, slog.Attr) slog.Attr {
	opts := make([]masq.Option, 0,
		len(sensitiveHeaders)+len(sensitiveFields)+len(sensitivePrefixes)+len(sensitiveValues))

	for _, name := range sensitiveHeaders {
		opts = append(opts, masq.WithFieldName(name))
	}
	for _, name := range sensitiveFields {
		opts = append(opts, masq.WithFieldName(name))
	}
	for _, prefix := range sensitivePrefixes {
		opts = append(opts, masq.WithFieldPrefix(prefix))
	}
	for _, re := range sensitiveValues {
		opts = append(opts, masq.WithRegex(re))
	}

	return masq.New(opts...)
}
