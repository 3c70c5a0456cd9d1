package validators

import (
	"net/http"
	"strings"
	"unicode/utf8"
)

const maxQueryValueLen = 200

// QueryString returns a trimmed query parameter capped at maxQueryValueLen runes.
func QueryString(r *http.Request, key string) string {
	return truncate(strings.TrimSpace(r.URL.Query().Get(key)), maxQueryValueLen)
}

func truncate(value string, max int) string {
	if max <= 0 || utf8.RuneCountInString(value) <= max {
		return value
	}
	runes := []rune(value)
	return string(runes[:max])
}
