package app

import (
	"net/url"
	"strings"
)

const preparedBinaryParam = "disable_prepared_binary_result"

// normalizeDBURL opts out of binary prepared-statement results when the
// deployment runs behind a transaction-pooling proxy. An explicit value
// in the URL always wins.
func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Get(preparedBinaryParam) != "" {
		return raw
	}

	query.Set(preparedBinaryParam, "yes")
	parsed.RawQuery = query.Encode()

	return parsed.String()
}

// dbNameFromURL extracts the database name from either a postgres:// URL
// or a key=value DSN. Empty when neither form names one.
func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)

	if parsed, err := url.Parse(trimmed); err == nil && parsed != nil && parsed.Scheme != "" {
		if name := strings.Trim(parsed.Path, "/ "); name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		key, value, found := strings.Cut(token, "=")
		if !found || key != "dbname" {
			continue
		}
		if name := strings.Trim(value, `"' `); name != "" {
			return name
		}
	}

	return ""
}
