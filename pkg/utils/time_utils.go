package utils

import (
	"strings"
	"time"
)

// ProviderTimeLayout es el formato de timestamps del proveedor: 2024-07-30T05:43:00.000Z
const ProviderTimeLayout = "2006-01-02T15:04:05.000Z"

// ParseProviderTime parsea un timestamp del proveedor (con o sin milisegundos)
func ParseProviderTime(raw string) (time.Time, error) {
	t, err := time.Parse(ProviderTimeLayout, raw)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// FormatLastUpdated renders a provider timestamp as "HH:MM:SS UTC+0".
// Unparseable values are returned unchanged.
func FormatLastUpdated(raw string) string {
	raw = strings.TrimSpace(raw)
	t, err := ParseProviderTime(raw)
	if err != nil {
		return raw
	}
	return t.UTC().Format("15:04:05") + " UTC+0"
}

// IsTimestampStale checks if a timestamp is older than the specified duration.
// A non-positive duration never goes stale.
func IsTimestampStale(timestamp time.Time, staleDuration time.Duration) bool {
	if staleDuration <= 0 {
		return false
	}
	return time.Since(timestamp) > staleDuration
}
