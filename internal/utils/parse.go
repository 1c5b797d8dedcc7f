package utils

import (
	"strconv"
	"strings"
	"time"
)

// ISOFormat is the single timestamp layout used for both parsing input dates
// and formatting output timestamps. No timezone offset, always UTC.
const ISOFormat = "2006-01-02T15:04:05"

// ParseInt converts a form value to an int64. A value that does not parse is
// treated the same as an absent one.
func ParseInt(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseDate parses a timestamp in ISOFormat, interpreted as UTC. An
// unparseable date is indistinguishable from an absent one.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(ISOFormat, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseBool accepts only the literals "true" and "false". Anything else is
// reported as not-a-boolean so validation can reject it.
func ParseBool(s string) (bool, bool) {
	switch strings.TrimSpace(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}
