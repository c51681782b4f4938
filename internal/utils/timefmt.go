package utils

import (
	"time"
)

// generatedTimestampLayout mirrors an ISO-8601 local timestamp with microseconds.
const generatedTimestampLayout = "2006-01-02T15:04:05.000000"

// FormatGeneratedTimestamp formats the document generation time in the local time zone.
func FormatGeneratedTimestamp(value time.Time) string {
	return value.In(time.Local).Format(generatedTimestampLayout)
}
