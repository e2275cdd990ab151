package bp

import "time"

// datetime layouts observed on the source site, most specific first.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDatetime parses a source datetime string. ok is false when none of
// the known layouts match.
func ParseDatetime(s string) (t time.Time, ok bool) {
	for _, layout := range datetimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
