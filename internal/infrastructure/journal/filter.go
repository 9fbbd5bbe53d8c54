package journal

import "strings"

// Filter selects journal records. Zero-valued fields impose no constraint;
// all supplied constraints must hold for a record to match.
type Filter struct {
	// Query is matched case-insensitively as a substring of the store's
	// designated text fields.
	Query string
	// Equals requires exact string equality on the named fields.
	Equals map[string]string
	// Since and Until bound the timestamp field, inclusive on both ends.
	Since string
	Until string
	// Limit caps the number of matches; <= 0 means unlimited.
	Limit int
}

func (f Filter) matches(rec Record, textFields []string) bool {
	for field, want := range f.Equals {
		if got, _ := rec[field].(string); got != want {
			return false
		}
	}

	ts := rec.Timestamp()
	if f.Since != "" && ts < f.Since {
		return false
	}
	if f.Until != "" && ts > f.Until {
		return false
	}

	if f.Query != "" {
		query := strings.ToLower(f.Query)
		found := false
		for _, field := range textFields {
			if value, _ := rec[field].(string); value != "" {
				if strings.Contains(strings.ToLower(value), query) {
					found = true
					break
				}
			}
		}
		if !found {
			return false
		}
	}

	return true
}
