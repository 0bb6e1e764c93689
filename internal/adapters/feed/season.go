package feed

import (
	"fmt"
	"time"
)

// SeasonFor returns the season label for t, e.g. "2025-26". A season starts in October.
func SeasonFor(t time.Time) string {
	start := t.Year()
	if t.Month() < time.October {
		start--
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}
