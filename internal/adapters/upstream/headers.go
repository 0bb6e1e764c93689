package upstream

import "net/http"

// BrowserHeaders is the request profile the stats endpoints expect from a
// browser session on the league site. Requests without it are often dropped.
func BrowserHeaders(userAgent string) http.Header {
	h := http.Header{}
	h.Set("User-Agent", userAgent)
	h.Set("Accept", "application/json, text/plain, */*")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("Accept-Encoding", "identity")
	h.Set("Connection", "keep-alive")
	h.Set("Origin", "https://www.nba.com")
	h.Set("Referer", "https://www.nba.com/")
	h.Set("x-nba-stats-origin", "stats")
	h.Set("x-nba-stats-token", "true")
	return h
}
