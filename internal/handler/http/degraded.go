package http

import "net/http"

// setDegradedHeader flags responses served from a stale snapshot after the
// underlying subscription failed. Clients keep the data and surface a banner.
func setDegradedHeader(w http.ResponseWriter, degraded bool) {
	if degraded {
		w.Header().Set("X-Snapshot-Degraded", "true")
	}
}
