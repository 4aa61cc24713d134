package httpserver

import "net/http"

// HealthCheckPath is the conventional liveness probe route.
const HealthCheckPath = "/healthz/ping"

// HealthCheckHandler answers liveness probes with 200 "ALIVE".
func HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ALIVE"))
	}
}
