package health

import (
	"encoding/json"
	"net/http"
)

// LivenessHandler serves the liveness probe. It always returns 200 while the
// process is up.
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		status := c.CheckLiveness(r.Context())
		writeStatus(w, http.StatusOK, status)
	}
}

// ReadinessHandler serves the readiness probe. A degraded aggregate returns
// 503 so fleet monitoring can pull the node out of rotation.
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		status := c.CheckReadiness(r.Context())

		code := http.StatusOK
		if status.Status == StatusDegraded || status.Status == StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}

		writeStatus(w, code, status)
	}
}

// VersionHandler serves build information.
func VersionHandler(version, commit, buildTime string) http.HandlerFunc {
	info := map[string]string{
		"version":    version,
		"commit":     commit,
		"build_time": buildTime,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if r.Method == http.MethodHead {
			return
		}

		_ = json.NewEncoder(w).Encode(info)
	}
}

func writeStatus(w http.ResponseWriter, code int, status HealthStatus) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	_ = json.NewEncoder(w).Encode(status)
}
