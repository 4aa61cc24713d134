// Package metrics exposes Prometheus HTTP metrics.
//
// Each Metrics value owns its registry, so several applications can run in
// one process (or one test binary) without duplicate registration panics.
//
//	m := metrics.New("app")
//	r.Use(m.Middleware)
//	r.Method(http.MethodGet, metrics.Path, m.Handler())
package metrics
