package observability

import (
	"net/http"
	"net/http/pprof"
)

// RegisterDebugHandlers registers pprof handlers on the telemetry mux.
// The telemetry endpoint is expected to be bound to an internal interface,
// the handlers are not exposed through the public API server.
func RegisterDebugHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
}
