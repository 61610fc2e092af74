// Package web exposes a lightweight HTTP dashboard over the interface
// health store: a single *http.Server, one handler per route, jsonOK
// for responses.
//
// Endpoints
//
//	GET /api/snapshot   Full per-interface health snapshot, JSON.
//	GET /               A static polling page rendering /api/snapshot.
package web

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/netmix/egressd/internal/health"
)

// Server is the read-only web dashboard HTTP server.
type Server struct {
	store  *health.Store
	server *http.Server
}

// New creates and configures the dashboard server. Call Start to begin
// listening.
func New(addr string, store *health.Store) *Server {
	s := &Server{store: store}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/snapshot", s.handleSnapshot)
	mux.HandleFunc("/", s.handleIndex)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return s
}

// Start begins listening. Blocks until the server stops.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop closes the server immediately, including any active connections.
func (s *Server) Stop() error {
	return s.server.Close()
}

// handleSnapshot returns every tracked interface's current metrics.
//
//	GET /api/snapshot
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	jsonOK(w, s.store.Snapshot())
}

// handleIndex serves a static page that polls /api/snapshot and renders
// a simple table. No templating library is involved; the page is one
// fixed document with a small inline script.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[web] encode response: %v", err)
	}
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>egressd</title>
<style>
body { font-family: monospace; margin: 2rem; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; text-align: right; }
th:first-child, td:first-child { text-align: left; }
</style>
</head>
<body>
<h1>egressd</h1>
<table id="t">
<thead><tr><th>interface</th><th>avg latency (ms)</th><th>successes</th><th>failures</th><th>active</th><th>bytes sent</th><th>bytes recv</th></tr></thead>
<tbody></tbody>
</table>
<script>
async function refresh() {
  const res = await fetch('/api/snapshot');
  const rows = await res.json();
  const body = document.querySelector('#t tbody');
  body.innerHTML = '';
  for (const r of rows) {
    const lat = r.latencies.length ? (r.latencies.reduce((a,b)=>a+b,0)/r.latencies.length).toFixed(1) : '-';
    const tr = document.createElement('tr');
    tr.innerHTML = '<td>'+r.name+'</td><td>'+lat+'</td><td>'+r.successes+'</td><td>'+r.failures+'</td><td>'+r.active_conns+'</td><td>'+r.bytes_sent+'</td><td>'+r.bytes_received+'</td>';
    body.appendChild(tr);
  }
}
refresh();
setInterval(refresh, 2000);
</script>
</body>
</html>
`
