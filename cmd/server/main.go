package main

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"manifestgen/generator"
)

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

// Minimal inspection page: connects to /ws and dumps the entry stream
const indexHTML = `<!DOCTYPE html>
<html>
<head><title>manifestgen</title></head>
<body>
<h1>manifestgen</h1>
<p>Connect a WebSocket client to <code>/ws</code> and send
<code>{"type":"start"}</code> to stream manifest entries.
Prometheus metrics are exported at <code>/metrics</code>.</p>
<pre id="log"></pre>
<script>
const log = document.getElementById("log");
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onopen = () => ws.send(JSON.stringify({type: "start"}));
ws.onmessage = (e) => {
  log.textContent += e.data + "\n";
  while (log.textContent.length > 100000) {
    log.textContent = log.textContent.slice(20000);
  }
};
</script>
</body>
</html>
`

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for development
		return true
	},
}

// Client message types
type ClientMessage struct {
	Type   string               `json:"type"`
	Config *generator.GenConfig `json:"config,omitempty"`
}

// Server message types
type ServerMessage struct {
	Type    string                    `json:"type"`
	Running *bool                     `json:"running,omitempty"`
	Config  *generator.GenConfig      `json:"config,omitempty"`
	Entries []generator.ManifestEntry `json:"entries,omitempty"`
	Metrics *generator.Metrics        `json:"metrics,omitempty"`
	State   map[string]interface{}    `json:"state,omitempty"`
}

// genState manages the generator and UI pacing
type genState struct {
	gen     *generator.Generator
	running bool
	paused  bool
	mu      sync.Mutex
	stopCh  chan struct{}
}

func newGenState(config generator.GenConfig) (*genState, error) {
	gen, err := generator.NewGenerator(config)
	if err != nil {
		return nil, err
	}

	return &genState{
		gen:     gen,
		running: false,
		paused:  false,
		stopCh:  make(chan struct{}),
	}, nil
}

// start begins streaming (sets running flag)
func (s *genState) start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	s.paused = false
}

// pause pauses streaming
func (s *genState) pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
}

// reset resets the generator
func (s *genState) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen.Reset()
	s.running = false
	s.paused = false
}

// updateConfig replaces the generator with one built from the new config
func (s *genState) updateConfig(config generator.GenConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	gen, err := generator.NewGenerator(config)
	if err != nil {
		return err
	}
	s.gen = gen
	return nil
}

// isRunning returns true if streaming and not paused
func (s *genState) isRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running && !s.paused
}

// getConfig returns the current generator configuration
func (s *genState) getConfig() generator.GenConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen.Config()
}

// nextBatch emits count entries, rounded up to complete generation steps
func (s *genState) nextBatch(count int) []generator.ManifestEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || s.paused {
		return nil
	}
	entries := make([]generator.ManifestEntry, 0, count)
	for len(entries) < count {
		entries = append(entries, s.gen.Next())
		for s.gen.Buffered() > 0 {
			entries = append(entries, s.gen.Next())
		}
	}
	return entries
}

// metrics returns a copy of the current metrics
func (s *genState) metrics() *generator.Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := *s.gen.Metrics()
	return &m
}

// state returns the current level state
func (s *genState) state() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen.State()
}

// stop signals the UI loop to stop
func (s *genState) stop() {
	close(s.stopCh)
}

// uiUpdateLoop periodically emits a batch of entries and sends updates
// to the client. This runs in its own goroutine and controls UI pacing.
func uiUpdateLoop(conn *safeConn, state *genState) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-state.stopCh:
			log.Println("UI update loop stopping")
			return

		case <-ticker.C:
			if !state.isRunning() {
				continue
			}

			entries := state.nextBatch(10)
			if len(entries) > 0 {
				entriesMsg := ServerMessage{
					Type:    "entries",
					Entries: entries,
				}
				if err := conn.WriteJSON(entriesMsg); err != nil {
					log.Printf("Error sending entries: %v", err)
					return
				}
			}

			metrics := state.metrics()
			updatePrometheusMetrics(metrics, state)
			metricsMsg := ServerMessage{
				Type:    "metrics",
				Metrics: metrics,
			}
			if err := conn.WriteJSON(metricsMsg); err != nil {
				log.Printf("Error sending metrics: %v", err)
				return
			}

			stateMsg := ServerMessage{
				Type:  "state",
				State: state.state(),
			}
			if err := conn.WriteJSON(stateMsg); err != nil {
				log.Printf("Error sending state: %v", err)
				return
			}
		}
	}
}

// safeConn wraps a WebSocket connection with a mutex to prevent concurrent writes
type safeConn struct {
	*websocket.Conn
	writeMu sync.Mutex
}

func (sc *safeConn) WriteJSON(v interface{}) error {
	sc.writeMu.Lock()
	defer sc.writeMu.Unlock()
	return sc.Conn.WriteJSON(v)
}

func handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading connection: %v", err)
		return
	}
	defer conn.Close()

	// Wrap connection with mutex for safe concurrent writes
	safeConn := &safeConn{Conn: conn}

	log.Println("Client connected")

	config := generator.DefaultConfig()
	state, err := newGenState(config)
	if err != nil {
		log.Printf("Error creating generator: %v", err)
		return
	}

	// Send initial status
	running := false
	statusMsg := ServerMessage{
		Type:    "status",
		Running: &running,
		Config:  &config,
	}
	if err := safeConn.WriteJSON(statusMsg); err != nil {
		log.Printf("Error sending status: %v", err)
		return
	}

	// Start UI update loop
	go uiUpdateLoop(safeConn, state)

	// Handle messages from client
	for {
		var msg ClientMessage
		err := conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Error reading message: %v", err)
			}
			break
		}

		log.Printf("Received command: %s", msg.Type)

		switch msg.Type {
		case "start":
			state.start()
			log.Println("Generator started")
			running := true
			cfg := state.getConfig()
			statusMsg := ServerMessage{
				Type:    "status",
				Running: &running,
				Config:  &cfg,
			}
			safeConn.WriteJSON(statusMsg)

		case "pause":
			state.pause()
			log.Println("Generator paused")
			running := false
			cfg := state.getConfig()
			statusMsg := ServerMessage{
				Type:    "status",
				Running: &running,
				Config:  &cfg,
			}
			safeConn.WriteJSON(statusMsg)

		case "reset":
			state.reset()
			log.Println("Generator reset")
			running := false
			cfg := state.getConfig()
			statusMsg := ServerMessage{
				Type:    "status",
				Running: &running,
				Config:  &cfg,
			}
			safeConn.WriteJSON(statusMsg)

		case "config_update":
			if msg.Config != nil {
				if err := state.updateConfig(*msg.Config); err != nil {
					log.Printf("Error updating config: %v", err)
				} else {
					log.Printf("Config updated: %+v", msg.Config)
					running := state.isRunning()
					statusMsg := ServerMessage{
						Type:    "status",
						Running: &running,
						Config:  msg.Config,
					}
					safeConn.WriteJSON(statusMsg)
				}
			}
		}
	}

	// Clean up
	state.stop()
	log.Println("Client disconnected")
}

func serveHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, nil); err != nil {
		log.Printf("Error executing template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func quitHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Shutdown requested via /quitquitquit")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Server shutting down...")

	go func() {
		time.Sleep(100 * time.Millisecond)
		log.Println("Server stopped")
		os.Exit(0)
	}()
}

func main() {
	initPrometheusMetrics()

	http.HandleFunc("/", serveHome)
	http.HandleFunc("/ws", handleWebSocket)
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/quitquitquit", quitHandler)

	addr := ":8080"
	log.Printf("Server starting on http://localhost%s", addr)
	log.Printf("WebSocket endpoint: ws://localhost%s/ws", addr)
	log.Printf("Prometheus metrics: http://localhost%s/metrics", addr)
	log.Printf("Shutdown endpoint: http://localhost%s/quitquitquit", addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}
