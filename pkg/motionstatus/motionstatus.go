// Package motionstatus is a REST/WebSocket status server reporting
// per-stepper solver state, down to the one printer object that applies
// here: motion_report. It is a pure observability surface -- it never
// calls Flush and never mutates a StepperKinematics, it only reads the
// state the coordinator already produced.
package motionstatus

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"stepsolve/pkg/log"
)

var logger = log.New("motionstatus")

// Stepper is the subset of *stepkin.StepperKinematics motionstatus reports
// on.
type Stepper interface {
	GetCommandedPos() float64
	GetLastFlushTime() float64
	GetStepDist() float64
}

// Server reports motion_report-style status for a set of named steppers:
// object-status queries over REST, and a JSON-RPC-style notification with
// every stepper's status pushed to each WebSocket client. Clients cannot
// subscribe to a subset; incoming WebSocket messages are read and ignored.
type Server struct {
	addr string

	mu       sync.RWMutex
	steppers map[string]Stepper

	upgrader  websocket.Upgrader
	clients   map[int64]*client
	clientsMu sync.RWMutex
	nextID    int64

	httpServer *http.Server
	startTime  time.Time
}

// New creates a status server listening on addr (e.g. ":7125").
func New(addr string) *Server {
	return &Server{
		addr:      addr,
		steppers:  make(map[string]Stepper),
		clients:   make(map[int64]*client),
		startTime: time.Now(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Register adds or replaces the stepper reported under name.
func (s *Server) Register(name string, sk Stepper) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steppers[name] = sk
}

// Start begins serving and broadcasting; it blocks until Stop is called.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/printer/objects/list", s.handleObjectsList)
	mux.HandleFunc("/printer/objects/query", s.handleObjectsQuery)
	mux.HandleFunc("/websocket", s.handleWebSocket)

	s.httpServer = &http.Server{Addr: s.addr, Handler: mux}

	go s.broadcastLoop()

	logger.WithField("addr", s.addr).Info("motionstatus server starting")
	return s.httpServer.ListenAndServe()
}

// Stop closes every client connection and the HTTP listener.
func (s *Server) Stop() error {
	s.clientsMu.Lock()
	for _, c := range s.clients {
		c.close()
	}
	s.clients = make(map[int64]*client)
	s.clientsMu.Unlock()

	if s.httpServer != nil {
		return s.httpServer.Close()
	}
	return nil
}

// snapshot returns the current motion_report object for every registered
// stepper, keyed by stepper name.
func (s *Server) snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]any, len(s.steppers))
	for name, sk := range s.steppers {
		out[name] = map[string]any{
			"commanded_pos":   sk.GetCommandedPos(),
			"last_flush_time": sk.GetLastFlushTime(),
			"step_dist":       sk.GetStepDist(),
			"active":          sk.GetLastFlushTime() > 0,
		}
	}
	return out
}

func (s *Server) handleObjectsList(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	names := make([]string, 0, len(s.steppers))
	for name := range s.steppers {
		names = append(names, name)
	}
	s.mu.RUnlock()
	writeJSON(w, map[string]any{"objects": names})
}

func (s *Server) handleObjectsQuery(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"eventtime": time.Since(s.startTime).Seconds(),
		"status":    s.snapshot(),
	})
}

type client struct {
	id     int64
	conn   *websocket.Conn
	sendCh chan any
	done   chan struct{}
	mu     sync.Mutex
}

func (c *client) send(msg any) {
	select {
	case c.sendCh <- msg:
	case <-c.done:
	default:
		logger.WithField("client_id", c.id).Warn("dropping message, channel full")
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case <-c.done:
		return
	default:
		close(c.done)
	}
	c.conn.Close()
}

func (c *client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.close()
	}()
	for {
		select {
		case msg, ok := <-c.sendCh:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithError(err).Error("websocket upgrade failed")
		return
	}

	s.clientsMu.Lock()
	s.nextID++
	c := &client{id: s.nextID, conn: conn, sendCh: make(chan any, 16), done: make(chan struct{})}
	s.clients[c.id] = c
	s.clientsMu.Unlock()

	go c.writePump()
	c.send(map[string]any{"jsonrpc": "2.0", "method": "notify_status_update", "params": []any{s.snapshot(), 0.0}})

	// drain reads so the connection's close is detected promptly
	go func() {
		defer func() {
			s.clientsMu.Lock()
			delete(s.clients, c.id)
			s.clientsMu.Unlock()
			c.close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// broadcastLoop pushes a motion_report snapshot to every connected client
// at a fixed rate.
func (s *Server) broadcastLoop() {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		s.clientsMu.RLock()
		clients := make([]*client, 0, len(s.clients))
		for _, c := range s.clients {
			clients = append(clients, c)
		}
		s.clientsMu.RUnlock()
		if len(clients) == 0 {
			continue
		}
		snap := s.snapshot()
		eventtime := time.Since(s.startTime).Seconds()
		notification := map[string]any{
			"jsonrpc": "2.0",
			"method":  "notify_status_update",
			"params":  []any{snap, eventtime},
		}
		for _, c := range clients {
			c.send(notification)
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
