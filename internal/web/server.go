// Package web serves the task list to browsers.
//
// The page at / is rendered server-side and works without JavaScript through
// plain form posts. Connected pages also open a WebSocket at /ws and re-render
// whenever the session publishes a new snapshot, so changes made from another
// tab, the CLI, or the TUI show up live.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/mschirtzinger/taskmgr/internal/session"
)

// MessageType defines the type of a WebSocket message.
type MessageType string

const (
	// MessageTypeSnapshot carries the full session state.
	MessageTypeSnapshot MessageType = "snapshot"
)

// Message is sent to every connected WebSocket client.
type Message struct {
	Type      MessageType      `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Data      session.Snapshot `json:"data"`
}

// Server manages HTTP routes, WebSocket connections and snapshot broadcasts.
type Server struct {
	addr     string
	listener net.Listener
	server   *http.Server
	session  *session.Session

	// WebSocket client management
	clients   map[*websocket.Conn]bool
	clientsMu sync.RWMutex

	broadcast   chan session.Snapshot
	unsubscribe func()

	// Lifecycle management
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *log.Logger
}

// Config holds server configuration.
type Config struct {
	// Addr to listen on (default: "localhost:8080"). Use port 0 for a random port.
	Addr string

	// Logger for server activity (default: stderr logger)
	Logger *log.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Addr:   "localhost:8080",
		Logger: log.Default(),
	}
}

// NewServer creates a server for sess.
func NewServer(sess *session.Session, config *Config) *Server {
	defaults := DefaultConfig()
	if config == nil {
		config = defaults
	}
	addr := config.Addr
	if addr == "" {
		addr = defaults.Addr
	}
	logger := config.Logger
	if logger == nil {
		logger = defaults.Logger
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		addr:      addr,
		session:   sess,
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan session.Snapshot, 100),
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger,
	}
}

// Handler returns the HTTP routes without starting a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /tasks", s.handleAdd)
	mux.HandleFunc("POST /tasks/{index}/toggle", s.handleToggle)
	mux.HandleFunc("POST /tasks/{index}/delete", s.handleDelete)
	mux.HandleFunc("GET /api/tasks", s.handleAPITasks)
	mux.HandleFunc("POST /api/actions", s.handleAPIAction)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// Start begins the HTTP server and the broadcast loop.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln

	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.unsubscribe = s.session.Subscribe(s.Broadcast)

	s.wg.Add(1)
	go s.broadcastLoop()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Printf("Task manager listening on http://%s", ln.Addr())
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Printf("Server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	s.logger.Println("Stopping server")

	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.cancel()

	s.clientsMu.Lock()
	for conn := range s.clients {
		_ = conn.Close(websocket.StatusGoingAway, "Server shutting down")
		delete(s.clients, conn)
	}
	s.clientsMu.Unlock()

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	s.wg.Wait()

	s.logger.Println("Server stopped")
	return nil
}

// Broadcast queues snap for every connected client. It never blocks.
func (s *Server) Broadcast(snap session.Snapshot) {
	select {
	case s.broadcast <- snap:
	case <-s.ctx.Done():
		return
	default:
		s.logger.Println("Warning: broadcast channel full, dropping snapshot")
	}
}

func (s *Server) broadcastLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return

		case snap := <-s.broadcast:
			data, err := encodeSnapshot(snap)
			if err != nil {
				s.logger.Printf("Failed to marshal snapshot: %v", err)
				continue
			}

			s.clientsMu.RLock()
			clients := make([]*websocket.Conn, 0, len(s.clients))
			for conn := range s.clients {
				clients = append(clients, conn)
			}
			s.clientsMu.RUnlock()

			for _, conn := range clients {
				if err := s.write(conn, data); err != nil {
					s.logger.Printf("Failed to send to client: %v", err)
					s.removeClient(conn)
				}
			}
		}
	}
}

func encodeSnapshot(snap session.Snapshot) ([]byte, error) {
	return json.Marshal(Message{
		Type:      MessageTypeSnapshot,
		Timestamp: time.Now(),
		Data:      snap,
	})
}

func (s *Server) write(conn *websocket.Conn, data []byte) error {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}

// handleWebSocket upgrades the connection and sends the current snapshot.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	s.clientsMu.Lock()
	s.clients[conn] = true
	clientCount := len(s.clients)
	s.clientsMu.Unlock()

	s.logger.Printf("Client connected (total: %d)", clientCount)

	if data, err := encodeSnapshot(s.session.Snapshot()); err == nil {
		_ = s.write(conn, data)
	}

	go s.readLoop(conn)
}

// readLoop detects client disconnects; client messages are ignored.
func (s *Server) readLoop(conn *websocket.Conn) {
	defer s.removeClient(conn)

	for {
		if _, _, err := conn.Read(s.ctx); err != nil {
			return
		}
	}
}

func (s *Server) removeClient(conn *websocket.Conn) {
	s.clientsMu.Lock()
	if _, exists := s.clients[conn]; exists {
		delete(s.clients, conn)
		clientCount := len(s.clients)
		s.clientsMu.Unlock()

		_ = conn.Close(websocket.StatusNormalClosure, "")
		s.logger.Printf("Client disconnected (total: %d)", clientCount)
	} else {
		s.clientsMu.Unlock()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"clients": s.ClientCount(),
	})
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// ClientCount returns the current number of connected clients.
func (s *Server) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}
