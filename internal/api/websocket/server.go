package websocket

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/fortuna/standings/internal/standings"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server streams rendered standings to WebSocket listeners
type Server struct {
	server *http.Server
	hub    *Hub
}

// NewServer creates a new WebSocket server and starts its hub
func NewServer() *Server {
	hub := NewHub()
	go hub.Run()

	return &Server{hub: hub}
}

// Handler returns the WebSocket routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/standings", s.handleStandings)
	mux.HandleFunc("/ws/health", s.handleHealth)
	return mux
}

// Start starts the WebSocket server
func (s *Server) Start(port string) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("WebSocket server listening on :%s", port)
	return s.server.ListenAndServe()
}

// handleStandings upgrades the connection; ?league=<key> limits frames to one league
func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] Failed to upgrade connection: %v", err)
		return
	}

	client := &Client{
		hub:    s.hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		league: r.URL.Query().Get("league"),
	}

	if !s.hub.add(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// handleHealth returns WebSocket server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "healthy", "clients": %d}`, s.hub.ClientCount())
}

// BroadcastStandings sends one frame per message to every listener of the league
func (s *Server) BroadcastStandings(leagueKey string, messages []standings.Message) {
	now := time.Now().Unix()
	for i, msg := range messages {
		s.hub.Broadcast(&Frame{
			Type:      string(msg.Kind),
			LeagueKey: leagueKey,
			Position:  i,
			Text:      msg.Text,
			Timestamp: now,
		})
	}
}

// ClientCount returns the number of connected listeners
func (s *Server) ClientCount() int {
	return s.hub.ClientCount()
}

// Shutdown gracefully shuts down the server and disconnects clients
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
