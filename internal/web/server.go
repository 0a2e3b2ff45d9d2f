// Package web streams the visualizer's bar state to browsers.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	apppkg "github.com/guidoenr/equalizer/internal/app"
	"github.com/guidoenr/equalizer/internal/bands"
)

// Info describes the session being visualized.
type Info struct {
	Input      string      `json:"input"`
	Output     string      `json:"output"`
	SampleRate int         `json:"sampleRate"`
	Channels   int         `json:"channels"`
	Duration   float64     `json:"duration"`
	NumBars    int         `json:"numBars"`
	Gains      bands.Gains `json:"gains"`
}

// StatusResponse is served by /api/status.
type StatusResponse struct {
	Info  Info                    `json:"info"`
	Bands [bands.NumRanges]string `json:"bands"`
	Frame *apppkg.Frame           `json:"frame,omitempty"`
}

// Server serves the status endpoint and broadcasts frames over websockets.
type Server struct {
	mu        sync.RWMutex
	info      Info
	lastFrame *apppkg.Frame
	clients   map[*websocketClient]bool
	upgrader  websocket.Upgrader
	log       *log.Logger
}

type websocketClient struct {
	conn   *websocket.Conn
	send   chan []byte
	server *Server
}

// NewServer creates a Server for the given session.
func NewServer(info Info, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		info:    info,
		clients: make(map[*websocketClient]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: logger,
	}
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Start listens on addr and relays frames until ctx is done or frames is closed.
func (s *Server) Start(ctx context.Context, addr string, frames <-chan apppkg.Frame) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go s.Relay(ctx, frames)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Printf("[web] server starting on http://%s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Relay records and broadcasts every frame received from frames.
func (s *Server) Relay(ctx context.Context, frames <-chan apppkg.Frame) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			s.Publish(frame)
		}
	}
}

// Publish stores frame as the latest state and sends it to every client.
// Clients that cannot keep up are dropped.
func (s *Server) Publish(frame apppkg.Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		s.log.Printf("[web] encode frame: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFrame = &frame
	for client := range s.clients {
		select {
		case client.send <- data:
		default:
			close(client.send)
			delete(s.clients, client)
		}
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.RLock()
	status := StatusResponse{
		Info:  s.info,
		Bands: bands.Labels,
		Frame: s.lastFrame,
	}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		s.log.Printf("[web] encode status: %v", err)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Printf("[web] websocket upgrade error: %v", err)
		return
	}

	client := &websocketClient{
		conn:   conn,
		send:   make(chan []byte, 64),
		server: s,
	}

	s.mu.Lock()
	s.clients[client] = true
	s.mu.Unlock()

	go client.writePump()
	go client.readPump()
}

func (s *Server) removeClient(c *websocketClient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clients[c] {
		delete(s.clients, c)
		close(c.send)
	}
}

func (c *websocketClient) readPump() {
	defer func() {
		c.server.removeClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *websocketClient) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
