package meshstream

import (
	"log"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"voxel-engine/internal/meshing"
	"voxel-engine/internal/render"
	"voxel-engine/internal/world"
)

const (
	writeTimeout = 5 * time.Second
	clientQueue  = 1024
)

type client struct {
	conn *websocket.Conn
	out  chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.out) })
}

// Server is a render.Surface that streams mesh frames to WebSocket viewers.
// New viewers first receive the current mesh of every visible handle.
type Server struct {
	log      *log.Logger
	upgrader websocket.Upgrader

	mu       sync.Mutex
	clients  map[*client]struct{}
	snapshot map[int][]byte
}

func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		clients:  make(map[*client]struct{}),
		snapshot: make(map[int][]byte),
	}
}

func (s *Server) Apply(h *render.Handle, origin world.Coord, mesh *meshing.MeshData) {
	frame := EncodeApply(h.ID, origin, mesh)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot[h.ID] = frame
	s.broadcast(frame)
}

func (s *Server) Clear(h *render.Handle) {
	frame := EncodeClear(h.ID)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshot, h.ID)
	s.broadcast(frame)
}

// broadcast queues frame for every client; s.mu must be held. A client whose
// queue is full is disconnected.
func (s *Server) broadcast(frame []byte) {
	for c := range s.clients {
		select {
		case c.out <- frame:
		default:
			s.log.Printf("meshstream: dropping slow viewer %s", c.conn.RemoteAddr())
			delete(s.clients, c)
			c.close()
		}
	}
}

// Clients is the number of connected viewers.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// register adds a client for conn with the snapshot queued in handle order.
func (s *Server) register(conn *websocket.Conn) *client {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &client{conn: conn, out: make(chan []byte, len(s.snapshot)+clientQueue)}
	ids := make([]int, 0, len(s.snapshot))
	for id := range s.snapshot {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		c.out <- s.snapshot[id]
	}
	s.clients[c] = struct{}{}
	return c
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		c.close()
	}
}

// Handler upgrades viewers and streams frames until they disconnect.
func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		c := s.register(conn)
		defer s.unregister(c)
		s.log.Printf("meshstream: viewer %s connected", conn.RemoteAddr())

		done := make(chan struct{})
		go func() {
			defer close(done)
			for b := range c.out {
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
					return
				}
			}
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))
		}()

		// Viewers only listen; reading drives ping/pong and close detection.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		s.unregister(c)
		select {
		case <-done:
		case <-time.After(500 * time.Millisecond):
		}
		s.log.Printf("meshstream: viewer %s disconnected", conn.RemoteAddr())
	}
}

// Close disconnects every viewer.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		delete(s.clients, c)
		c.close()
	}
}
