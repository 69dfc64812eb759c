// Package stream is the display surface that forwards marker operations to
// browser overlays over WebSocket. Bookkeeping is delegated to the in-memory
// surface; every successful operation is broadcast to all subscribers, and
// new subscribers get the current marker set replayed on connect.
package stream

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/palworld-go/palmap/internal/surface"
)

const (
	sendChSize = 1024
	writeWait  = 10 * time.Second
)

// client is one connected overlay with a single write goroutine.
type client struct {
	conn   *ws.Conn
	sendCh chan []byte
	done   chan struct{}
	once   sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.WriteMessage(
			ws.CloseMessage,
			ws.FormatCloseMessage(ws.CloseNormalClosure, ""),
		)
		_ = c.conn.Close()
	})
}

// send pushes data to the client's write loop. Non-blocking; drops if full.
func (c *client) send(data []byte) {
	select {
	case c.sendCh <- data:
	case <-c.done:
	default:
	}
}

func (c *client) writeLoop(logger *slog.Logger, onDead func(*client)) {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.sendCh:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Warn("Overlay write deadline error", "error", err)
				onDead(c)
				return
			}
			if err := c.conn.WriteMessage(ws.TextMessage, data); err != nil {
				logger.Warn("Overlay write error", "error", err)
				onDead(c)
				return
			}
		}
	}
}

// readLoop drains client frames until the connection drops. Overlays send
// nothing meaningful; reading only services pings and detects closure.
func (c *client) readLoop(onDead func(*client)) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			onDead(c)
			return
		}
	}
}

// Surface broadcasts marker operations to overlay subscribers.
type Surface struct {
	mem    *surface.Memory
	logger *slog.Logger

	upgrader ws.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

// New creates a streaming surface. It is not ready until Open is called.
func New(logger *slog.Logger) *Surface {
	if logger == nil {
		logger = slog.Default()
	}
	return &Surface{
		mem:     surface.NewMemory(),
		logger:  logger,
		clients: make(map[*client]struct{}),
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Open marks the surface ready for drawing.
func (s *Surface) Open() {
	s.mem.Open()
}

// Ready reports whether the surface accepts drawing.
func (s *Surface) Ready() bool {
	return s.mem.Ready()
}

// ServeHTTP upgrades the request and subscribes the connection to marker
// operations, replaying the live marker set first.
func (s *Surface) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Overlay upgrade failed", "error", err)
		return
	}

	c := &client{
		conn:   conn,
		sendCh: make(chan []byte, sendChSize),
		done:   make(chan struct{}),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		c.close()
		return
	}
	s.clients[c] = struct{}{}
	replay := s.mem.Snapshot()
	s.mu.Unlock()

	// Replay before live ops so the overlay starts from the full marker set.
	for _, st := range replay {
		if data, err := marshalEnvelope(TypeCreate, payloadFor(st.Handle, st.Marker, st.Attached)); err == nil {
			c.send(data)
		}
	}

	go c.writeLoop(s.logger, s.drop)
	go c.readLoop(s.drop)

	s.logger.Info("Overlay subscribed", "remote", conn.RemoteAddr().String(), "markers", len(replay))
}

func (s *Surface) drop(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	c.close()
}

// broadcast sends one operation to every subscriber. Fire-and-forget.
func (s *Surface) broadcast(msgType string, payload any) {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		s.logger.Error("Marshal overlay message failed", "type", msgType, "error", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.send(data)
	}
}

func payloadFor(h surface.Handle, m surface.Marker, attached bool) MarkerPayload {
	return MarkerPayload{
		Handle:   uint64(h),
		Label:    m.Label,
		Category: string(m.Category),
		X:        m.Position.X,
		Y:        m.Position.Y,
		Attached: attached,
	}
}

// Create allocates a marker and announces it.
func (s *Surface) Create(m surface.Marker) (surface.Handle, error) {
	h, err := s.mem.Create(m)
	if err != nil {
		return 0, err
	}
	s.broadcast(TypeCreate, payloadFor(h, m, true))
	return h, nil
}

// Update repositions a marker in place and announces the change.
func (s *Surface) Update(h surface.Handle, m surface.Marker) error {
	if err := s.mem.Update(h, m); err != nil {
		return err
	}
	s.broadcast(TypeUpdate, payloadFor(h, m, s.mem.Attached(h)))
	return nil
}

// Attach shows a marker.
func (s *Surface) Attach(h surface.Handle) error {
	already := s.mem.Attached(h)
	if err := s.mem.Attach(h); err != nil {
		return err
	}
	if !already {
		s.broadcast(TypeAttach, MarkerPayload{Handle: uint64(h), Attached: true})
	}
	return nil
}

// Detach hides a marker without destroying it.
func (s *Surface) Detach(h surface.Handle) error {
	wasAttached := s.mem.Attached(h)
	if err := s.mem.Detach(h); err != nil {
		return err
	}
	if wasAttached {
		s.broadcast(TypeDetach, MarkerPayload{Handle: uint64(h)})
	}
	return nil
}

// Remove destroys a marker.
func (s *Surface) Remove(h surface.Handle) error {
	if err := s.mem.Remove(h); err != nil {
		return err
	}
	s.broadcast(TypeRemove, MarkerPayload{Handle: uint64(h)})
	return nil
}

// Close disconnects all subscribers and destroys the surface.
func (s *Surface) Close() error {
	s.mu.Lock()
	s.closed = true
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.clients = make(map[*client]struct{})
	s.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
	return s.mem.Close()
}
