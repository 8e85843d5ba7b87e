package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/websocket"
)

const (
	writeTimeout = 5 * time.Second
	sendBuffer   = 32
)

type wsPeer struct {
	conn      *websocket.Conn
	send      chan Frame
	done      chan struct{}
	closeOnce sync.Once
}

func newWSPeer(conn *websocket.Conn) *wsPeer {
	return &wsPeer{
		conn: conn,
		send: make(chan Frame, sendBuffer),
		done: make(chan struct{}),
	}
}

// enqueue hands frame to the peer's writer without blocking.
// It reports false when the peer is closed or its buffer is full.
func (p *wsPeer) enqueue(frame Frame) bool {
	select {
	case <-p.done:
		return false
	default:
	}
	select {
	case p.send <- frame:
		return true
	default:
		return false
	}
}

// writeLoop drains the send buffer onto the socket until the peer closes.
func (p *wsPeer) writeLoop() {
	encoder := json.NewEncoder(p.conn)
	for {
		select {
		case <-p.done:
			return
		case frame := <-p.send:
			if err := p.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				p.close()
				return
			}
			if err := encoder.Encode(frame); err != nil {
				p.close()
				return
			}
		}
	}
}

func (p *wsPeer) close() {
	p.closeOnce.Do(func() {
		close(p.done)
		if p.conn != nil {
			_ = p.conn.Close()
		}
	})
}

// Hub keeps the set of connected websocket clients and broadcasts events to all of them.
type Hub struct {
	mu    sync.Mutex
	peers map[*wsPeer]struct{}
	log   logrus.FieldLogger
}

func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{peers: make(map[*wsPeer]struct{}), log: log}
}

// RegisterRoutes mounts the event stream.
func (h *Hub) RegisterRoutes(r *chi.Mux) {
	r.Method(http.MethodGet, "/ws", h.Handler()) // GET /ws
}

// Handler upgrades the request and streams frames until the client disconnects.
func (h *Hub) Handler() http.Handler {
	return websocket.Handler(h.serve)
}

// Publish queues the event for every peer and returns without waiting on the network.
// Peers whose send buffer is full are dropped.
func (h *Hub) Publish(_ context.Context, event string, payload any) error {
	frame, err := newFrame(event, payload)
	if err != nil {
		return err
	}

	for _, p := range h.snapshot() {
		if !p.enqueue(frame) {
			h.log.WithField("event", event).Debug("dropping slow websocket peer")
			h.remove(p)
			p.close()
		}
	}
	return nil
}

// PeerCount returns the number of connected clients.
func (h *Hub) PeerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

func (h *Hub) serve(conn *websocket.Conn) {
	defer conn.Close()

	p := newWSPeer(conn)
	h.add(p)
	defer h.remove(p)
	defer p.close()
	go p.writeLoop()

	// clients only listen; inbound frames are read and discarded to detect disconnects
	buf := make([]byte, 512)
	for {
		if _, err := conn.Read(buf); err != nil {
			return
		}
	}
}

func (h *Hub) add(p *wsPeer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.peers[p] = struct{}{}
}

func (h *Hub) remove(p *wsPeer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.peers, p)
}

func (h *Hub) snapshot() []*wsPeer {
	h.mu.Lock()
	defer h.mu.Unlock()
	peers := make([]*wsPeer, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
	}
	return peers
}
