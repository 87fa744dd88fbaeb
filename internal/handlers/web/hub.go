package web

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// conn wraps a websocket and serializes outbound writes through a buffered
// channel so room fan-out never blocks on a slow client.
type conn struct {
	participantID string
	roomID        int

	ws    *websocket.Conn
	send  chan []byte
	once  sync.Once
	close chan struct{}
}

func newConn(participantID string, roomID int, ws *websocket.Conn) *conn {
	return &conn{
		participantID: participantID,
		roomID:        roomID,
		ws:            ws,
		send:          make(chan []byte, 64),
		close:         make(chan struct{}),
	}
}

func (c *conn) start() {
	go c.writeLoop()
}

// Send enqueues payload for delivery. A full buffer closes the connection
// to keep backpressure bounded.
func (c *conn) Send(payload []byte) error {
	select {
	case <-c.close:
		return errors.New("connection closed")
	case c.send <- payload:
		return nil
	default:
		c.Close(websocket.CloseGoingAway, "send buffer full")
		return errors.New("connection buffer exceeded")
	}
}

// Close terminates the connection and stops the write loop
func (c *conn) Close(code int, reason string) {
	c.once.Do(func() {
		close(c.close)
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
		_ = c.ws.Close()
	})
}

func (c *conn) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.close:
			return
		case msg := <-c.send:
			if err := c.writeMessage(msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.writePing(); err != nil {
				return
			}
		}
	}
}

func (c *conn) writeMessage(payload []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.TextMessage, payload)
}

func (c *conn) writePing() error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.PingMessage, nil)
}

// hub tracks the live sockets per room. A room only ever holds the two
// paired participants; one socket per participant is enforced on attach.
type hub struct {
	mu    sync.RWMutex
	rooms map[int]map[string]*conn
}

func newHub() *hub {
	return &hub{
		rooms: make(map[int]map[string]*conn),
	}
}

// Attach registers a connection in its room, replacing any previous socket
// for the same participant.
func (h *hub) Attach(c *conn) {
	var previous *conn

	h.mu.Lock()
	room := h.rooms[c.roomID]
	if room == nil {
		room = make(map[string]*conn)
		h.rooms[c.roomID] = room
	}
	if existing := room[c.participantID]; existing != nil {
		previous = existing
	}
	room[c.participantID] = c
	h.mu.Unlock()

	c.start()

	if previous != nil {
		previous.Close(4001, "session replaced")
	}
}

// Detach removes a connection if it is still the one tracked for its
// participant
func (h *hub) Detach(c *conn) {
	h.mu.Lock()
	room := h.rooms[c.roomID]
	if room != nil && room[c.participantID] == c {
		delete(room, c.participantID)
		if len(room) == 0 {
			delete(h.rooms, c.roomID)
		}
	}
	h.mu.Unlock()
}

// Broadcast writes payload to every member of the room except the excluded
// participant, returning the delivered count.
func (h *hub) Broadcast(roomID int, payload []byte, excludeParticipantID string) int {
	h.mu.RLock()
	room := h.rooms[roomID]
	delivered := 0
	for _, c := range room {
		if c.participantID == excludeParticipantID {
			continue
		}
		if err := c.Send(payload); err == nil {
			delivered++
		}
	}
	h.mu.RUnlock()
	return delivered
}

// CloseRoom terminates every socket in the room
func (h *hub) CloseRoom(roomID int, reason string) {
	h.mu.Lock()
	room := h.rooms[roomID]
	conns := make([]*conn, 0, len(room))
	for _, c := range room {
		conns = append(conns, c)
	}
	delete(h.rooms, roomID)
	h.mu.Unlock()

	for _, c := range conns {
		c.Close(websocket.CloseNormalClosure, reason)
	}
}

// Close terminates all tracked connections
func (h *hub) Close() {
	h.mu.Lock()
	conns := make([]*conn, 0)
	for _, room := range h.rooms {
		for _, c := range room {
			conns = append(conns, c)
		}
	}
	h.rooms = make(map[int]map[string]*conn)
	h.mu.Unlock()

	for _, c := range conns {
		c.Close(websocket.CloseGoingAway, "server shutdown")
	}
}
