// Package realtime pushes new messages and notifications to connected
// clients. Each connection sits in its user's room and in any issue rooms it
// has joined.
package realtime

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activeConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tracker_live_connections",
		Help: "Open live connections.",
	})
	droppedFrames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracker_live_dropped_frames_total",
		Help: "Frames dropped because a connection's send queue was full.",
	})
)

// Frame is one outbound message
type Frame struct {
	Type    string      `json:"type"`
	Data    interface{} `json:"data,omitempty"`
	IssueID uint        `json:"issueId,omitempty"`
	Message string      `json:"message,omitempty"`
}

// UserRoom is the private room of a user
func UserRoom(userID uint) string {
	return fmt.Sprintf("user-%d", userID)
}

// IssueRoom is the room of an issue's message thread
func IssueRoom(issueID uint) string {
	return fmt.Sprintf("issue-%d", issueID)
}

type client struct {
	userID uint
	send   chan Frame
}

// enqueue never blocks: a slow client loses frames, not the publisher
func (c *client) enqueue(f Frame) bool {
	select {
	case c.send <- f:
		return true
	default:
		droppedFrames.Inc()
		return false
	}
}

// Hub tracks room membership
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*client]struct{}
	// membership per client, for cleanup on disconnect
	joined map[*client]map[string]struct{}
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		rooms:  make(map[string]map[*client]struct{}),
		joined: make(map[*client]map[string]struct{}),
	}
}

func (h *Hub) join(c *client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	if h.joined[c] == nil {
		h.joined[c] = make(map[string]struct{})
	}
	h.joined[c][room] = struct{}{}
}

func (h *Hub) leave(c *client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, room)
}

func (h *Hub) leaveLocked(c *client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	if rooms, ok := h.joined[c]; ok {
		delete(rooms, room)
	}
}

// remove drops a client from every room
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room := range h.joined[c] {
		h.leaveLocked(c, room)
	}
	delete(h.joined, c)
}

// RoomSize returns the number of connections in a room
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Broadcast queues a frame for every connection in room and returns how many accepted it
func (h *Hub) Broadcast(room string, f Frame) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for c := range h.rooms[room] {
		if c.enqueue(f) {
			delivered++
		}
	}
	return delivered
}

// PublishUser pushes an event to a user's private room
func (h *Hub) PublishUser(userID uint, event string, payload interface{}) {
	h.Broadcast(UserRoom(userID), Frame{Type: event, Data: payload})
}

// PublishIssue pushes an event to an issue's room
func (h *Hub) PublishIssue(issueID uint, event string, payload interface{}) {
	h.Broadcast(IssueRoom(issueID), Frame{Type: event, Data: payload, IssueID: issueID})
}
