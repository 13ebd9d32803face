package realtime

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestHubDropsWhenQueueFull(t *testing.T) {
	h := NewHub()
	c := &client{userID: 1, send: make(chan Frame, 1)}
	h.join(c, UserRoom(1))

	assert.Equal(t, 1, h.Broadcast(UserRoom(1), Frame{Type: "a"}))
	assert.Equal(t, 0, h.Broadcast(UserRoom(1), Frame{Type: "b"}))
	assert.Equal(t, "a", (<-c.send).Type)
}

func TestHubRemove(t *testing.T) {
	h := NewHub()
	a := &client{userID: 1, send: make(chan Frame, 4)}
	b := &client{userID: 2, send: make(chan Frame, 4)}
	h.join(a, UserRoom(1))
	h.join(a, IssueRoom(7))
	h.join(b, IssueRoom(7))

	h.remove(a)

	assert.Zero(t, h.RoomSize(UserRoom(1)))
	assert.Equal(t, 1, h.RoomSize(IssueRoom(7)))
	h.PublishIssue(7, "new-message", nil)
	f := <-b.send
	assert.Equal(t, "new-message", f.Type)
	assert.Equal(t, uint(7), f.IssueID)
}
