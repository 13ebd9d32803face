package utils

import (
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPingHost(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port

	assert.NoError(t, PingHost("127.0.0.1", strconv.Itoa(port), time.Second))
	assert.NoError(t, PingSMTP("127.0.0.1", port))

	require.NoError(t, ln.Close())
	assert.Error(t, PingHost("127.0.0.1", strconv.Itoa(port), 200*time.Millisecond))
}
