package utils

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// PingHost opens and closes a TCP connection to host:port
func PingHost(host, port string, timeout time.Duration) error {
	address := net.JoinHostPort(host, port)

	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	defer conn.Close()

	return nil
}

// PingSMTP checks if the mail relay accepts connections
func PingSMTP(host string, port int) error {
	return PingHost(host, strconv.Itoa(port), 1500*time.Millisecond)
}
