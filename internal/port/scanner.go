package port

import (
	"fmt"
	"net"
)

// maxSuggestScan bounds how far FindAvailablePort looks above a busy port.
const maxSuggestScan = 100

// Scanner checks whether TCP ports are free on the host by binding them
// briefly. Binding asks the OS directly, so no elevated permissions or
// external tools (lsof, ss) are needed.
type Scanner struct {
	// host is the bind address; empty means all interfaces, which is where
	// `docker run -p` publishes ports.
	host string
}

// NewScanner creates a Scanner that probes all interfaces.
func NewScanner() *Scanner {
	return &Scanner{}
}

// IsPortAvailable reports whether port can be bound for TCP.
func (s *Scanner) IsPortAvailable(port int) bool {
	if port < 1 || port > 65535 {
		return false
	}
	listener, err := net.Listen("tcp", net.JoinHostPort(s.host, fmt.Sprint(port)))
	if err != nil {
		return false
	}
	_ = listener.Close()
	return true
}

// FindAvailablePort returns the first free port in [start, end].
func (s *Scanner) FindAvailablePort(start, end int) (int, error) {
	for port := start; port <= end && port <= 65535; port++ {
		if s.IsPortAvailable(port) {
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available tcp port found in range %d-%d", start, end)
}

// Suggest returns port itself when it is free. Otherwise it looks for the
// next free port above it and reports busy=true.
func (s *Scanner) Suggest(port int) (suggested int, busy bool, err error) {
	if s.IsPortAvailable(port) {
		return port, false, nil
	}
	next, err := s.FindAvailablePort(port+1, port+maxSuggestScan)
	if err != nil {
		return 0, true, err
	}
	return next, true, nil
}
