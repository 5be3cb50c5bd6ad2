package directory

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Endpoint is a directory host and port.
type Endpoint struct {
	Host string
	Port int
}

func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// ParseEndpoint parses "host:port" or a bare "host", in which case defaultPort is used.
func ParseEndpoint(s string, defaultPort int) (Endpoint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Endpoint{}, ErrHostEmpty
	}

	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		// no port given
		return Endpoint{Host: strings.Trim(s, "[]"), Port: defaultPort}, nil //nolint:nilerr
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return Endpoint{}, fmt.Errorf("invalid port in endpoint %q", s)
	}

	return Endpoint{Host: host, Port: port}, nil
}

// Prober checks raw reachability of a host and port.
type Prober interface {
	Probe(host string, port int, timeout time.Duration) bool
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(host string, port int, timeout time.Duration) bool

// Probe calls f.
func (f ProberFunc) Probe(host string, port int, timeout time.Duration) bool {
	return f(host, port, timeout)
}

// TCPProber probes by opening a TCP connection.
type TCPProber struct{}

// Probe reports whether the port accepts a connection within timeout.
// The connection is closed right away.
func (TCPProber) Probe(host string, port int, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(port)), timeout)
	if err != nil {
		return false
	}

	_ = conn.Close()

	return true
}
