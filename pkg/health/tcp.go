package health

import (
	"context"
	"fmt"
	"net"
	"time"
)

// TCPChecker reports healthy when a TCP connection to the address
// succeeds. Good enough for services whose liveness is "the port is
// open", like databases and caches.
type TCPChecker struct {
	Address string
	Timeout time.Duration
}

// NewTCPChecker probes address ("host:port") with a 5s dial timeout
func NewTCPChecker(address string) *TCPChecker {
	return &TCPChecker{Address: address, Timeout: 5 * time.Second}
}

// WithTimeout overrides the dial timeout
func (t *TCPChecker) WithTimeout(timeout time.Duration) *TCPChecker {
	t.Timeout = timeout
	return t
}

func (t *TCPChecker) Check(ctx context.Context) Result {
	start := time.Now()
	dialer := net.Dialer{Timeout: t.Timeout}

	conn, err := dialer.DialContext(ctx, "tcp", t.Address)
	if err != nil {
		return Result{
			Message:   fmt.Sprintf("dial %s: %v", t.Address, err),
			CheckedAt: start,
			Duration:  time.Since(start),
		}
	}
	conn.Close()

	return Result{
		Healthy:   true,
		Message:   fmt.Sprintf("%s accepting connections", t.Address),
		CheckedAt: start,
		Duration:  time.Since(start),
	}
}

func (t *TCPChecker) Type() CheckType {
	return CheckTypeTCP
}
