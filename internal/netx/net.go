// Package netx provides connectivity probing for the sync engine. The engine
// only drains its upload queue when the backend looks reachable; the probe is
// intentionally cheap and best-effort.
package netx

import (
	"context"
	"net"
	"net/url"
	"time"
)

// DefaultProbeTimeout bounds a single reachability check.
const DefaultProbeTimeout = 5 * time.Second

// IsReachable reports whether a TCP connection to the host of baseURL can be
// established within timeout. Scheme defaults decide the port when the URL
// carries none.
func IsReachable(ctx context.Context, baseURL string, timeout time.Duration) bool {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return false
	}

	host := u.Host
	if u.Port() == "" {
		port := "80"
		if u.Scheme == "https" {
			port = "443"
		}
		host = net.JoinHostPort(u.Hostname(), port)
	}

	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", host)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
