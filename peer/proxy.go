package peer

import (
	"context"
	"net"
	"time"

	"github.com/btcsuite/go-socks/socks"
)

// ProxyDialer dials peers through a SOCKS5 proxy such as tor.
type ProxyDialer struct {
	proxy *socks.Proxy
}

// NewProxyDialer returns a Dialer for the proxy at addr. With torIsolation set
// every connection uses fresh random credentials, so tor builds a separate
// circuit for each peer.
func NewProxyDialer(addr, username, password string, torIsolation bool) *ProxyDialer {
	return &ProxyDialer{
		proxy: &socks.Proxy{
			Addr:         addr,
			Username:     username,
			Password:     password,
			TorIsolation: torIsolation,
		},
	}
}

// DialContext connects to address through the proxy. The proxy client has no
// context support, so the dial is bounded by the context deadline and abandoned
// on cancellation.
func (d *ProxyDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	type result struct {
		conn net.Conn
		err  error
	}

	timeout := time.Duration(0)

	if deadline, ok := ctx.Deadline(); ok {
		if timeout = time.Until(deadline); timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	done := make(chan result, 1)

	go func() {
		var r result

		if timeout > 0 {
			r.conn, r.err = d.proxy.DialTimeout(network, address, timeout)
		} else {
			r.conn, r.err = d.proxy.Dial(network, address)
		}

		done <- r
	}()

	select {
	case r := <-done:
		return r.conn, r.err
	case <-ctx.Done():
		// close whatever the abandoned dial produces
		go func() {
			if r := <-done; r.conn != nil {
				_ = r.conn.Close()
			}
		}()

		return nil, ctx.Err()
	}
}
