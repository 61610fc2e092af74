package socks

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/netmix/egressd/internal/health"
	"github.com/netmix/egressd/internal/selector"
)

// dialer abstracts the outbound TCP dial so tests can substitute a fake
// without touching the network. A real dialer binds the local endpoint
// to (localIP, port 0), forcing the kernel to route the connection out
// through that specific interface.
type dialer interface {
	DialFrom(ctx context.Context, localIP, network, addr string) (net.Conn, error)
}

// netDialer is the production dialer.
type netDialer struct{}

func (netDialer) DialFrom(ctx context.Context, localIP, network, addr string) (net.Conn, error) {
	d := &net.Dialer{LocalAddr: &net.TCPAddr{IP: net.ParseIP(localIP), Port: 0}}
	return d.DialContext(ctx, network, addr)
}

// dialResult is the outcome of a successful fallback loop.
type dialResult struct {
	conn      net.Conn
	ifaceName string
	localAddr *net.TCPAddr
}

// dialWithFallback asks the selector for the best interface against a
// working copy of the snapshot, tries to dial, and on failure records a
// synthetic failure in the working copy only before asking again — up
// to one attempt per interface. Each attempt gets its own fresh
// dialTimeout deadline, derived from parent, so a slow or hanging
// interface can't eat into the time budget of the interfaces tried
// after it.
func dialWithFallback(
	parent context.Context,
	dialTimeout time.Duration,
	sel selector.Selector,
	store *health.Store,
	d dialer,
	interfaces map[string]string, // name -> local IPv4
	destAddr string,
) (dialResult, error) {
	ws := selector.NewWorkingSet(store.Snapshot())
	attempts := ws.Len()

	var lastErr error
	tried := make(map[string]bool, attempts)
	for i := 0; i < attempts; i++ {
		name := ""
		for _, c := range sel.Rank(ws.Snapshot()) {
			if !tried[c.Name] {
				name = c.Name
				break
			}
		}
		if name == "" {
			break
		}
		tried[name] = true

		localIP, known := interfaces[name]
		if !known {
			// Interface vanished from the live enumeration map (should
			// not happen within this engine's lifecycle, but guards
			// against a malformed caller) — treat as a failed attempt.
			ws.RecordFailure(name)
			continue
		}

		conn, err := dialOne(parent, dialTimeout, d, localIP, destAddr)
		if err != nil {
			store.RecordFailure(name)
			ws.RecordFailure(name)
			lastErr = errors.Wrapf(err, "dial %s via %s", destAddr, name)
			continue
		}

		store.RecordSuccess(name)
		localAddr, ok := conn.LocalAddr().(*net.TCPAddr)
		if !ok {
			// Defensive: net.Dialer over "tcp" always yields *net.TCPAddr.
			conn.Close()
			store.RecordFailure(name)
			lastErr = errors.New("dial succeeded but local address was not TCP")
			continue
		}

		return dialResult{conn: conn, ifaceName: name, localAddr: localAddr}, nil
	}

	if lastErr == nil {
		return dialResult{}, ErrHostUnreachable
	}
	// dialWithFallback has exactly one failure mode for callers: every
	// interface was tried and none connected. The wrapped lastErr is
	// kept for logging; callers reply host-unreachable regardless.
	return dialResult{}, errors.Wrap(lastErr, ErrHostUnreachable.Error())
}

// dialOne runs a single dial attempt under its own dialTimeout deadline,
// independent of any previous attempt's deadline.
func dialOne(parent context.Context, dialTimeout time.Duration, d dialer, localIP, destAddr string) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(parent, dialTimeout)
	defer cancel()
	return d.DialFrom(ctx, localIP, "tcp", destAddr)
}

func joinHostPort(host string, port uint16) string {
	return net.JoinHostPort(host, strconv.Itoa(int(port)))
}
