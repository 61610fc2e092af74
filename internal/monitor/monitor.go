// Package monitor drives the periodic latency probing: for each tracked
// interface, dial a fixed target bound to that interface's local
// address, measure elapsed time, and record the result into the Health
// Store. A ticker-driven loop with a cooperative stop channel and a
// joinable goroutine probes interfaces one at a time, sequentially,
// within a round rather than fanning them out concurrently.
package monitor

import (
	"context"
	"log"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/netmix/egressd/internal/health"
	"github.com/netmix/egressd/internal/obslog"
	"github.com/netmix/egressd/internal/overlay"
)

// Default probe parameters.
const (
	DefaultProbeHost    = "www.google.com"
	DefaultProbePort    = 80
	DefaultTimeout      = 3 * time.Second
	DefaultPeriod       = 10 * time.Second
	DefaultOutageBackoff = 60 * time.Second
)

// Config controls probe behavior.
type Config struct {
	ProbeHost string
	ProbePort int
	Timeout   time.Duration
	Period    time.Duration
	// OutageBackoff is the pause taken after a round where every
	// interface returned the failure sentinel.
	OutageBackoff time.Duration
}

func (c *Config) applyDefaults() {
	if c.ProbeHost == "" {
		c.ProbeHost = DefaultProbeHost
	}
	if c.ProbePort == 0 {
		c.ProbePort = DefaultProbePort
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Period <= 0 {
		c.Period = DefaultPeriod
	}
	if c.OutageBackoff <= 0 {
		c.OutageBackoff = DefaultOutageBackoff
	}
}

// Monitor periodically probes every interface in interfaces and records
// results into store.
type Monitor struct {
	store      *health.Store
	interfaces []namedAddr
	cfg        Config
	overlay    overlay.Resolver // optional, may be nil
	log        obslog.Writer    // optional, defaults to NopWriter

	// dialFunc is overridable for tests; defaults to a real TCP dial
	// bound to the interface's local address.
	dialFunc func(ctx context.Context, localIP, target string) error

	stop chan struct{}
	wg   sync.WaitGroup
}

type namedAddr struct {
	name string
	ip   string
}

// New builds a Monitor over the given interface enumeration (name ->
// IPv4). cfg zero-values fall back to their documented defaults.
func New(store *health.Store, interfaces map[string]string, cfg Config, resolver overlay.Resolver, logWriter obslog.Writer) *Monitor {
	cfg.applyDefaults()
	if logWriter == nil {
		logWriter = obslog.NopWriter{}
	}

	names := make([]namedAddr, 0, len(interfaces))
	for name, ip := range interfaces {
		names = append(names, namedAddr{name: name, ip: ip})
	}

	m := &Monitor{
		store:      store,
		interfaces: names,
		cfg:        cfg,
		overlay:    resolver,
		log:        logWriter,
		stop:       make(chan struct{}),
	}
	m.dialFunc = m.defaultDial
	return m
}

// Start launches the background probing goroutine.
func (m *Monitor) Start() {
	m.wg.Add(1)
	go m.loop()
}

// Stop signals the monitor to exit at its next between-probes check and
// waits for it to do so. In-flight probes run to their timeout rather
// than being aborted mid-flight.
func (m *Monitor) Stop() {
	close(m.stop)
	m.wg.Wait()
}

func (m *Monitor) loop() {
	defer m.wg.Done()
	for {
		allFailed := m.RunRound()

		var wait time.Duration
		if allFailed && len(m.interfaces) > 0 {
			log.Printf("[monitor] %v; backing off %s", ErrAllInterfacesFailed, m.cfg.OutageBackoff)
			wait = m.cfg.OutageBackoff
		} else {
			wait = m.cfg.Period
		}

		select {
		case <-time.After(wait):
		case <-m.stop:
			return
		}

		select {
		case <-m.stop:
			return
		default:
		}
	}
}

// RunRound probes every interface once, in enumeration order, and
// reports whether every interface in the round failed (used to decide
// whether to apply the outage backoff). It is exported so a supervisor
// can force an initial round synchronously before serving traffic.
func (m *Monitor) RunRound() bool {
	if len(m.interfaces) == 0 {
		return false
	}

	failed := 0
	for _, ia := range m.interfaces {
		select {
		case <-m.stop:
			return false
		default:
		}

		before, _ := m.store.One(ia.name)
		latency := m.probeOne(ia)
		m.store.RecordProbe(ia.name, latency)

		if latency >= health.FailureSentinel {
			failed++
		}

		if err := m.log.Write(obslog.Row{
			Timestamp:   time.Now(),
			Interface:   ia.name,
			Latency:     latency,
			Successes:   before.Successes,
			Failures:    before.Failures,
			ActiveConns: before.ActiveConns,
		}); err != nil {
			log.Printf("[monitor] observation log write failed for %s: %v", ia.name, err)
		}
	}
	return failed == len(m.interfaces)
}

// probeOne measures the latency of one interface, applying the overlay
// gateway substitution when configured and resolvable.
func (m *Monitor) probeOne(ia namedAddr) float64 {
	target := net.JoinHostPort(m.cfg.ProbeHost, strconv.Itoa(m.cfg.ProbePort))

	if m.overlay != nil {
		if networkID, ok := overlay.NetworkIDFromName(ia.name); ok {
			if gateway, ok := m.overlay.GatewayFor(networkID); ok {
				target = net.JoinHostPort(gateway, strconv.Itoa(m.cfg.ProbePort))
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.Timeout)
	defer cancel()

	start := time.Now()
	err := m.dialFunc(ctx, ia.ip, target)
	elapsed := time.Since(start)

	if err != nil {
		return health.FailureSentinel
	}
	return float64(elapsed.Microseconds()) / 1000.0
}

func (m *Monitor) defaultDial(ctx context.Context, localIP, target string) error {
	localAddr := &net.TCPAddr{IP: net.ParseIP(localIP), Port: 0}
	dialer := &net.Dialer{LocalAddr: localAddr}
	conn, err := dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		return errors.Wrapf(err, "probe dial %s via %s", target, localIP)
	}
	return conn.Close()
}
