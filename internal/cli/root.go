// Package cli implements the egressd command line using Cobra: a
// package-level rootCmd, an init() that wires flags, and a run() that
// builds and starts every component before blocking on an OS signal.
package cli

import (
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/netmix/egressd/internal/config"
	"github.com/netmix/egressd/internal/dashboard/tui"
	"github.com/netmix/egressd/internal/dashboard/web"
	"github.com/netmix/egressd/internal/health"
	"github.com/netmix/egressd/internal/iface"
	"github.com/netmix/egressd/internal/monitor"
	"github.com/netmix/egressd/internal/obslog"
	"github.com/netmix/egressd/internal/overlay"
	"github.com/netmix/egressd/internal/overlay/zerotier"
	"github.com/netmix/egressd/internal/selector"
	"github.com/netmix/egressd/internal/socks"
)

// version is injected at build time via ldflags.
var version = "dev"

var (
	flagConfigFile string

	flagListenHost string
	flagListenPort int

	flagTUIDashboard bool
	flagWebDashboard string
)

var rootCmd = &cobra.Command{
	Use:   "egressd",
	Short: "Multi-homed SOCKS5 egress proxy with per-interface health tracking",
	Long: `egressd — a SOCKS5 proxy that dials outbound connections from whichever
local network interface is currently healthiest.

It probes every enumerated interface on a fixed schedule, scores them with
a pluggable selector (a latency/success-rate heuristic, or a trained
logistic model), and falls back to the next-best interface on the fly
when a dial through the chosen one fails.
`,
	Version:      version,
	SilenceUsage: true,
	RunE:         run,
}

// Execute is the entry point called from cmd/egressd/main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.Flags()

	f.StringVarP(&flagConfigFile, "config", "c", "", "Path to YAML config file (required)")
	_ = rootCmd.MarkFlagRequired("config")

	f.StringVar(&flagListenHost, "listen-host", "", "Override listen_host from the config file")
	f.IntVar(&flagListenPort, "listen-port", 0, "Override listen_port from the config file")

	f.BoolVar(&flagTUIDashboard, "tui", false, "Force-enable the terminal dashboard regardless of config")
	f.StringVar(&flagWebDashboard, "web-dashboard", "", "Override web_dashboard_addr from the config file")
}

func run(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfigFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlagOverrides(&cfg)

	interfaces, err := iface.Enumerate()
	if err != nil {
		return fmt.Errorf("enumerate interfaces: %w", err)
	}
	if len(interfaces) == 0 {
		return fmt.Errorf("no usable non-loopback IPv4 interfaces found")
	}

	names := make([]string, 0, len(interfaces))
	for name := range interfaces {
		names = append(names, name)
	}
	store := health.New(names, cfg.HistoryLength)

	sel, err := buildSelector(cfg)
	if err != nil {
		return fmt.Errorf("build selector: %w", err)
	}

	var logWriter obslog.Writer = obslog.NopWriter{}
	if cfg.ObservationLogEnabled {
		w, err := obslog.NewCSVWriter(cfg.ObservationLogPath)
		if err != nil {
			return fmt.Errorf("open observation log: %w", err)
		}
		defer w.Close()
		logWriter = w
	}

	var resolver overlay.Resolver
	if cfg.OverlayEnabled {
		zt := zerotier.New()
		if !zt.Available() {
			log.Printf("[init] overlay_enabled is set but zerotier-cli was not found; gateway substitution disabled")
		}
		resolver = zt
	}

	mon := monitor.New(store, interfaces, monitor.Config{
		ProbeHost:     cfg.ProbeHost,
		ProbePort:     cfg.ProbePort,
		Timeout:       time.Duration(cfg.ProbeTimeoutSeconds) * time.Second,
		Period:        time.Duration(cfg.ProbePeriodSeconds) * time.Second,
		OutageBackoff: time.Duration(cfg.OutageBackoffSeconds) * time.Second,
	}, resolver, logWriter)

	log.Printf("[init] running initial probe round (synchronous)")
	mon.RunRound()
	mon.Start()
	defer mon.Stop()

	socksSrv := socks.New(socks.Config{
		ListenHost:  cfg.ListenHost,
		ListenPort:  cfg.ListenPort,
		DialTimeout: time.Duration(cfg.DialTimeoutSeconds) * time.Second,
	}, store, sel, interfaces)

	srvErr := make(chan error, 1)
	go func() { srvErr <- socksSrv.Start() }()

	var webSrv *web.Server
	if cfg.WebDashboardAddr != "" {
		webSrv = web.New(cfg.WebDashboardAddr, store)
		go func() {
			log.Printf("[init] web dashboard listening on http://%s", cfg.WebDashboardAddr)
			if err := webSrv.Start(); err != nil && err != net.ErrClosed {
				log.Printf("[web] server stopped: %v", err)
			}
		}()
		defer webSrv.Stop()
	}

	if cfg.TUIDashboardEnabled {
		go func() {
			if err := tui.Run(store); err != nil {
				log.Printf("[tui] dashboard exited: %v", err)
			}
		}()
	}

	printBanner(cfg, interfaces)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("[init] received %s — shutting down", sig)
	case err := <-srvErr:
		if err != nil {
			log.Printf("[init] socks server error: %v", err)
		}
	}

	return socksSrv.Stop(5 * time.Second)
}

func applyFlagOverrides(cfg *config.Config) {
	if flagListenHost != "" {
		cfg.ListenHost = flagListenHost
	}
	if flagListenPort != 0 {
		cfg.ListenPort = flagListenPort
	}
	if flagTUIDashboard {
		cfg.TUIDashboardEnabled = true
	}
	if flagWebDashboard != "" {
		cfg.WebDashboardAddr = flagWebDashboard
	}
}

func buildSelector(cfg config.Config) (selector.Selector, error) {
	switch cfg.SelectorPolicy {
	case "model":
		weights, err := selector.LoadModelWeights(cfg.ModelPath)
		if err != nil {
			return nil, err
		}
		return selector.NewModel(weights), nil
	default:
		return selector.NewHeuristic(), nil
	}
}

func printBanner(cfg config.Config, interfaces map[string]string) {
	names := make([]string, 0, len(interfaces))
	for name, ip := range interfaces {
		names = append(names, fmt.Sprintf("%s(%s)", name, ip))
	}
	fmt.Printf(`
╔══════════════════════════════════════════════════════════════╗
║                       egressd %s
╠══════════════════════════════════════════════════════════════╣
║  SOCKS5 listen : %s
║  Interfaces    : %s
║  Selector      : %s
║  Web dashboard : %s
╚══════════════════════════════════════════════════════════════╝

`, padRight(version, 45),
		padRight(net.JoinHostPort(cfg.ListenHost, fmt.Sprintf("%d", cfg.ListenPort)), 46),
		padRight(strings.Join(names, ", "), 46),
		padRight(cfg.SelectorPolicy, 46),
		padRight(blankIfEmpty(cfg.WebDashboardAddr, "disabled"), 46),
	)
}

func blankIfEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
