// Package overlay defines the narrow collaborator interface the health
// monitor uses to improve reachability of probes on overlay-network
// interfaces. The core never depends on a concrete overlay
// implementation; it depends only on this one-method contract.
package overlay

import "regexp"

// Resolver maps a hex overlay network identifier to that network's
// default-route gateway IP.
type Resolver interface {
	// GatewayFor returns the gateway IP for networkID and true, or ""
	// and false if no default route is known for that network.
	GatewayFor(networkID string) (string, bool)
}

// networkIDPattern matches the bracketed hex network id netmix embeds in
// overlay interface names, e.g. "zerotier [8056c2e21c000001]".
var networkIDPattern = regexp.MustCompile(`\[([a-fA-F0-9]{16})\]`)

// NetworkIDFromName extracts an overlay network identifier from an
// interface name, if present.
func NetworkIDFromName(name string) (string, bool) {
	m := networkIDPattern.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1], true
}
