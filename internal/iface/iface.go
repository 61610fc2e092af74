// Package iface enumerates the host's up, non-loopback IPv4 network
// interfaces: a thin OS query with no third-party dependency of its
// own.
package iface

import "net"

// Enumerate returns a mapping of interface name to its first IPv4
// address, restricted to interfaces that are up and not loopback.
func Enumerate() (map[string]string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	out := make(map[string]string)
	for _, ifc := range ifaces {
		if ifc.Flags&net.FlagUp == 0 {
			continue
		}
		if ifc.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := ifc.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ip := ipFromAddr(addr)
			if ip == nil || ip.To4() == nil {
				continue
			}
			out[ifc.Name] = ip.String()
			break
		}
	}
	return out, nil
}

// NameForIP finds the interface name currently holding ip. The monitor's
// overlay hook does not call it; it reads the network id from the
// interface name instead.
func NameForIP(ip string) (string, bool) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", false
	}
	for _, ifc := range ifaces {
		addrs, err := ifc.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			got := ipFromAddr(addr)
			if got != nil && got.String() == ip {
				return ifc.Name, true
			}
		}
	}
	return "", false
}

func ipFromAddr(addr net.Addr) net.IP {
	switch v := addr.(type) {
	case *net.IPNet:
		return v.IP
	case *net.IPAddr:
		return v.IP
	default:
		return nil
	}
}
