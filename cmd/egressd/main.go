// Command egressd runs the multi-homed SOCKS5 egress proxy.
package main

import "github.com/netmix/egressd/internal/cli"

func main() {
	cli.Execute()
}
