package zerotier

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestGatewayFor_UnavailableReturnsNotFound(t *testing.T) {
	r := &Resolver{available: false}
	_, ok := r.GatewayFor("8056c2e21c000001")
	if ok {
		t.Error("expected not-found when the CLI was never located")
	}
}

func TestGatewayFor_ParsesDefaultRoute(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake CLI script uses a shebang, not supported on windows")
	}

	script := filepath.Join(t.TempDir(), "zerotier-cli")
	contents := `#!/bin/sh
echo '{"routes":[{"target":"10.0.0.0/24","via":""},{"target":"0.0.0.0/0","via":"10.0.0.1"}]}'
`
	if err := os.WriteFile(script, []byte(contents), 0o755); err != nil {
		t.Fatal(err)
	}

	r := &Resolver{cliPath: script, available: true}
	gateway, ok := r.GatewayFor("8056c2e21c000001")
	if !ok {
		t.Fatal("expected a gateway to be found")
	}
	if gateway != "10.0.0.1" {
		t.Errorf("got %q", gateway)
	}
}

func TestGatewayFor_NoDefaultRoute(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake CLI script uses a shebang, not supported on windows")
	}

	script := filepath.Join(t.TempDir(), "zerotier-cli")
	contents := `#!/bin/sh
echo '{"routes":[{"target":"10.0.0.0/24","via":"10.0.0.254"}]}'
`
	if err := os.WriteFile(script, []byte(contents), 0o755); err != nil {
		t.Fatal(err)
	}

	r := &Resolver{cliPath: script, available: true}
	_, ok := r.GatewayFor("8056c2e21c000001")
	if ok {
		t.Error("expected not-found when no 0.0.0.0/0 route is present")
	}
}
