package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/netmix/egressd/internal/health"
	"github.com/netmix/egressd/internal/obslog"
)

// fakeDial lets tests script per-interface success/failure without
// touching the network.
func fakeDial(results map[string]error, delay time.Duration) func(context.Context, string, string) error {
	return func(ctx context.Context, localIP, target string) error {
		if delay > 0 {
			time.Sleep(delay)
		}
		return results[localIP]
	}
}

func TestRunRound_RecordsLatencyForEachInterface(t *testing.T) {
	store := health.New([]string{"eth0", "wlan0"}, 20)
	ifaces := map[string]string{"eth0": "10.0.0.1", "wlan0": "10.0.0.2"}
	m := New(store, ifaces, Config{}, nil, nil)
	m.dialFunc = fakeDial(map[string]error{"10.0.0.1": nil, "10.0.0.2": nil}, 0)

	allFailed := m.RunRound()
	if allFailed {
		t.Fatal("expected not all failed")
	}

	for _, name := range []string{"eth0", "wlan0"} {
		snap, _ := store.One(name)
		if len(snap.Latencies) != 1 {
			t.Errorf("%s: expected 1 latency sample, got %d", name, len(snap.Latencies))
		}
	}
}

func TestRunRound_FailureRecordsSentinel(t *testing.T) {
	store := health.New([]string{"eth0"}, 20)
	ifaces := map[string]string{"eth0": "10.0.0.1"}
	m := New(store, ifaces, Config{}, nil, nil)
	m.dialFunc = func(ctx context.Context, localIP, target string) error {
		return context.DeadlineExceeded
	}

	allFailed := m.RunRound()
	if !allFailed {
		t.Fatal("expected all failed")
	}

	snap, _ := store.One("eth0")
	if len(snap.Latencies) != 1 || snap.Latencies[0] != health.FailureSentinel {
		t.Errorf("expected sentinel latency, got %v", snap.Latencies)
	}
}

func TestRunRound_PartialFailureNotAllFailed(t *testing.T) {
	store := health.New([]string{"eth0", "wlan0"}, 20)
	ifaces := map[string]string{"eth0": "10.0.0.1", "wlan0": "10.0.0.2"}
	m := New(store, ifaces, Config{}, nil, nil)
	m.dialFunc = func(ctx context.Context, localIP, target string) error {
		if localIP == "10.0.0.1" {
			return nil
		}
		return context.DeadlineExceeded
	}

	if m.RunRound() {
		t.Fatal("expected allFailed=false when one interface succeeds")
	}
}

func TestRunRound_EmitsObservationRows(t *testing.T) {
	store := health.New([]string{"eth0"}, 20)
	store.RecordSuccess("eth0") // pre-existing state, should appear as "before" in the row

	var rows []obslog.Row
	recorder := &recordingWriter{rows: &rows}

	m := New(store, map[string]string{"eth0": "10.0.0.1"}, Config{}, nil, recorder)
	m.dialFunc = fakeDial(map[string]error{"10.0.0.1": nil}, 0)
	m.RunRound()

	if len(rows) != 1 {
		t.Fatalf("expected 1 observation row, got %d", len(rows))
	}
	if rows[0].Successes != 1 {
		t.Errorf("expected pre-probe successes=1 in the row, got %d", rows[0].Successes)
	}
}

func TestStop_HaltsBetweenRounds(t *testing.T) {
	store := health.New([]string{"eth0"}, 20)
	m := New(store, map[string]string{"eth0": "10.0.0.1"}, Config{Period: 5 * time.Millisecond}, nil, nil)
	m.dialFunc = fakeDial(map[string]error{"10.0.0.1": nil}, 0)

	m.Start()
	time.Sleep(20 * time.Millisecond)
	m.Stop() // must return promptly, not hang
}

type recordingWriter struct {
	rows *[]obslog.Row
}

func (r *recordingWriter) Write(row obslog.Row) error {
	*r.rows = append(*r.rows, row)
	return nil
}

func (r *recordingWriter) Close() error { return nil }
