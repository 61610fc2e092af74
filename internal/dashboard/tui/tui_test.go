package tui

import (
	"strings"
	"testing"

	"github.com/netmix/egressd/internal/health"
)

func TestRowsFromSnapshot_SortedByName(t *testing.T) {
	store := health.New([]string{"zeta", "alpha"}, 20)
	store.RecordProbe("zeta", 10)
	store.RecordProbe("alpha", 20)

	rows := rowsFromSnapshot(store.Snapshot())
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "alpha" || rows[1][0] != "zeta" {
		t.Errorf("expected alpha before zeta, got %v then %v", rows[0][0], rows[1][0])
	}
}

func TestAvgLatencyString_EmptyHistory(t *testing.T) {
	if got := avgLatencyString(nil); got != "-" {
		t.Errorf("expected '-', got %q", got)
	}
}

func TestAvgLatencyString_ComputesMean(t *testing.T) {
	if got := avgLatencyString([]float64{10, 20, 30}); got != "20.0" {
		t.Errorf("expected '20.0', got %q", got)
	}
}

func TestModel_ViewContainsHeader(t *testing.T) {
	store := health.New([]string{"wifi"}, 20)
	m := New(store)
	if !strings.Contains(m.View(), "egressd") {
		t.Errorf("expected view to contain a header, got %q", m.View())
	}
}
