package selector

import (
	"sort"

	"github.com/netmix/egressd/internal/health"
)

// Default scoring weights for the heuristic selector. These are policy,
// not invariant — callers may construct a Heuristic with different
// weights.
const (
	DefaultLatencyWeight     = 0.8
	DefaultSuccessRateWeight = 20.0
)

// Heuristic is the default scoring policy: lower score wins.
//
//	score = LatencyWeight*avg_latency - SuccessRateWeight*success_rate
type Heuristic struct {
	LatencyWeight     float64
	SuccessRateWeight float64
}

// NewHeuristic builds a Heuristic with the documented default weights.
func NewHeuristic() Heuristic {
	return Heuristic{
		LatencyWeight:     DefaultLatencyWeight,
		SuccessRateWeight: DefaultSuccessRateWeight,
	}
}

// Rank implements Selector.
func (h Heuristic) Rank(snapshot []health.Snapshot) []Candidate {
	out := make([]Candidate, len(snapshot))
	for i, s := range snapshot {
		out[i] = Candidate{Name: s.Name, Score: h.score(s)}
	}
	// Stable sort preserves enumeration order as the tie-break: two
	// interfaces with an identical score keep the order they appeared
	// in the snapshot.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score < out[j].Score
	})
	return out
}

func (h Heuristic) score(s health.Snapshot) float64 {
	avgLatency := health.FailureSentinel
	if len(s.Latencies) > 0 {
		var sum float64
		for _, l := range s.Latencies {
			sum += l
		}
		avgLatency = sum / float64(len(s.Latencies))
	}

	attempts := s.Successes + s.Failures
	successRate := 1.0 // no attempts yet: treat as good until proven otherwise
	if attempts > 0 {
		successRate = float64(s.Successes) / float64(attempts)
	}

	return h.LatencyWeight*avgLatency - h.SuccessRateWeight*successRate
}
