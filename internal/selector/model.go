package selector

import (
	"encoding/json"
	"math"
	"os"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/netmix/egressd/internal/health"
)

// featureOrder is part of the model contract: weights must be trained
// against features in exactly this order.
var featureOrder = []string{"latency_avg_5", "failures", "successes", "active_conns"}

// ModelWeights is the serialized form of a trained logistic scorer: one
// weight per entry in featureOrder, plus an intercept.
type ModelWeights struct {
	Weights   [4]float64 `json:"weights" yaml:"weights"`
	Intercept float64    `json:"intercept" yaml:"intercept"`
}

// LoadModelWeights reads a JSON-encoded ModelWeights sidecar from path.
func LoadModelWeights(path string) (ModelWeights, error) {
	var w ModelWeights
	data, err := os.ReadFile(path)
	if err != nil {
		return w, errors.Wrapf(err, "read model weights %s", path)
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return w, errors.Wrapf(err, "decode model weights %s", path)
	}
	return w, nil
}

// Model is the learned-model selector variant: a logistic classifier
// over {latency_avg_5, failures, successes, active_conns} that scores
// "probability of being best" per interface. Rank sorts by that
// probability descending, expressed back as a Heuristic-compatible
// ascending score (1 - probability) so lower is still better, matching
// every other Selector implementation's convention.
type Model struct {
	weights ModelWeights
}

// NewModel builds a Model from previously loaded weights.
func NewModel(weights ModelWeights) Model {
	return Model{weights: weights}
}

// Rank implements Selector.
func (m Model) Rank(snapshot []health.Snapshot) []Candidate {
	out := make([]Candidate, len(snapshot))
	w := mat.NewVecDense(4, m.weights.Weights[:])
	for i, s := range snapshot {
		features := mat.NewVecDense(4, featuresFor(s))
		logit := mat.Dot(w, features) + m.weights.Intercept
		prob := sigmoid(logit)
		out[i] = Candidate{Name: s.Name, Score: 1 - prob}
	}
	stableSortByScore(out)
	return out
}

// featuresFor extracts the feature vector for one interface in
// featureOrder. latency_avg_5 is the mean of the last <=5 samples,
// defaulting to the failure sentinel when there are none.
func featuresFor(s health.Snapshot) []float64 {
	lat := s.Latencies
	if n := len(lat); n > 5 {
		lat = lat[n-5:]
	}
	latencyAvg5 := health.FailureSentinel
	if len(lat) > 0 {
		latencyAvg5 = stat.Mean(lat, nil)
	}
	return []float64{
		latencyAvg5,
		float64(s.Failures),
		float64(s.Successes),
		float64(s.ActiveConns),
	}
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func stableSortByScore(c []Candidate) {
	// Insertion sort is adequate here: interface counts are small
	// (single digits to low dozens), and stability matters more than
	// asymptotic complexity for the enumeration-order tie-break.
	for i := 1; i < len(c); i++ {
		for j := i; j > 0 && c[j].Score < c[j-1].Score; j-- {
			c[j], c[j-1] = c[j-1], c[j]
		}
	}
}
