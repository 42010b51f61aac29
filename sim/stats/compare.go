package stats

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/frontier-sim/frontier-sim/sim"
)

// catchupFraction is the share of the leader's progress the challenger must
// reach to count as having caught up.
const catchupFraction = 0.9

// Comparison summarizes the final-year head-to-head between two actors.
type Comparison struct {
	CatchupProbability    float64 `json:"catchup_probability"`
	SurpassProbability    float64 `json:"surpass_probability"`
	LeaderFinalMedian     float64 `json:"leader_final_median"`
	ChallengerFinalMedian float64 `json:"challenger_final_median"`
}

// Compare reads the final-year progress arrays of leader and challenger and
// reports, over trials, how often the challenger reaches 90% of the leader
// and how often it meets or exceeds the leader.
func Compare(res *sim.RunResult, leader, challenger string) (Comparison, error) {
	if res == nil {
		return Comparison{}, fmt.Errorf("nil run result")
	}
	l := res.FinalYear(sim.SeriesName(leader, sim.QuantityProgress))
	c := res.FinalYear(sim.SeriesName(challenger, sim.QuantityProgress))
	if len(l) == 0 || len(c) == 0 {
		return Comparison{}, fmt.Errorf("missing progress series for %q or %q", leader, challenger)
	}
	if len(l) != len(c) {
		return Comparison{}, fmt.Errorf("progress trial counts differ: %d vs %d", len(l), len(c))
	}

	caught := make([]float64, len(l))
	surpassed := make([]float64, len(l))
	for i := range l {
		if c[i] >= catchupFraction*l[i] {
			caught[i] = 1
		}
		if c[i] >= l[i] {
			surpassed[i] = 1
		}
	}
	return Comparison{
		CatchupProbability:    stat.Mean(caught, nil),
		SurpassProbability:    stat.Mean(surpassed, nil),
		LeaderFinalMedian:     Percentile(sortedCopy(l), 50),
		ChallengerFinalMedian: Percentile(sortedCopy(c), 50),
	}, nil
}
