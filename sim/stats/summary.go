// Package stats reduces the trial dimension of a sim.RunResult to
// per-year percentile and mean summaries.
package stats

import (
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/frontier-sim/frontier-sim/sim"
)

// Summary labels, in ascending percentile rank followed by the mean.
const (
	LabelP10  = "p10"
	LabelP25  = "p25"
	LabelP50  = "p50"
	LabelP75  = "p75"
	LabelP90  = "p90"
	LabelMean = "mean"
)

var percentileLabels = []struct {
	label string
	p     float64
}{
	{LabelP10, 10},
	{LabelP25, 25},
	{LabelP50, 50},
	{LabelP75, 75},
	{LabelP90, 90},
}

// SeriesSummary maps a label (p10..p90, mean) to one value per year.
type SeriesSummary map[string][]float64

// SummarizeSeries computes per-year percentiles and the mean of one series.
// An empty year yields NaN for every label.
func SummarizeSeries(ts sim.TimeSeries) SeriesSummary {
	out := make(SeriesSummary, len(percentileLabels)+1)
	for _, pl := range percentileLabels {
		out[pl.label] = make([]float64, len(ts))
	}
	out[LabelMean] = make([]float64, len(ts))

	for year, trials := range ts {
		if len(trials) == 0 {
			for _, vals := range out {
				vals[year] = math.NaN()
			}
			continue
		}
		sorted := sortedCopy(trials)
		for _, pl := range percentileLabels {
			out[pl.label][year] = Percentile(sorted, pl.p)
		}
		out[LabelMean][year] = stat.Mean(trials, nil)
	}
	return out
}

// Summarize computes a SeriesSummary for every series of a run, keyed
// identically to res.Series. Safe for a nil result (returns an empty map).
// Series are independent and are reduced concurrently.
func Summarize(res *sim.RunResult) map[string]SeriesSummary {
	summaries := make(map[string]SeriesSummary)
	if res == nil {
		return summaries
	}

	names := res.Names()
	slots := make([]SeriesSummary, len(names))
	var g errgroup.Group
	for i, name := range names {
		i, name := i, name // per-iteration copies (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			slots[i] = SummarizeSeries(res.Series[name])
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	for i, name := range names {
		summaries[name] = slots[i]
	}
	return summaries
}
