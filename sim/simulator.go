// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// SimConfig holds everything needed to construct a Simulator.
type SimConfig struct {
	US    ActorParams
	China ActorParams

	Years   int   // horizon length, must be > 0
	Samples int   // trials per year, must be > 0
	Seed    int64 // master seed for the partitioned RNG

	// MaxWork bounds Years*Samples. Zero disables the bound.
	MaxWork int64
}

// ActorState is the cross-year state carried for one actor. The zero year
// has Energy == nil and Progress all ones.
type ActorState struct {
	Year     int
	Energy   *EnergyState
	Progress []float64
}

// InitialActorState returns the state before year 0.
func InitialActorState(samples int) ActorState {
	return ActorState{Progress: InitialProgress(samples)}
}

// YearOutcome holds every array produced for one actor in one year.
type YearOutcome struct {
	Compute          []float64
	Capital          []float64
	Talent           []float64
	Energy           EnergyState
	Progress         []float64
	TrainingCapacity []float64
}

// actor binds a parameter set to its random streams and its carried state.
type actor struct {
	params  ActorParams
	streams ActorStreams
	state   ActorState
}

// Simulator runs the year loop for both actors. A Simulator owns its random
// streams and is single-use: call Run once.
type Simulator struct {
	years   int
	samples int
	key     SimulationKey
	actors  []*actor
	ran     bool
}

// NewSimulator validates the configuration and derives one isolated stream
// per (actor, factor). Errors wrap ErrInvalidParameter or ErrResourceExhausted.
func NewSimulator(cfg SimConfig) (*Simulator, error) {
	if cfg.Years <= 0 {
		return nil, fmt.Errorf("%w: years must be positive, got %d", ErrInvalidParameter, cfg.Years)
	}
	if cfg.Samples <= 0 {
		return nil, fmt.Errorf("%w: samples must be positive, got %d", ErrInvalidParameter, cfg.Samples)
	}
	if cfg.MaxWork > 0 && int64(cfg.Years)*int64(cfg.Samples) > cfg.MaxWork {
		return nil, fmt.Errorf("%w: years*samples = %d*%d exceeds limit %d",
			ErrResourceExhausted, cfg.Years, cfg.Samples, cfg.MaxWork)
	}
	if err := cfg.US.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.China.Validate(); err != nil {
		return nil, err
	}
	if cfg.US.Name == cfg.China.Name {
		return nil, fmt.Errorf("%w: actors must have distinct names, both are %q", ErrInvalidParameter, cfg.US.Name)
	}

	key := NewSimulationKey(cfg.Seed)
	rng := NewPartitionedRNG(key)
	s := &Simulator{years: cfg.Years, samples: cfg.Samples, key: key}
	for _, p := range []ActorParams{cfg.US, cfg.China} {
		s.actors = append(s.actors, &actor{
			params:  p,
			streams: rng.ForActor(p.Name),
			state:   InitialActorState(cfg.Samples),
		})
	}
	return s, nil
}

// Years returns the configured horizon.
func (s *Simulator) Years() int { return s.years }

// Samples returns the configured trial count.
func (s *Simulator) Samples() int { return s.samples }

// Run simulates every year in order and returns all series for both actors.
// Years are strictly sequential; the two actors of a year are stepped
// concurrently since their streams and state are disjoint. The first error
// aborts the run and no partial result is returned.
func (s *Simulator) Run() (*RunResult, error) {
	if s.ran {
		return nil, fmt.Errorf("simulator already ran; construct a new one per run")
	}
	s.ran = true

	logrus.Infof("Starting simulation: %d years x %s trials, seed=%d",
		s.years, humanize.Comma(int64(s.samples)), int64(s.key))

	res := newRunResult(s.years, s.samples)
	outcomes := make([]YearOutcome, len(s.actors))
	for year := 0; year < s.years; year++ {
		var g errgroup.Group
		for i, a := range s.actors {
			i, a := i, a // per-iteration copies (pre-Go 1.22 loop semantics)
			g.Go(func() error {
				next, out, err := StepActor(a.params, a.streams, a.state, s.samples)
				if err != nil {
					return fmt.Errorf("%s year %d: %w", a.params.Name, year, err)
				}
				a.state = next
				outcomes[i] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		for i, a := range s.actors {
			recordYear(res, a.params.Name, year, outcomes[i])
			if !logrus.IsLevelEnabled(logrus.DebugLevel) {
				continue
			}
			logrus.Debugf("[year %02d] %s: mean progress=%.3f mean capacity=%.4g",
				year, a.params.Name, stat.Mean(outcomes[i].Progress, nil), stat.Mean(outcomes[i].TrainingCapacity, nil))
		}
	}

	logrus.Infof("Simulation complete: %d series", len(res.Series))
	return res, nil
}

// StepActor performs one year's transition for one actor: sample compute,
// capital and talent; step the energy model against last year's energy and
// this year's compute; fold in last year's progress; derive training capacity.
func StepActor(p ActorParams, streams ActorStreams, state ActorState, samples int) (ActorState, YearOutcome, error) {
	year := state.Year
	var out YearOutcome
	var err error

	if out.Compute, err = SampleFactor(streams.Compute, p.Compute, year, samples); err != nil {
		return state, out, fmt.Errorf("compute: %w", err)
	}
	if out.Capital, err = SampleFactor(streams.Capital, p.Capital, year, samples); err != nil {
		return state, out, fmt.Errorf("capital: %w", err)
	}
	if out.Talent, err = SampleFactor(streams.Talent, p.Talent, year, samples); err != nil {
		return state, out, fmt.Errorf("talent: %w", err)
	}

	out.Energy, err = p.EnergyModel.Step(EnergyInput{
		RNG:         streams.Energy,
		Year:        year,
		Samples:     samples,
		Energy:      p.Energy,
		Compute:     p.Compute,
		ComputeDraw: out.Compute,
		Prev:        state.Energy,
	})
	if err != nil {
		return state, out, err
	}

	if out.Progress, err = CalculateProgress(out.Compute, out.Capital, out.Talent, out.Energy.Used, state.Progress); err != nil {
		return state, out, fmt.Errorf("progress: %w", err)
	}
	if out.TrainingCapacity, err = TrainingCapacity(out.Compute, out.Energy.Used, p.Class); err != nil {
		return state, out, fmt.Errorf("training capacity: %w", err)
	}

	energy := out.Energy
	next := ActorState{
		Year:     year + 1,
		Energy:   &energy,
		Progress: out.Progress,
	}
	return next, out, nil
}

func recordYear(res *RunResult, name string, year int, out YearOutcome) {
	res.appendYear(SeriesName(name, QuantityProgress), year, out.Progress)
	res.appendYear(SeriesName(name, QuantityTrainingCapacity), year, out.TrainingCapacity)
	res.appendYear(SeriesName(name, QuantityCompute), year, out.Compute)
	res.appendYear(SeriesName(name, QuantityCapital), year, out.Capital)
	res.appendYear(SeriesName(name, QuantityTalent), year, out.Talent)
	res.appendYear(SeriesName(name, QuantityEnergy), year, out.Energy.Used)
	if out.Energy.Available != nil {
		res.appendYear(SeriesName(name, QuantityEnergyAvailable), year, out.Energy.Available)
	}
	if out.Energy.Required != nil {
		res.appendYear(SeriesName(name, QuantityEnergyRequired), year, out.Energy.Required)
	}
	if out.Energy.TotalGrid != nil {
		res.appendYear(SeriesName(name, QuantityTotalGrid), year, out.Energy.TotalGrid)
	}
}
