package sim

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	// growthNoiseStd is the per-trial dispersion added to a factor's growth rate.
	growthNoiseStd = 0.02

	// optimisticBound is the multiple of the projected mean treated as the
	// theoretical maximum before the constraint applies.
	optimisticBound = 3.0
)

// LogNormalParams converts an arithmetic (mean, std) pair into the (mu, sigma)
// of a log-normal distribution with that mean and standard deviation.
func LogNormalParams(mean, std float64) (mu, sigma float64) {
	m2 := mean * mean
	v := std * std
	mu = math.Log(m2 / math.Sqrt(m2+v))
	sigma = math.Sqrt(math.Log(1 + v/m2))
	return mu, sigma
}

// SampleFactor draws one year's value of a factor for every trial.
//
// Each trial gets its own effective growth rate (GrowthRate plus N(0, 0.02)),
// projects mean and std forward by (1+g)^year, draws from the log-normal with
// that arithmetic mean/std, and caps at Constraint * 3 * projected mean.
// All growth noise is drawn before any log-normal draw.
func SampleFactor(rng *rand.Rand, p FactorParams, year, samples int) ([]float64, error) {
	return sampleFactor(rng, p, year, samples, func(int) float64 { return p.GrowthRate })
}

// sampleFactor is SampleFactor with a year-dependent base growth rate.
func sampleFactor(rng *rand.Rand, p FactorParams, year, samples int, growth func(year int) float64) ([]float64, error) {
	if p.Mean <= 0 || p.Std <= 0 {
		return nil, fmt.Errorf("%w: factor mean and std must be positive, got mean=%g std=%g", ErrInvalidParameter, p.Mean, p.Std)
	}
	if samples <= 0 {
		return nil, fmt.Errorf("%w: samples must be positive, got %d", ErrInvalidParameter, samples)
	}

	base := growth(year)
	noise := make([]float64, samples)
	for i := range noise {
		noise[i] = rng.NormFloat64() * growthNoiseStd
	}

	out := make([]float64, samples)
	for i := range out {
		factor := 1 + base + noise[i]
		if year > 0 && factor <= 0 {
			return nil, fmt.Errorf("%w: growth factor %g at year %d is not positive", ErrNumericDomain, factor, year)
		}
		scale := math.Pow(factor, float64(year))
		yearMean := p.Mean * scale
		yearStd := p.Std * scale
		if !(yearMean > 0) || math.IsInf(yearMean, 0) {
			return nil, fmt.Errorf("%w: projected mean %g at year %d (growth %g)", ErrNumericDomain, yearMean, year, base+noise[i])
		}
		mu, sigma := LogNormalParams(yearMean, yearStd)
		v := math.Exp(mu + sigma*rng.NormFloat64())
		out[i] = math.Min(v, p.Constraint*optimisticBound*yearMean)
	}
	return out, nil
}
