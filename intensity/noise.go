package intensity

import "math/rand"

// Perturber injects noise into a value before it is quantized. The engine
// invokes it at exactly one point per source-type family: floating sources
// perturb the raw sample before the scaling formula runs, integer RAW
// sources perturb the computed intensity. The perturbed value is always
// clamped back into its legal domain before processing continues.
type Perturber interface {
	Perturb(v float64) float64
}

// GaussianNoise adds normally distributed noise using a caller-owned,
// explicitly seeded generator. Keeping the generator on the caller side
// avoids hidden process-wide state and makes runs reproducible.
type GaussianNoise struct {
	Rand  *rand.Rand
	Sigma float64
}

// Perturb returns v plus a normal sample with standard deviation Sigma.
func (g *GaussianNoise) Perturb(v float64) float64 {
	return v + g.Rand.NormFloat64()*g.Sigma
}
