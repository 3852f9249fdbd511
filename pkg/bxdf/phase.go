package bxdf

import (
	"math"

	"github.com/df07/go-layered-bsdf/pkg/core"
)

// PhaseSample is the result of importance-sampling a phase function
type PhaseSample struct {
	P   float64   // Phase function value for the sampled direction
	Wi  core.Vec3 // Sampled direction
	PDF float64   // Sampling density (equal to P for Henyey-Greenstein)
}

// HGPhaseFunction is the Henyey-Greenstein phase function with asymmetry g.
// The layered estimator drives it for scattering events inside the medium
// between the two interfaces.
type HGPhaseFunction struct {
	g float64
}

// NewHGPhaseFunction creates a phase function with the given asymmetry
func NewHGPhaseFunction(g float64) HGPhaseFunction {
	return HGPhaseFunction{g: g}
}

// henyeyGreenstein evaluates the phase function for the cosine of the angle
// between the two directions
func henyeyGreenstein(cosTheta, g float64) float64 {
	denom := 1 + g*g + 2*g*cosTheta
	return (1 - g*g) / (4 * math.Pi * denom * core.SafeSqrt(denom))
}

// P evaluates the phase function for a direction pair
func (h HGPhaseFunction) P(wo, wi core.Vec3) float64 {
	return henyeyGreenstein(wo.Dot(wi), h.g)
}

// PDF returns the sampling density for wi given wo
func (h HGPhaseFunction) PDF(wo, wi core.Vec3) float64 {
	return h.P(wo, wi)
}

// SampleP draws a direction distributed according to the phase function
func (h HGPhaseFunction) SampleP(wo core.Vec3, u core.Vec2) (PhaseSample, bool) {
	g := h.g
	var cosTheta float64
	if math.Abs(g) < 1e-3 {
		cosTheta = 1 - 2*u.X
	} else {
		cosTheta = -(1 + g*g - core.Sqr((1-g*g)/(1+g-2*g*u.X))) / (2 * g)
	}
	sinTheta := core.SafeSqrt(1 - cosTheta*cosTheta)
	phi := 2 * math.Pi * u.Y

	// Build a frame around wo and place the sampled direction in it
	var t1 core.Vec3
	if math.Abs(wo.Z) < 0.999 {
		t1 = core.NewVec3(0, 0, 1).Cross(wo).Normalize()
	} else {
		t1 = core.NewVec3(1, 0, 0)
	}
	t2 := wo.Cross(t1)
	wi := t1.Multiply(sinTheta * math.Cos(phi)).
		Add(t2.Multiply(sinTheta * math.Sin(phi))).
		Add(wo.Multiply(cosTheta))

	p := henyeyGreenstein(cosTheta, g)
	return PhaseSample{P: p, Wi: wi, PDF: p}, true
}
