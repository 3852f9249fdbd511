// Package bxdf implements the scattering-distribution models a path tracer
// evaluates at each shading point: closed-form reflection and transmission
// lobes, and a stochastic layered estimator that composes two of them around
// an optional participating medium.
//
// All directions are unit vectors in the local shading frame, where the z
// axis is the surface normal and z > 0 is the front hemisphere.
package bxdf

import (
	"github.com/df07/go-layered-bsdf/pkg/core"
)

// WalkSeed is the process-wide seed for the layered estimator's internal
// random walks. It is set once at startup (never during rendering), and each
// walk derives its own stream from a hash of this seed and the call's
// arguments, so evaluations are reproducible and safe to run concurrently.
var WalkSeed uint64

// BxDF is the uniform capability contract every scattering model exposes.
// The variant set is closed: only types in this package implement it, and the
// integrator treats every material through this one interface. Rebinding a
// shading point to another candidate model is plain interface assignment.
type BxDF interface {
	// Evaluate returns the scattering distribution value for a direction
	// pair, or the zero spectrum for configurations the model cannot
	// produce. Pure specular models always return zero here.
	Evaluate(wo, wi core.Vec3, mode TransportMode) core.Spectrum

	// Sample draws one direction approximately proportional to the model's
	// value, consuming one 1D and one 2D uniform sample. It returns ok=false
	// when sampleFlags masks out every lobe the model has, when the geometry
	// is degenerate, or when a transmission event hits total internal
	// reflection. A false return carries no sample; callers must not divide
	// by its PDF.
	Sample(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode, sampleFlags ReflTransFlags) (BSDFSample, bool)

	// PDF returns the density with which Sample would produce wi under the
	// same mask, in the same normalization Sample reports.
	PDF(wo, wi core.Vec3, mode TransportMode, sampleFlags ReflTransFlags) float64

	// Flags classifies the lobes the model can produce
	Flags() BxDFFlags

	// Regularize widens near-specular roughness to suppress fireflies. It is
	// the only mutating operation and runs only between renders.
	Regularize()

	// DiffuseReflectance returns a cheap approximation of the model's
	// diffuse albedo for subsurface-transport heuristics. Not exact.
	DiffuseReflectance() core.Spectrum

	bxdf() // closed set marker
}

// BSDFSample is the result of importance-sampling a scattering model
type BSDFSample struct {
	F     core.Spectrum // Scattering value for the sampled direction
	Wi    core.Vec3     // Sampled incident direction, local frame
	PDF   float64       // Sampling density; 1 for delta lobes
	Flags BxDFFlags     // Classification of the sampled lobe

	// PDFIsProportional marks samples whose PDF is only proportional to the
	// true density, as the layered estimator produces.
	PDFIsProportional bool
}

// IsReflection reports whether the sampled lobe was reflective
func (s BSDFSample) IsReflection() bool { return s.Flags.IsReflective() }

// IsTransmission reports whether the sampled lobe was transmissive
func (s BSDFSample) IsTransmission() bool { return s.Flags.IsTransmissive() }

// IsSpecular reports whether the sampled lobe was a delta lobe
func (s BSDFSample) IsSpecular() bool { return s.Flags.IsSpecular() }

// validSample filters the degenerate outcomes every caller of Sample inside
// this package rejects: missing sample, zero value, zero density, or a
// direction in the tangent plane.
func validSample(s BSDFSample, ok bool) bool {
	return ok && !s.F.IsBlack() && s.PDF > 0 && s.Wi.Z != 0
}
