package bxdf

import (
	"math"

	"github.com/df07/go-layered-bsdf/pkg/core"
)

// MeasuredTable is the collaborator that owns a measured reflectance
// dataset. The core only remaps direction pairs into the table's unit-square
// coordinate system; the table's storage layout and loading are external.
type MeasuredTable interface {
	// Lookup returns the measured BRDF value for the remapped outgoing and
	// incident coordinates, each in [0,1]^2 as (theta, phi) warps
	Lookup(uWo, uWi core.Vec2) core.Spectrum
}

// MeasuredBxDF evaluates a tabulated real-world material. It has no closed
// form: values come straight from the measurement, and sampling falls back
// to the cosine warp.
type MeasuredBxDF struct {
	table MeasuredTable
}

// NewMeasured creates a tabulated model backed by the given table
func NewMeasured(table MeasuredTable) *MeasuredBxDF {
	return &MeasuredBxDF{table: table}
}

func (b *MeasuredBxDF) bxdf() {}

// Square-hemisphere warps for the table's coordinate system
func theta2u(theta float64) float64 { return math.Sqrt(theta * (2 / math.Pi)) }
func phi2u(phi float64) float64     { return (phi + math.Pi) / (2 * math.Pi) }

// Evaluate remaps the direction pair into the table's coordinates and looks
// up the measured value
func (b *MeasuredBxDF) Evaluate(wo, wi core.Vec3, mode TransportMode) core.Spectrum {
	if !core.SameHemisphere(wo, wi) {
		return core.Spectrum{}
	}
	// Measurements are stored for the upper hemisphere
	if wo.Z < 0 {
		wo = wo.Negate()
		wi = wi.Negate()
	}
	if core.CosTheta(wo) == 0 || core.CosTheta(wi) == 0 {
		return core.Spectrum{}
	}

	uWo := core.NewVec2(
		theta2u(math.Acos(core.Clamp(core.CosTheta(wo), -1, 1))),
		phi2u(math.Atan2(wo.Y, wo.X)),
	)
	uWi := core.NewVec2(
		theta2u(math.Acos(core.Clamp(core.CosTheta(wi), -1, 1))),
		phi2u(math.Atan2(wi.Y, wi.X)),
	)
	return b.table.Lookup(uWo, uWi)
}

// Sample draws a cosine-weighted direction; the table provides no analytic
// importance warp
func (b *MeasuredBxDF) Sample(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode, sampleFlags ReflTransFlags) (BSDFSample, bool) {
	if !sampleFlags.HasReflection() {
		return BSDFSample{}, false
	}
	wi := core.SampleCosineHemisphere(u)
	if wo.Z < 0 {
		wi.Z = -wi.Z
	}
	pdf := core.CosineHemispherePDF(core.AbsCosTheta(wi))
	if pdf == 0 {
		return BSDFSample{}, false
	}
	return BSDFSample{
		F:     b.Evaluate(wo, wi, mode),
		Wi:    wi,
		PDF:   pdf,
		Flags: FlagGlossyReflection,
	}, true
}

// PDF returns the cosine-hemisphere density Sample uses
func (b *MeasuredBxDF) PDF(wo, wi core.Vec3, mode TransportMode, sampleFlags ReflTransFlags) float64 {
	if !sampleFlags.HasReflection() || !core.SameHemisphere(wo, wi) {
		return 0
	}
	return core.CosineHemispherePDF(core.AbsCosTheta(wi))
}

// Flags reports a glossy reflection lobe
func (b *MeasuredBxDF) Flags() BxDFFlags {
	return FlagReflection | FlagGlossy
}

// Regularize is a no-op: the data is already band-limited by measurement
func (b *MeasuredBxDF) Regularize() {}

// DiffuseReflectance returns zero: no cheap bound is available for arbitrary
// measurements
func (b *MeasuredBxDF) DiffuseReflectance() core.Spectrum {
	return core.Spectrum{}
}
