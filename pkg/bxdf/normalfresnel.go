package bxdf

import (
	"math"

	"github.com/df07/go-layered-bsdf/pkg/core"
)

// NormalizedFresnelBxDF is the energy-corrected Lambertian lobe used where a
// subsurface-scattering path exits the surface. Its normalization depends on
// the first angular moment of the Fresnel reflectance for the boundary's
// index of refraction.
type NormalizedFresnelBxDF struct {
	eta float64
}

// NewNormalizedFresnel creates a subsurface exit lobe for relative index eta
func NewNormalizedFresnel(eta float64) *NormalizedFresnelBxDF {
	return &NormalizedFresnelBxDF{eta: eta}
}

func (b *NormalizedFresnelBxDF) bxdf() {}

// Evaluate returns the normalized Fresnel-weighted diffuse value
func (b *NormalizedFresnelBxDF) Evaluate(wo, wi core.Vec3, mode TransportMode) core.Spectrum {
	if !core.SameHemisphere(wo, wi) {
		return core.Spectrum{}
	}
	c := 1 - 2*FresnelMoment1(1/b.eta)
	v := (1 - FrDielectric(core.CosTheta(wi), b.eta)) / (c * math.Pi)

	// Account for adjoint light transport through the boundary
	if mode == Radiance {
		v *= core.Sqr(b.eta)
	}
	return core.NewUniformSpectrum(v)
}

// Sample draws a cosine-weighted direction in wo's hemisphere
func (b *NormalizedFresnelBxDF) Sample(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode, sampleFlags ReflTransFlags) (BSDFSample, bool) {
	if !sampleFlags.HasReflection() {
		return BSDFSample{}, false
	}
	wi := core.SampleCosineHemisphere(u)
	if wo.Z < 0 {
		wi.Z = -wi.Z
	}
	pdf := b.PDF(wo, wi, mode, sampleFlags)
	if pdf == 0 {
		return BSDFSample{}, false
	}
	return BSDFSample{
		F:     b.Evaluate(wo, wi, mode),
		Wi:    wi,
		PDF:   pdf,
		Flags: FlagDiffuseReflection,
	}, true
}

// PDF returns the cosine-hemisphere density
func (b *NormalizedFresnelBxDF) PDF(wo, wi core.Vec3, mode TransportMode, sampleFlags ReflTransFlags) float64 {
	if !sampleFlags.HasReflection() || !core.SameHemisphere(wo, wi) {
		return 0
	}
	return core.AbsCosTheta(wi) / math.Pi
}

// Flags reports a diffuse reflection lobe
func (b *NormalizedFresnelBxDF) Flags() BxDFFlags {
	return FlagReflection | FlagDiffuse
}

// Regularize is a no-op
func (b *NormalizedFresnelBxDF) Regularize() {}

// DiffuseReflectance returns zero: the lobe's energy depends on the
// subsurface transport feeding it
func (b *NormalizedFresnelBxDF) DiffuseReflectance() core.Spectrum {
	return core.Spectrum{}
}
