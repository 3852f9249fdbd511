package bxdf

import (
	"github.com/df07/go-layered-bsdf/pkg/core"
)

// ConductorBxDF models glossy reflection off a metal surface with the
// Torrance-Sparrow microfacet model and a spectral conductor Fresnel term.
// An effectively smooth distribution collapses it to a perfect mirror.
type ConductorBxDF struct {
	mfDistrib TrowbridgeReitz
	eta, k    core.Spectrum
}

// NewConductor creates a conductor with the given microfacet distribution and
// complex index of refraction eta + ik
func NewConductor(mfDistrib TrowbridgeReitz, eta, k core.Spectrum) *ConductorBxDF {
	return &ConductorBxDF{mfDistrib: mfDistrib, eta: eta, k: k}
}

func (b *ConductorBxDF) bxdf() {}

// Flags reports specular or glossy reflection depending on the roughness
func (b *ConductorBxDF) Flags() BxDFFlags {
	if b.mfDistrib.EffectivelySmooth() {
		return FlagSpecularReflection
	}
	return FlagGlossyReflection
}

// Evaluate returns the Torrance-Sparrow value, or zero when effectively
// smooth
func (b *ConductorBxDF) Evaluate(wo, wi core.Vec3, mode TransportMode) core.Spectrum {
	if !core.SameHemisphere(wo, wi) {
		return core.Spectrum{}
	}
	if b.mfDistrib.EffectivelySmooth() {
		return core.Spectrum{}
	}
	cosThetaO, cosThetaI := core.AbsCosTheta(wo), core.AbsCosTheta(wi)
	if cosThetaO == 0 || cosThetaI == 0 {
		return core.Spectrum{}
	}
	wm := wi.Add(wo)
	if wm.LengthSquared() == 0 {
		return core.Spectrum{}
	}
	wm = wm.Normalize()

	fr := FrConductor(wi.AbsDot(wm), b.eta, b.k)
	return fr.Scale(b.mfDistrib.D(wm) * b.mfDistrib.G(wo, wi) / (4 * cosThetaI * cosThetaO))
}

// Sample draws a visible microfacet normal and mirrors wo about it, or uses
// the delta path when smooth
func (b *ConductorBxDF) Sample(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode, sampleFlags ReflTransFlags) (BSDFSample, bool) {
	if !sampleFlags.HasReflection() {
		return BSDFSample{}, false
	}

	if b.mfDistrib.EffectivelySmooth() {
		wi := core.NewVec3(-wo.X, -wo.Y, wo.Z)
		if wi.Z == 0 {
			return BSDFSample{}, false
		}
		f := FrConductor(core.AbsCosTheta(wi), b.eta, b.k).Scale(1 / core.AbsCosTheta(wi))
		return BSDFSample{F: f, Wi: wi, PDF: 1, Flags: FlagSpecularReflection}, true
	}

	if wo.Z == 0 {
		return BSDFSample{}, false
	}
	wm := b.mfDistrib.SampleWm(wo, u)
	wi := core.Reflect(wo, wm)
	if !core.SameHemisphere(wo, wi) || wo.Dot(wm) <= 0 {
		return BSDFSample{}, false
	}

	pdf := b.mfDistrib.PDF(wo, wm) / (4 * wo.Dot(wm))

	cosThetaO, cosThetaI := core.AbsCosTheta(wo), core.AbsCosTheta(wi)
	if cosThetaO == 0 || cosThetaI == 0 {
		return BSDFSample{}, false
	}
	fr := FrConductor(wi.AbsDot(wm), b.eta, b.k)
	f := fr.Scale(b.mfDistrib.D(wm) * b.mfDistrib.G(wo, wi) / (4 * cosThetaI * cosThetaO))
	return BSDFSample{F: f, Wi: wi, PDF: pdf, Flags: FlagGlossyReflection}, true
}

// PDF returns the visible-normal sampling density, or zero when effectively
// smooth
func (b *ConductorBxDF) PDF(wo, wi core.Vec3, mode TransportMode, sampleFlags ReflTransFlags) float64 {
	if !sampleFlags.HasReflection() || !core.SameHemisphere(wo, wi) {
		return 0
	}
	if b.mfDistrib.EffectivelySmooth() {
		return 0
	}
	wm := wo.Add(wi)
	if wm.LengthSquared() == 0 || wo.Dot(wm) <= 0 {
		return 0
	}
	wm = wm.Normalize()
	return b.mfDistrib.PDF(wo, wm) / (4 * wo.Dot(wm))
}

// Regularize widens the microfacet roughness
func (b *ConductorBxDF) Regularize() {
	b.mfDistrib.Regularize()
}

// DiffuseReflectance returns zero: the lobe is purely glossy/specular
func (b *ConductorBxDF) DiffuseReflectance() core.Spectrum {
	return core.Spectrum{}
}
