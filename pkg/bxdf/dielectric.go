package bxdf

import (
	"math"

	"github.com/df07/go-layered-bsdf/pkg/core"
)

// DielectricInterfaceBxDF models reflection and transmission at a dielectric
// boundary with the Torrance-Sparrow microfacet model. When the distribution
// is effectively smooth the model collapses to delta-specular lobes: every
// Sample goes through the perfect mirror/Snell path and Evaluate/PDF report
// zero for all finite direction pairs.
type DielectricInterfaceBxDF struct {
	eta       float64
	mfDistrib TrowbridgeReitz
	r, t      core.Spectrum
}

// NewDielectricInterface creates a dielectric boundary with relative index
// eta, the given microfacet distribution, and reflectance/transmittance
// scales r and t
func NewDielectricInterface(eta float64, mfDistrib TrowbridgeReitz, r, t core.Spectrum) *DielectricInterfaceBxDF {
	if eta == 1 {
		eta = 1.001
	}
	return &DielectricInterfaceBxDF{eta: eta, mfDistrib: mfDistrib, r: r, t: t}
}

func (b *DielectricInterfaceBxDF) bxdf() {}

// Eta returns the boundary's relative index of refraction
func (b *DielectricInterfaceBxDF) Eta() float64 {
	return b.eta
}

// Flags reports reflection and transmission, specular or glossy depending on
// the roughness
func (b *DielectricInterfaceBxDF) Flags() BxDFFlags {
	flags := FlagReflection | FlagTransmission
	if b.mfDistrib.EffectivelySmooth() {
		return flags | FlagSpecular
	}
	return flags | FlagGlossy
}

// Evaluate returns the Torrance-Sparrow value, or zero when effectively
// smooth
func (b *DielectricInterfaceBxDF) Evaluate(wo, wi core.Vec3, mode TransportMode) core.Spectrum {
	if b.mfDistrib.EffectivelySmooth() {
		return core.Spectrum{}
	}
	cosThetaO, cosThetaI := core.CosTheta(wo), core.CosTheta(wi)
	if cosThetaO == 0 || cosThetaI == 0 {
		return core.Spectrum{}
	}

	reflect := cosThetaO*cosThetaI > 0
	etap := 1.0
	if !reflect {
		if cosThetaO > 0 {
			etap = b.eta
		} else {
			etap = 1 / b.eta
		}
	}

	// The half vector generalizes to wi*etap + wo for refraction
	wm := wi.Multiply(etap).Add(wo)
	if wm.LengthSquared() == 0 {
		return core.Spectrum{}
	}
	wm = core.FaceForward(wm.Normalize(), core.NewVec3(0, 0, 1))

	// Discard backfacing microfacets
	if wm.Dot(wi)*cosThetaI < 0 || wm.Dot(wo)*cosThetaO < 0 {
		return core.Spectrum{}
	}

	fr := FrDielectric(wo.Dot(wm), b.eta)
	if reflect {
		v := b.mfDistrib.D(wm) * b.mfDistrib.G(wo, wi) * fr /
			math.Abs(4*cosThetaI*cosThetaO)
		return b.r.Scale(v)
	}

	denom := core.Sqr(wi.Dot(wm)+wo.Dot(wm)/etap) * cosThetaI * cosThetaO
	v := b.mfDistrib.D(wm) * (1 - fr) * b.mfDistrib.G(wo, wi) *
		math.Abs(wi.Dot(wm)*wo.Dot(wm)/denom)
	// Account for non-symmetry with transmission to a different medium
	if mode == Radiance {
		v /= core.Sqr(etap)
	}
	return b.t.Scale(v)
}

// Sample draws a microfacet normal (or uses the delta path when smooth) and
// chooses reflection or transmission by the Fresnel probabilities
func (b *DielectricInterfaceBxDF) Sample(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode, sampleFlags ReflTransFlags) (BSDFSample, bool) {
	if wo.Z == 0 {
		return BSDFSample{}, false
	}

	if b.mfDistrib.EffectivelySmooth() {
		return b.sampleSpecular(wo, uc, mode, sampleFlags)
	}

	// Sample a visible microfacet normal
	wm := b.mfDistrib.SampleWm(wo, u)
	fr := FrDielectric(wo.Dot(wm), b.eta)
	pr, pt := fr, 1-fr
	if !sampleFlags.HasReflection() {
		pr = 0
	}
	if !sampleFlags.HasTransmission() {
		pt = 0
	}
	if pr == 0 && pt == 0 {
		return BSDFSample{}, false
	}

	if uc < pr/(pr+pt) {
		// Glossy reflection off the sampled facet
		wi := core.Reflect(wo, wm)
		if !core.SameHemisphere(wo, wi) {
			return BSDFSample{}, false
		}
		cosThetaO, cosThetaI := core.AbsCosTheta(wo), core.AbsCosTheta(wi)
		if cosThetaO == 0 || cosThetaI == 0 || wo.Dot(wm) == 0 {
			return BSDFSample{}, false
		}
		pdf := b.mfDistrib.PDF(wo, wm) / (4 * wo.AbsDot(wm)) * pr / (pr + pt)
		f := b.r.Scale(b.mfDistrib.D(wm) * b.mfDistrib.G(wo, wi) * fr /
			(4 * cosThetaI * cosThetaO))
		return BSDFSample{F: f, Wi: wi, PDF: pdf, Flags: FlagGlossyReflection}, true
	}

	// Glossy transmission through the sampled facet
	entering := wo.Dot(wm) > 0
	etap := b.eta
	if !entering {
		etap = 1 / b.eta
	}
	wi, ok := core.Refract(wo, core.FaceForward(wm, wo), etap)
	if !ok || core.SameHemisphere(wo, wi) || wi.Z == 0 {
		return BSDFSample{}, false
	}
	cosThetaO, cosThetaI := core.AbsCosTheta(wo), core.AbsCosTheta(wi)
	if cosThetaO == 0 || cosThetaI == 0 {
		return BSDFSample{}, false
	}

	denom := core.Sqr(wi.Dot(wm) + wo.Dot(wm)/etap)
	dwmDwi := wi.AbsDot(wm) / denom
	pdf := b.mfDistrib.PDF(wo, wm) * dwmDwi * pt / (pr + pt)

	v := b.mfDistrib.D(wm) * (1 - fr) * b.mfDistrib.G(wo, wi) *
		math.Abs(wi.Dot(wm)*wo.Dot(wm)/(cosThetaI*cosThetaO*denom))
	if mode == Radiance {
		v /= core.Sqr(etap)
	}
	return BSDFSample{F: b.t.Scale(v), Wi: wi, PDF: pdf, Flags: FlagGlossyTransmission}, true
}

// sampleSpecular handles the effectively-smooth delta path
func (b *DielectricInterfaceBxDF) sampleSpecular(wo core.Vec3, uc float64, mode TransportMode, sampleFlags ReflTransFlags) (BSDFSample, bool) {
	fr := FrDielectric(core.CosTheta(wo), b.eta)
	pr, pt := fr, 1-fr
	if !sampleFlags.HasReflection() {
		pr = 0
	}
	if !sampleFlags.HasTransmission() {
		pt = 0
	}
	if pr == 0 && pt == 0 {
		return BSDFSample{}, false
	}

	if uc < pr/(pr+pt) {
		wi := core.NewVec3(-wo.X, -wo.Y, wo.Z)
		f := b.r.Scale(fr / core.AbsCosTheta(wi))
		return BSDFSample{F: f, Wi: wi, PDF: pr / (pr + pt), Flags: FlagSpecularReflection}, true
	}

	entering := core.CosTheta(wo) > 0
	etap := b.eta
	if !entering {
		etap = 1 / b.eta
	}
	wi, ok := core.Refract(wo, core.FaceForward(core.NewVec3(0, 0, 1), wo), etap)
	if !ok || wi.Z == 0 {
		return BSDFSample{}, false
	}
	v := (1 - fr) / core.AbsCosTheta(wi)
	if mode == Radiance {
		v /= core.Sqr(etap)
	}
	return BSDFSample{F: b.t.Scale(v), Wi: wi, PDF: pt / (pr + pt), Flags: FlagSpecularTransmission}, true
}

// PDF returns the Torrance-Sparrow sampling density, or zero when effectively
// smooth
func (b *DielectricInterfaceBxDF) PDF(wo, wi core.Vec3, mode TransportMode, sampleFlags ReflTransFlags) float64 {
	if b.mfDistrib.EffectivelySmooth() {
		return 0
	}
	cosThetaO, cosThetaI := core.CosTheta(wo), core.CosTheta(wi)
	if cosThetaO == 0 || cosThetaI == 0 {
		return 0
	}

	reflect := cosThetaO*cosThetaI > 0
	etap := 1.0
	if !reflect {
		if cosThetaO > 0 {
			etap = b.eta
		} else {
			etap = 1 / b.eta
		}
	}

	wm := wi.Multiply(etap).Add(wo)
	if wm.LengthSquared() == 0 {
		return 0
	}
	wm = core.FaceForward(wm.Normalize(), core.NewVec3(0, 0, 1))
	if wm.Dot(wi)*cosThetaI < 0 || wm.Dot(wo)*cosThetaO < 0 {
		return 0
	}

	fr := FrDielectric(wo.Dot(wm), b.eta)
	pr, pt := fr, 1-fr
	if !sampleFlags.HasReflection() {
		pr = 0
	}
	if !sampleFlags.HasTransmission() {
		pt = 0
	}
	if pr == 0 && pt == 0 {
		return 0
	}

	if reflect {
		return b.mfDistrib.PDF(wo, wm) / (4 * wo.AbsDot(wm)) * pr / (pr + pt)
	}
	denom := core.Sqr(wi.Dot(wm) + wo.Dot(wm)/etap)
	dwmDwi := wi.AbsDot(wm) / denom
	return b.mfDistrib.PDF(wo, wm) * dwmDwi * pt / (pr + pt)
}

// Regularize widens the microfacet roughness
func (b *DielectricInterfaceBxDF) Regularize() {
	b.mfDistrib.Regularize()
}

// DiffuseReflectance returns zero: the boundary has no diffuse component
func (b *DielectricInterfaceBxDF) DiffuseReflectance() core.Spectrum {
	return core.Spectrum{}
}
