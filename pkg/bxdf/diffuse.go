package bxdf

import (
	"math"

	"github.com/df07/go-layered-bsdf/pkg/core"
)

// IdealDiffuseBxDF is a perfectly diffuse (Lambertian) reflector
type IdealDiffuseBxDF struct {
	r core.Spectrum
}

// NewIdealDiffuse creates an ideal diffuse reflector with reflectance r
func NewIdealDiffuse(r core.Spectrum) *IdealDiffuseBxDF {
	return &IdealDiffuseBxDF{r: r}
}

func (b *IdealDiffuseBxDF) bxdf() {}

// Evaluate returns the constant r/pi value for same-hemisphere pairs
func (b *IdealDiffuseBxDF) Evaluate(wo, wi core.Vec3, mode TransportMode) core.Spectrum {
	if !core.SameHemisphere(wo, wi) {
		return core.Spectrum{}
	}
	return b.r.Scale(1 / math.Pi)
}

// Sample draws a cosine-weighted direction in wo's hemisphere
func (b *IdealDiffuseBxDF) Sample(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode, sampleFlags ReflTransFlags) (BSDFSample, bool) {
	if !sampleFlags.HasReflection() {
		return BSDFSample{}, false
	}
	wi := core.SampleCosineHemisphere(u)
	if wo.Z < 0 {
		wi.Z = -wi.Z
	}
	pdf := core.CosineHemispherePDF(core.AbsCosTheta(wi))
	return BSDFSample{
		F:     b.r.Scale(1 / math.Pi),
		Wi:    wi,
		PDF:   pdf,
		Flags: FlagDiffuseReflection,
	}, true
}

// PDF returns the cosine-hemisphere density for same-hemisphere pairs
func (b *IdealDiffuseBxDF) PDF(wo, wi core.Vec3, mode TransportMode, sampleFlags ReflTransFlags) float64 {
	if !sampleFlags.HasReflection() || !core.SameHemisphere(wo, wi) {
		return 0
	}
	return core.CosineHemispherePDF(core.AbsCosTheta(wi))
}

// Flags reports a diffuse reflection lobe unless the reflectance is zero
func (b *IdealDiffuseBxDF) Flags() BxDFFlags {
	if b.r.IsBlack() {
		return FlagUnset
	}
	return FlagDiffuseReflection
}

// Regularize is a no-op: the model has no roughness to widen
func (b *IdealDiffuseBxDF) Regularize() {}

// DiffuseReflectance returns the model's reflectance
func (b *IdealDiffuseBxDF) DiffuseReflectance() core.Spectrum {
	return b.r
}

// DiffuseBxDF is a rough diffuse reflector and transmitter. The reflection
// lobe follows the Oren-Nayar model with standard deviation sigma (degrees)
// and reduces to Lambertian when sigma is zero.
type DiffuseBxDF struct {
	r, t core.Spectrum
	a, b float64
}

// NewDiffuse creates a rough diffuse model with reflectance r, transmittance
// t, and surface roughness sigma in degrees
func NewDiffuse(r, t core.Spectrum, sigma float64) *DiffuseBxDF {
	sigma2 := core.Sqr(sigma * math.Pi / 180)
	return &DiffuseBxDF{
		r: r,
		t: t,
		a: 1 - sigma2/(2*(sigma2+0.33)),
		b: 0.45 * sigma2 / (sigma2 + 0.09),
	}
}

func (d *DiffuseBxDF) bxdf() {}

// Evaluate returns the Oren-Nayar value, or the Lambertian value when the
// roughness is zero
func (d *DiffuseBxDF) Evaluate(wo, wi core.Vec3, mode TransportMode) core.Spectrum {
	if d.b == 0 {
		if core.SameHemisphere(wo, wi) {
			return d.r.Scale(1 / math.Pi)
		}
		return d.t.Scale(1 / math.Pi)
	}

	if (core.SameHemisphere(wo, wi) && d.r.IsBlack()) ||
		(!core.SameHemisphere(wo, wi) && d.t.IsBlack()) {
		return core.Spectrum{}
	}

	// Oren-Nayar grazing-angle darkening term
	sinThetaI, sinThetaO := core.SinTheta(wi), core.SinTheta(wo)
	maxCos := math.Max(0, core.CosDPhi(wi, wo))
	var sinAlpha, tanBeta float64
	if core.AbsCosTheta(wi) > core.AbsCosTheta(wo) {
		sinAlpha = sinThetaO
		tanBeta = sinThetaI / core.AbsCosTheta(wi)
	} else {
		sinAlpha = sinThetaI
		tanBeta = sinThetaO / core.AbsCosTheta(wo)
	}

	scale := (d.a + d.b*maxCos*sinAlpha*tanBeta) / math.Pi
	if core.SameHemisphere(wo, wi) {
		return d.r.Scale(scale)
	}
	return d.t.Scale(scale)
}

// Sample chooses reflection or transmission by relative energy and draws a
// cosine-weighted direction in the corresponding hemisphere
func (d *DiffuseBxDF) Sample(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode, sampleFlags ReflTransFlags) (BSDFSample, bool) {
	pr, pt := d.r.MaxComponent(), d.t.MaxComponent()
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
		wi := core.SampleCosineHemisphere(u)
		if wo.Z < 0 {
			wi.Z = -wi.Z
		}
		pdf := core.CosineHemispherePDF(core.AbsCosTheta(wi)) * pr / (pr + pt)
		return BSDFSample{F: d.Evaluate(wo, wi, mode), Wi: wi, PDF: pdf, Flags: FlagDiffuseReflection}, true
	}

	wi := core.SampleCosineHemisphere(u)
	if wo.Z > 0 {
		wi.Z = -wi.Z
	}
	pdf := core.CosineHemispherePDF(core.AbsCosTheta(wi)) * pt / (pr + pt)
	return BSDFSample{F: d.Evaluate(wo, wi, mode), Wi: wi, PDF: pdf, Flags: FlagDiffuseTransmission}, true
}

// PDF returns the lobe-weighted cosine-hemisphere density
func (d *DiffuseBxDF) PDF(wo, wi core.Vec3, mode TransportMode, sampleFlags ReflTransFlags) float64 {
	pr, pt := d.r.MaxComponent(), d.t.MaxComponent()
	if !sampleFlags.HasReflection() {
		pr = 0
	}
	if !sampleFlags.HasTransmission() {
		pt = 0
	}
	if pr == 0 && pt == 0 {
		return 0
	}

	if core.SameHemisphere(wo, wi) {
		return pr / (pr + pt) * core.CosineHemispherePDF(core.AbsCosTheta(wi))
	}
	return pt / (pr + pt) * core.CosineHemispherePDF(core.AbsCosTheta(wi))
}

// Flags reports the lobes with nonzero energy
func (d *DiffuseBxDF) Flags() BxDFFlags {
	flags := FlagUnset
	if !d.r.IsBlack() {
		flags |= FlagDiffuseReflection
	}
	if !d.t.IsBlack() {
		flags |= FlagDiffuseTransmission
	}
	return flags
}

// Regularize is a no-op: the model is already diffuse
func (d *DiffuseBxDF) Regularize() {}

// DiffuseReflectance returns the reflection lobe's reflectance
func (d *DiffuseBxDF) DiffuseReflectance() core.Spectrum {
	return d.r
}
