package bxdf

import (
	"github.com/df07/go-layered-bsdf/pkg/core"
)

// ThinDielectricBxDF models two parallel smooth dielectric interfaces close
// enough together that light bounces between them before leaving. Summing the
// Fresnel geometric series over those internal bounces gives the effective
// reflectance and transmittance; both terminal events are specular.
type ThinDielectricBxDF struct {
	eta float64
}

// NewThinDielectric creates a thin dielectric slab with relative index eta
func NewThinDielectric(eta float64) *ThinDielectricBxDF {
	return &ThinDielectricBxDF{eta: eta}
}

func (b *ThinDielectricBxDF) bxdf() {}

// Evaluate returns zero: both lobes are specular
func (b *ThinDielectricBxDF) Evaluate(wo, wi core.Vec3, mode TransportMode) core.Spectrum {
	return core.Spectrum{}
}

// Sample chooses between mirror reflection and straight-through transmission
// with probabilities from the series-corrected Fresnel terms; R+T stays
// exactly 1
func (b *ThinDielectricBxDF) Sample(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode, sampleFlags ReflTransFlags) (BSDFSample, bool) {
	r := FrDielectric(core.CosTheta(wo), b.eta)
	t := 1 - r
	// Sum the series of bounces between the two interfaces
	if r < 1 {
		r += t * t * r / (1 - r*r)
		t = 1 - r
	}

	pr, pt := r, t
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
		if wi.Z == 0 {
			return BSDFSample{}, false
		}
		fr := core.NewUniformSpectrum(r / core.AbsCosTheta(wi))
		return BSDFSample{F: fr, Wi: wi, PDF: pr / (pr + pt), Flags: FlagSpecularReflection}, true
	}

	// A thin slab refracts in and back out, so transmission passes straight through
	wi := wo.Negate()
	if wi.Z == 0 {
		return BSDFSample{}, false
	}
	ft := core.NewUniformSpectrum(t / core.AbsCosTheta(wi))
	return BSDFSample{F: ft, Wi: wi, PDF: pt / (pr + pt), Flags: FlagSpecularTransmission}, true
}

// PDF returns zero for every finite direction pair
func (b *ThinDielectricBxDF) PDF(wo, wi core.Vec3, mode TransportMode, sampleFlags ReflTransFlags) float64 {
	return 0
}

// Flags reports both specular lobes
func (b *ThinDielectricBxDF) Flags() BxDFFlags {
	return FlagReflection | FlagTransmission | FlagSpecular
}

// Regularize is a no-op
func (b *ThinDielectricBxDF) Regularize() {}

// DiffuseReflectance returns zero: the slab has no diffuse component
func (b *ThinDielectricBxDF) DiffuseReflectance() core.Spectrum {
	return core.Spectrum{}
}
