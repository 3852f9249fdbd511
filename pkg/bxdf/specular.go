package bxdf

import (
	"github.com/df07/go-layered-bsdf/pkg/core"
)

// SpecularReflectionBxDF is a perfect mirror lobe weighted by the dielectric
// Fresnel reflectance. Its specular energy is carried entirely through the
// sample's weight/pdf pair, so Evaluate and PDF report zero.
type SpecularReflectionBxDF struct {
	eta float64
	r   core.Spectrum
}

// NewSpecularReflection creates a specular reflection lobe for a boundary
// with relative index eta and reflectance scale r
func NewSpecularReflection(eta float64, r core.Spectrum) *SpecularReflectionBxDF {
	if eta == 1 {
		eta = 1.001
	}
	return &SpecularReflectionBxDF{eta: eta, r: r}
}

func (b *SpecularReflectionBxDF) bxdf() {}

// Evaluate returns zero: a delta lobe has no area-measure value
func (b *SpecularReflectionBxDF) Evaluate(wo, wi core.Vec3, mode TransportMode) core.Spectrum {
	return core.Spectrum{}
}

// Sample mirrors wo about the normal
func (b *SpecularReflectionBxDF) Sample(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode, sampleFlags ReflTransFlags) (BSDFSample, bool) {
	if !sampleFlags.HasReflection() {
		return BSDFSample{}, false
	}
	wi := core.NewVec3(-wo.X, -wo.Y, wo.Z)
	if wi.Z == 0 {
		return BSDFSample{}, false
	}
	fr := b.r.Scale(FrDielectric(core.CosTheta(wo), b.eta) / core.AbsCosTheta(wi))
	return BSDFSample{F: fr, Wi: wi, PDF: 1, Flags: FlagSpecularReflection}, true
}

// PDF returns zero for every finite direction pair
func (b *SpecularReflectionBxDF) PDF(wo, wi core.Vec3, mode TransportMode, sampleFlags ReflTransFlags) float64 {
	return 0
}

// Flags reports a specular reflection lobe
func (b *SpecularReflectionBxDF) Flags() BxDFFlags {
	return FlagSpecularReflection
}

// Regularize is a no-op
func (b *SpecularReflectionBxDF) Regularize() {}

// DiffuseReflectance returns zero: the lobe has no diffuse component
func (b *SpecularReflectionBxDF) DiffuseReflectance() core.Spectrum {
	return core.Spectrum{}
}

// SpecularTransmissionBxDF is a perfect Snell transmission lobe weighted by
// the dielectric Fresnel transmittance
type SpecularTransmissionBxDF struct {
	eta float64
	t   core.Spectrum
}

// NewSpecularTransmission creates a specular transmission lobe for a boundary
// with relative index eta and transmittance scale t
func NewSpecularTransmission(eta float64, t core.Spectrum) *SpecularTransmissionBxDF {
	if eta == 1 {
		eta = 1.001
	}
	return &SpecularTransmissionBxDF{eta: eta, t: t}
}

func (b *SpecularTransmissionBxDF) bxdf() {}

// Evaluate returns zero: a delta lobe has no area-measure value
func (b *SpecularTransmissionBxDF) Evaluate(wo, wi core.Vec3, mode TransportMode) core.Spectrum {
	return core.Spectrum{}
}

// Sample refracts wo through the boundary, failing on total internal
// reflection
func (b *SpecularTransmissionBxDF) Sample(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode, sampleFlags ReflTransFlags) (BSDFSample, bool) {
	if wo.Z == 0 || !sampleFlags.HasTransmission() {
		return BSDFSample{}, false
	}

	// Relative index depends on which side the direction arrives from
	entering := core.CosTheta(wo) > 0
	etap := b.eta
	if !entering {
		etap = 1 / b.eta
	}

	wi, ok := core.Refract(wo, core.FaceForward(core.NewVec3(0, 0, 1), wo), etap)
	if !ok {
		return BSDFSample{}, false
	}

	ft := b.t.Scale((1 - FrDielectric(core.CosTheta(wo), b.eta)) / core.AbsCosTheta(wi))
	// Account for non-symmetry with transmission to a different medium
	if mode == Radiance {
		ft = ft.Scale(1 / core.Sqr(etap))
	}
	return BSDFSample{F: ft, Wi: wi, PDF: 1, Flags: FlagSpecularTransmission}, true
}

// PDF returns zero for every finite direction pair
func (b *SpecularTransmissionBxDF) PDF(wo, wi core.Vec3, mode TransportMode, sampleFlags ReflTransFlags) float64 {
	return 0
}

// Flags reports a specular transmission lobe
func (b *SpecularTransmissionBxDF) Flags() BxDFFlags {
	return FlagSpecularTransmission
}

// Regularize is a no-op
func (b *SpecularTransmissionBxDF) Regularize() {}

// DiffuseReflectance returns zero: the lobe has no diffuse component
func (b *SpecularTransmissionBxDF) DiffuseReflectance() core.Spectrum {
	return core.Spectrum{}
}
