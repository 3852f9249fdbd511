package bxdf

import (
	"github.com/df07/go-layered-bsdf/pkg/core"
)

// CoatedDiffuseBxDF is a dielectric coating over a diffuse substrate: clear
// coat over paint. All scattering logic comes from the layered estimator; the
// only specialization is a diffuse-reflectance estimate that accounts for the
// light lost to the coat's Fresnel reflection before it reaches the
// substrate.
type CoatedDiffuseBxDF struct {
	LayeredBxDF
	topEta float64
}

// NewCoatedDiffuse composes a dielectric top over an ideal diffuse bottom
func NewCoatedDiffuse(top *DielectricInterfaceBxDF, bottom *IdealDiffuseBxDF, thickness float64, albedo core.Spectrum, g float64, config LayeredConfig) *CoatedDiffuseBxDF {
	return &CoatedDiffuseBxDF{
		LayeredBxDF: *NewLayered(top, bottom, thickness, albedo, g, config),
		topEta:      top.Eta(),
	}
}

// DiffuseReflectance scales the substrate's albedo by the fraction of
// diffusely arriving light that survives the coat's Fresnel reflectance
func (c *CoatedDiffuseBxDF) DiffuseReflectance() core.Spectrum {
	return c.bottom.DiffuseReflectance().Scale(1 - FrDiffuseReflectance(c.topEta))
}

// CoatedConductorBxDF is a dielectric coating over a conductive substrate:
// clear coat over metal
type CoatedConductorBxDF struct {
	LayeredBxDF
}

// NewCoatedConductor composes a dielectric top over a conductor bottom
func NewCoatedConductor(top *DielectricInterfaceBxDF, bottom *ConductorBxDF, thickness float64, albedo core.Spectrum, g float64, config LayeredConfig) *CoatedConductorBxDF {
	return &CoatedConductorBxDF{
		LayeredBxDF: *NewLayered(top, bottom, thickness, albedo, g, config),
	}
}
