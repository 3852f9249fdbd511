package bxdf

import (
	"github.com/df07/go-layered-bsdf/pkg/core"
)

// Rho estimates the hemispherical reflectance of a model for the outgoing
// direction wo by Monte Carlo over n importance samples. It is the tool the
// validation CLI and the energy-conservation tests use: a physically valid
// model never estimates above 1 in any channel.
func Rho(b BxDF, wo core.Vec3, sampler core.Sampler, n int) core.Spectrum {
	var r core.Spectrum
	for i := 0; i < n; i++ {
		s, ok := b.Sample(wo, sampler.Get1D(), sampler.Get2D(), Radiance, ReflTransAll)
		if !ok || s.PDF == 0 {
			continue
		}
		r = r.Add(s.F.Scale(core.AbsCosTheta(s.Wi) / s.PDF))
	}
	return r.Scale(1 / float64(n))
}
