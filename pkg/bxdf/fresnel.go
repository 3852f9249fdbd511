package bxdf

import (
	"math"

	"github.com/df07/go-layered-bsdf/pkg/core"
)

// FrDielectric computes the unpolarized Fresnel reflectance at a smooth
// dielectric boundary. cosThetaI is signed: negative means the direction is
// on the transmitted side, in which case eta is inverted. Returns 1 under
// total internal reflection.
func FrDielectric(cosThetaI, eta float64) float64 {
	cosThetaI = core.Clamp(cosThetaI, -1, 1)
	if cosThetaI < 0 {
		eta = 1 / eta
		cosThetaI = -cosThetaI
	}

	sin2ThetaI := 1 - cosThetaI*cosThetaI
	sin2ThetaT := sin2ThetaI / (eta * eta)
	if sin2ThetaT >= 1 {
		return 1 // Total internal reflection
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)

	rParl := (eta*cosThetaI - cosThetaT) / (eta*cosThetaI + cosThetaT)
	rPerp := (cosThetaI - eta*cosThetaT) / (cosThetaI + eta*cosThetaT)
	return (rParl*rParl + rPerp*rPerp) / 2
}

// FrConductor computes the spectral Fresnel reflectance of a conductor with
// complex index of refraction eta + ik
func FrConductor(cosThetaI float64, eta, k core.Spectrum) core.Spectrum {
	fr := func(eta, k float64) float64 {
		c := core.Clamp(cosThetaI, 0, 1)
		cos2 := c * c
		sin2 := 1 - cos2
		eta2, k2 := eta*eta, k*k

		t0 := eta2 - k2 - sin2
		a2plusb2 := math.Sqrt(math.Max(0, t0*t0+4*eta2*k2))
		t1 := a2plusb2 + cos2
		a := math.Sqrt(math.Max(0, (a2plusb2+t0)/2))
		t2 := 2 * a * c
		rs := (t1 - t2) / (t1 + t2)

		t3 := cos2*a2plusb2 + sin2*sin2
		t4 := t2 * sin2
		rp := rs * (t3 - t4) / (t3 + t4)

		return (rp + rs) / 2
	}
	return core.NewSpectrum(fr(eta.R, k.R), fr(eta.G, k.G), fr(eta.B, k.B))
}

// FresnelMoment1 evaluates a polynomial fit of the first angular moment of
// the dielectric Fresnel reflectance, used to normalize the subsurface exit
// lobe
func FresnelMoment1(eta float64) float64 {
	eta2 := eta * eta
	eta3 := eta2 * eta
	eta4 := eta3 * eta
	eta5 := eta4 * eta
	if eta < 1 {
		return 0.45966 - 1.73965*eta + 3.37668*eta2 - 3.904945*eta3 +
			2.49277*eta4 - 0.68441*eta5
	}
	return -4.61686 + 11.1136*eta - 10.4646*eta2 + 5.11455*eta3 -
		1.27198*eta4 + 0.12746*eta5
}

// FrDiffuseReflectance approximates the hemispherical average of the
// dielectric Fresnel reflectance for light arriving from a diffuse
// distribution (Egan and Hilgeman fit)
func FrDiffuseReflectance(eta float64) float64 {
	return -1.440/(eta*eta) + 0.710/eta + 0.668 + 0.0636*eta
}
