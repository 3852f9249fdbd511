package bxdf

import (
	"math"

	"github.com/df07/go-layered-bsdf/pkg/core"
)

// pMax is the number of explicitly tracked light paths around the fiber
// cross-section; energy from higher orders is folded into one residual term.
const pMax = 3

const sqrtPiOver8 = 0.626657069

// HairBxDF models scattering from a dielectric fiber. It evaluates a finite
// sum over paths p = 0..pMax around the fiber cross-section, each with a
// longitudinal term Mp, an azimuthal term Np, and an attenuation Ap. The
// fiber axis lies along x in the local frame; h is the offset of the ray
// across the fiber's width.
type HairBxDF struct {
	h, gammaO, eta float64
	sigmaA         core.Spectrum
	betaM, betaN   float64
	v              [pMax + 1]float64
	s              float64
	sin2kAlpha     [3]float64
	cos2kAlpha     [3]float64
}

// NewHair creates a fiber model: h is the cross-section offset in [-1, 1],
// eta the interior index of refraction, sigmaA the absorption coefficient,
// betaM and betaN the longitudinal and azimuthal roughnesses in [0, 1], and
// alpha the scale tilt in degrees.
func NewHair(h, eta float64, sigmaA core.Spectrum, betaM, betaN, alpha float64) *HairBxDF {
	b := &HairBxDF{
		h:      core.Clamp(h, -1, 1),
		eta:    eta,
		sigmaA: sigmaA,
		betaM:  betaM,
		betaN:  betaN,
	}
	b.gammaO = core.SafeASin(b.h)

	// Longitudinal variance per path order
	b.v[0] = core.Sqr(0.726*betaM + 0.812*core.Sqr(betaM) + 3.7*math.Pow(betaM, 20))
	b.v[1] = 0.25 * b.v[0]
	b.v[2] = 4 * b.v[0]
	for p := 3; p <= pMax; p++ {
		b.v[p] = b.v[2]
	}

	// Azimuthal logistic scale
	b.s = sqrtPiOver8 * (0.265*betaN + 1.194*core.Sqr(betaN) + 5.372*math.Pow(betaN, 22))

	// Sines and cosines of 2^k multiples of the scale tilt
	b.sin2kAlpha[0] = math.Sin(alpha * math.Pi / 180)
	b.cos2kAlpha[0] = core.SafeSqrt(1 - core.Sqr(b.sin2kAlpha[0]))
	for i := 1; i < 3; i++ {
		b.sin2kAlpha[i] = 2 * b.cos2kAlpha[i-1] * b.sin2kAlpha[i-1]
		b.cos2kAlpha[i] = core.Sqr(b.cos2kAlpha[i-1]) - core.Sqr(b.sin2kAlpha[i-1])
	}
	return b
}

func (b *HairBxDF) bxdf() {}

// i0 is the modified Bessel function of the first kind, order zero
func i0(x float64) float64 {
	val := 0.0
	x2i := 1.0
	ifact := 1.0
	i4 := 1.0
	for i := 0; i < 10; i++ {
		if i > 1 {
			ifact *= float64(i)
		}
		val += x2i / (i4 * core.Sqr(ifact))
		x2i *= x * x
		i4 *= 4
	}
	return val
}

// logI0 evaluates log(I0(x)) without overflowing for large arguments
func logI0(x float64) float64 {
	if x > 12 {
		return x + 0.5*(-math.Log(2*math.Pi)+math.Log(1/x)+1/(8*x))
	}
	return math.Log(i0(x))
}

// mp is the longitudinal scattering term. Below the v = 0.1 roughness
// threshold it switches to a log-domain formula to avoid overflowing I0.
func mp(cosThetaI, cosThetaO, sinThetaI, sinThetaO, v float64) float64 {
	a := cosThetaI * cosThetaO / v
	b := sinThetaI * sinThetaO / v
	if v <= 0.1 {
		return math.Exp(logI0(a) - b - 1/v + 0.6931 + math.Log(1/(2*v)))
	}
	return math.Exp(-b) * i0(a) / (math.Sinh(1/v) * 2 * v)
}

// ap computes the attenuation of each path order: Fresnel reflection at the
// first hit, then transmission with absorption for deeper orders, with the
// geometric-series remainder folded into the last entry
func ap(cosThetaO, eta, h float64, t core.Spectrum) [pMax + 1]core.Spectrum {
	var a [pMax + 1]core.Spectrum

	cosGammaO := core.SafeSqrt(1 - h*h)
	cosTheta := cosThetaO * cosGammaO
	f := FrDielectric(cosTheta, eta)
	a[0] = core.NewUniformSpectrum(f)

	a[1] = t.Scale(core.Sqr(1 - f))
	for p := 2; p < pMax; p++ {
		a[p] = a[p-1].Mul(t).Scale(f)
	}

	one := core.NewUniformSpectrum(1)
	denom := one.Subtract(t.Scale(f))
	if !denom.IsBlack() {
		a[pMax] = a[pMax-1].Mul(t).Scale(f).Div(denom)
	}
	return a
}

// phiFn is the exit azimuth of a perfectly smooth path of order p
func phiFn(p int, gammaO, gammaT float64) float64 {
	return 2*float64(p)*gammaT - 2*gammaO + float64(p)*math.Pi
}

// np is the azimuthal scattering term: a trimmed logistic around the smooth
// exit azimuth
func np(phi float64, p int, s, gammaO, gammaT float64) float64 {
	dphi := phi - phiFn(p, gammaO, gammaT)
	for dphi > math.Pi {
		dphi -= 2 * math.Pi
	}
	for dphi < -math.Pi {
		dphi += 2 * math.Pi
	}
	return core.TrimmedLogistic(dphi, s, -math.Pi, math.Pi)
}

// reorient returns the longitudinal angles of wo tilted to account for the
// fiber's scale angle at path order p
func (b *HairBxDF) reorient(p int, sinThetaO, cosThetaO float64) (float64, float64) {
	var sinThetaOp, cosThetaOp float64
	switch p {
	case 0:
		sinThetaOp = sinThetaO*b.cos2kAlpha[1] - cosThetaO*b.sin2kAlpha[1]
		cosThetaOp = cosThetaO*b.cos2kAlpha[1] + sinThetaO*b.sin2kAlpha[1]
	case 1:
		sinThetaOp = sinThetaO*b.cos2kAlpha[0] + cosThetaO*b.sin2kAlpha[0]
		cosThetaOp = cosThetaO*b.cos2kAlpha[0] - sinThetaO*b.sin2kAlpha[0]
	case 2:
		sinThetaOp = sinThetaO*b.cos2kAlpha[2] + cosThetaO*b.sin2kAlpha[2]
		cosThetaOp = cosThetaO*b.cos2kAlpha[2] - sinThetaO*b.sin2kAlpha[2]
	default:
		sinThetaOp = sinThetaO
		cosThetaOp = cosThetaO
	}
	return sinThetaOp, math.Abs(cosThetaOp)
}

// Evaluate sums the per-order longitudinal, azimuthal and attenuation terms
func (b *HairBxDF) Evaluate(wo, wi core.Vec3, mode TransportMode) core.Spectrum {
	sinThetaO := wo.X
	cosThetaO := core.SafeSqrt(1 - core.Sqr(sinThetaO))
	phiO := math.Atan2(wo.Z, wo.Y)

	sinThetaI := wi.X
	cosThetaI := core.SafeSqrt(1 - core.Sqr(sinThetaI))
	phiI := math.Atan2(wi.Z, wi.Y)

	// Refracted longitudinal angle and transmitted azimuthal offset
	sinThetaT := sinThetaO / b.eta
	cosThetaT := core.SafeSqrt(1 - core.Sqr(sinThetaT))
	etap := math.Sqrt(b.eta*b.eta-core.Sqr(sinThetaO)) / cosThetaO
	sinGammaT := b.h / etap
	cosGammaT := core.SafeSqrt(1 - core.Sqr(sinGammaT))
	gammaT := core.SafeASin(sinGammaT)

	// Absorption along the internal chord
	t := b.sigmaA.Scale(-2 * cosGammaT / cosThetaT).Exp()

	phi := phiI - phiO
	a := ap(cosThetaO, b.eta, b.h, t)

	var fsum core.Spectrum
	for p := 0; p < pMax; p++ {
		sinThetaOp, cosThetaOp := b.reorient(p, sinThetaO, cosThetaO)
		fsum = fsum.Add(a[p].Scale(
			mp(cosThetaI, cosThetaOp, sinThetaI, sinThetaOp, b.v[p]) *
				np(phi, p, b.s, b.gammaO, gammaT)))
	}
	fsum = fsum.Add(a[pMax].Scale(
		mp(cosThetaI, cosThetaO, sinThetaI, sinThetaO, b.v[pMax]) / (2 * math.Pi)))

	if core.AbsCosTheta(wi) > 0 {
		fsum = fsum.Scale(1 / core.AbsCosTheta(wi))
	}
	return fsum
}

// apPDF normalizes the per-order attenuation energies into a discrete
// distribution for lobe selection
func (b *HairBxDF) apPDF(cosThetaO float64) [pMax + 1]float64 {
	sinThetaO := core.SafeSqrt(1 - core.Sqr(cosThetaO))
	sinThetaT := sinThetaO / b.eta
	cosThetaT := core.SafeSqrt(1 - core.Sqr(sinThetaT))
	etap := math.Sqrt(b.eta*b.eta-core.Sqr(sinThetaO)) / cosThetaO
	sinGammaT := b.h / etap
	cosGammaT := core.SafeSqrt(1 - core.Sqr(sinGammaT))
	t := b.sigmaA.Scale(-2 * cosGammaT / cosThetaT).Exp()

	a := ap(cosThetaO, b.eta, b.h, t)
	sumY := 0.0
	for _, s := range a {
		sumY += s.Average()
	}
	var pdf [pMax + 1]float64
	for i, s := range a {
		pdf[i] = s.Average() / sumY
	}
	return pdf
}

// Sample selects a path order by its relative energy, samples the
// longitudinal cone for that order, and draws the azimuthal offset from the
// trimmed logistic
func (b *HairBxDF) Sample(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode, sampleFlags ReflTransFlags) (BSDFSample, bool) {
	if !sampleFlags.HasReflection() {
		return BSDFSample{}, false
	}

	sinThetaO := wo.X
	cosThetaO := core.SafeSqrt(1 - core.Sqr(sinThetaO))
	phiO := math.Atan2(wo.Z, wo.Y)

	// Choose the path order, remapping uc for reuse below
	pdfAp := b.apPDF(cosThetaO)
	p := 0
	for p < pMax && uc >= pdfAp[p] {
		uc -= pdfAp[p]
		p++
	}
	if pdfAp[p] == 0 {
		return BSDFSample{}, false
	}
	uc = math.Min(uc/pdfAp[p], core.OneMinusEpsilon)

	// Sample the longitudinal term for the chosen order
	sinThetaOp, cosThetaOp := b.reorient(p, sinThetaO, cosThetaO)
	cosTheta := 1 + b.v[p]*math.Log(math.Max(u.X, 1e-5)+(1-u.X)*math.Exp(-2/b.v[p]))
	sinTheta := core.SafeSqrt(1 - core.Sqr(cosTheta))
	cosPhi := math.Cos(2 * math.Pi * u.Y)
	sinThetaI := -cosTheta*sinThetaOp + sinTheta*cosPhi*cosThetaOp
	cosThetaI := core.SafeSqrt(1 - core.Sqr(sinThetaI))

	// Sample the azimuthal term
	etap := math.Sqrt(b.eta*b.eta-core.Sqr(sinThetaO)) / cosThetaO
	sinGammaT := b.h / etap
	gammaT := core.SafeASin(sinGammaT)
	var dphi float64
	if p < pMax {
		dphi = phiFn(p, b.gammaO, gammaT) + core.SampleTrimmedLogistic(uc, b.s, -math.Pi, math.Pi)
	} else {
		dphi = 2 * math.Pi * uc
	}

	phiI := phiO + dphi
	wi := core.NewVec3(sinThetaI, cosThetaI*math.Cos(phiI), cosThetaI*math.Sin(phiI))

	pdf := 0.0
	for q := 0; q < pMax; q++ {
		sinThetaOq, cosThetaOq := b.reorient(q, sinThetaO, cosThetaO)
		pdf += mp(cosThetaI, cosThetaOq, sinThetaI, sinThetaOq, b.v[q]) *
			pdfAp[q] * np(dphi, q, b.s, b.gammaO, gammaT)
	}
	pdf += mp(cosThetaI, cosThetaO, sinThetaI, sinThetaO, b.v[pMax]) *
		pdfAp[pMax] / (2 * math.Pi)
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

// PDF recomputes the density Sample reports for an arbitrary direction pair
func (b *HairBxDF) PDF(wo, wi core.Vec3, mode TransportMode, sampleFlags ReflTransFlags) float64 {
	if !sampleFlags.HasReflection() {
		return 0
	}

	sinThetaO := wo.X
	cosThetaO := core.SafeSqrt(1 - core.Sqr(sinThetaO))
	phiO := math.Atan2(wo.Z, wo.Y)

	sinThetaI := wi.X
	cosThetaI := core.SafeSqrt(1 - core.Sqr(sinThetaI))
	phiI := math.Atan2(wi.Z, wi.Y)

	etap := math.Sqrt(b.eta*b.eta-core.Sqr(sinThetaO)) / cosThetaO
	sinGammaT := b.h / etap
	gammaT := core.SafeASin(sinGammaT)

	pdfAp := b.apPDF(cosThetaO)
	phi := phiI - phiO

	pdf := 0.0
	for p := 0; p < pMax; p++ {
		sinThetaOp, cosThetaOp := b.reorient(p, sinThetaO, cosThetaO)
		pdf += mp(cosThetaI, cosThetaOp, sinThetaI, sinThetaOp, b.v[p]) *
			pdfAp[p] * np(phi, p, b.s, b.gammaO, gammaT)
	}
	pdf += mp(cosThetaI, cosThetaO, sinThetaI, sinThetaO, b.v[pMax]) *
		pdfAp[pMax] / (2 * math.Pi)
	return pdf
}

// Flags reports a glossy reflection lobe
func (b *HairBxDF) Flags() BxDFFlags {
	return FlagGlossyReflection
}

// Regularize is a no-op: the fiber roughnesses are fixed at construction
func (b *HairBxDF) Regularize() {}

// DiffuseReflectance returns zero: fiber scattering is glossy
func (b *HairBxDF) DiffuseReflectance() core.Spectrum {
	return core.Spectrum{}
}

// SigmaAFromConcentration maps eumelanin and pheomelanin pigment
// concentrations to an absorption coefficient
func SigmaAFromConcentration(ce, cp float64) core.Spectrum {
	eumelanin := core.NewSpectrum(0.419, 0.697, 1.37)
	pheomelanin := core.NewSpectrum(0.187, 0.4, 1.05)
	return eumelanin.Scale(ce).Add(pheomelanin.Scale(cp))
}

// SigmaAFromReflectance inverts an observed fiber color into an absorption
// coefficient for the given azimuthal roughness
func SigmaAFromReflectance(c core.Spectrum, betaN float64) core.Spectrum {
	denom := 5.969 - 0.215*betaN + 2.532*core.Sqr(betaN) -
		10.73*math.Pow(betaN, 3) + 5.574*math.Pow(betaN, 4) +
		0.245*math.Pow(betaN, 5)
	inv := func(v float64) float64 {
		return core.Sqr(math.Log(v) / denom)
	}
	return core.NewSpectrum(inv(c.R), inv(c.G), inv(c.B))
}
