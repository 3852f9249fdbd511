package core

import "math"

// SampleCosineHemisphere generates a cosine-weighted direction in the local
// frame's upper hemisphere (z > 0)
func SampleCosineHemisphere(sample Vec2) Vec3 {
	d := SampleUniformDiskConcentric(sample)
	z := SafeSqrt(1 - d.X*d.X - d.Y*d.Y)
	return NewVec3(d.X, d.Y, z)
}

// CosineHemispherePDF returns the density of SampleCosineHemisphere for a
// direction with the given cosine to the normal
func CosineHemispherePDF(cosTheta float64) float64 {
	return cosTheta / math.Pi
}

// SampleUniformSphere generates a uniform random direction on the unit sphere
func SampleUniformSphere(sample Vec2) Vec3 {
	z := 1 - 2*sample.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// UniformSpherePDF returns the constant density of SampleUniformSphere
func UniformSpherePDF() float64 {
	return 1 / (4 * math.Pi)
}

// SampleUniformDiskConcentric maps a square sample uniformly to the unit disk,
// avoiding rejection sampling
func SampleUniformDiskConcentric(sample Vec2) Vec2 {
	uOffset := NewVec2(2*sample.X-1, 2*sample.Y-1)
	if uOffset.X == 0 && uOffset.Y == 0 {
		return NewVec2(0, 0)
	}

	var theta, r float64
	if math.Abs(uOffset.X) > math.Abs(uOffset.Y) {
		r = uOffset.X
		theta = math.Pi / 4 * (uOffset.Y / uOffset.X)
	} else {
		r = uOffset.Y
		theta = math.Pi/2 - math.Pi/4*(uOffset.X/uOffset.Y)
	}
	return NewVec2(r*math.Cos(theta), r*math.Sin(theta))
}

// SampleUniformDiskPolar generates a uniform point on the unit disk using
// polar coordinates
func SampleUniformDiskPolar(sample Vec2) Vec2 {
	r := math.Sqrt(sample.X)
	theta := 2 * math.Pi * sample.Y
	return NewVec2(r*math.Cos(theta), r*math.Sin(theta))
}

// SampleExponential draws a distance from an exponential distribution with
// rate a using the inversion method
func SampleExponential(u, a float64) float64 {
	return -math.Log(1-u) / a
}

// PowerHeuristic computes the exponent-2 power heuristic weight for combining
// two sampling strategies with nf samples of density fPDF and ng samples of
// density gPDF
func PowerHeuristic(nf int, fPDF float64, ng int, gPDF float64) float64 {
	f := float64(nf) * fPDF
	g := float64(ng) * gPDF
	if f*f+g*g == 0 {
		return 0
	}
	return (f * f) / (f*f + g*g)
}

// Logistic evaluates the logistic distribution with scale s at x
func Logistic(x, s float64) float64 {
	x = math.Abs(x)
	e := math.Exp(-x / s)
	return e / (s * Sqr(1+e))
}

// LogisticCDF evaluates the cumulative distribution of the logistic at x
func LogisticCDF(x, s float64) float64 {
	return 1 / (1 + math.Exp(-x/s))
}

// TrimmedLogistic evaluates the logistic distribution normalized to [a, b]
func TrimmedLogistic(x, s, a, b float64) float64 {
	return Logistic(x, s) / (LogisticCDF(b, s) - LogisticCDF(a, s))
}

// SampleTrimmedLogistic draws from the logistic distribution restricted to
// [a, b] by inverting its CDF
func SampleTrimmedLogistic(u, s, a, b float64) float64 {
	k := LogisticCDF(b, s) - LogisticCDF(a, s)
	x := -s * math.Log(1/(u*k+LogisticCDF(a, s))-1)
	if math.IsNaN(x) {
		x = a
	}
	return Clamp(x, a, b)
}
