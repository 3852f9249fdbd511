package bxdf

import (
	"math"

	"github.com/df07/go-layered-bsdf/pkg/core"
)

// TrowbridgeReitz is the GGX microfacet distribution. The glossy dielectric
// and conductor models consume it for their normal distribution, shadowing,
// and visible-normal sampling terms.
type TrowbridgeReitz struct {
	alphaX, alphaY float64
}

// NewTrowbridgeReitz creates a distribution with the given anisotropic
// roughness parameters
func NewTrowbridgeReitz(alphaX, alphaY float64) TrowbridgeReitz {
	return TrowbridgeReitz{alphaX: alphaX, alphaY: alphaY}
}

// RoughnessToAlpha remaps a perceptually linear roughness value to the
// distribution's alpha parameter
func RoughnessToAlpha(roughness float64) float64 {
	return math.Sqrt(roughness)
}

// EffectivelySmooth reports whether the roughness is below the threshold
// where the model should collapse to a delta-specular lobe
func (d TrowbridgeReitz) EffectivelySmooth() bool {
	return math.Max(d.alphaX, d.alphaY) < 1e-3
}

// D evaluates the differential area of microfacets with normal wm
func (d TrowbridgeReitz) D(wm core.Vec3) float64 {
	tan2Theta := core.Tan2Theta(wm)
	if math.IsInf(tan2Theta, 0) {
		return 0
	}
	cos4Theta := core.Sqr(core.Cos2Theta(wm))
	if cos4Theta < 1e-16 {
		return 0
	}
	e := tan2Theta * (core.Sqr(core.CosPhi(wm)/d.alphaX) + core.Sqr(core.SinPhi(wm)/d.alphaY))
	return 1 / (math.Pi * d.alphaX * d.alphaY * cos4Theta * core.Sqr(1+e))
}

// Lambda is the auxiliary shadowing-masking integral for direction w
func (d TrowbridgeReitz) Lambda(w core.Vec3) float64 {
	tan2Theta := core.Tan2Theta(w)
	if math.IsInf(tan2Theta, 0) {
		return 0
	}
	alpha2 := core.Sqr(core.CosPhi(w)*d.alphaX) + core.Sqr(core.SinPhi(w)*d.alphaY)
	return (math.Sqrt(1+alpha2*tan2Theta) - 1) / 2
}

// G1 is the masking function for a single direction
func (d TrowbridgeReitz) G1(w core.Vec3) float64 {
	return 1 / (1 + d.Lambda(w))
}

// G is the joint masking-shadowing function for a direction pair
func (d TrowbridgeReitz) G(wo, wi core.Vec3) float64 {
	return 1 / (1 + d.Lambda(wo) + d.Lambda(wi))
}

// SampleWm draws a visible microfacet normal as seen from wo
func (d TrowbridgeReitz) SampleWm(wo core.Vec3, u core.Vec2) core.Vec3 {
	// Transform wo to the hemispherical configuration
	wh := core.NewVec3(d.alphaX*wo.X, d.alphaY*wo.Y, wo.Z).Normalize()
	if wh.Z < 0 {
		wh = wh.Negate()
	}

	// Build an orthonormal basis around wh
	var t1 core.Vec3
	if wh.Z < 0.999 {
		t1 = core.NewVec3(0, 0, 1).Cross(wh).Normalize()
	} else {
		t1 = core.NewVec3(1, 0, 0)
	}
	t2 := wh.Cross(t1)

	// Sample the projected disk and warp the lower half toward the horizon
	p := core.SampleUniformDiskPolar(u)
	h := math.Sqrt(1 - p.X*p.X)
	p.Y = core.Lerp((1+wh.Z)/2, h, p.Y)

	// Reproject to the hemisphere and return to the ellipsoid configuration
	pz := math.Sqrt(math.Max(0, 1-p.X*p.X-p.Y*p.Y))
	nh := t1.Multiply(p.X).Add(t2.Multiply(p.Y)).Add(wh.Multiply(pz))
	return core.NewVec3(d.alphaX*nh.X, d.alphaY*nh.Y, math.Max(1e-6, nh.Z)).Normalize()
}

// PDF returns the density of SampleWm producing wm as seen from w
func (d TrowbridgeReitz) PDF(w, wm core.Vec3) float64 {
	cosTheta := core.AbsCosTheta(w)
	if cosTheta == 0 {
		return 0
	}
	return d.G1(w) / cosTheta * d.D(wm) * w.AbsDot(wm)
}

// Regularize widens near-specular roughness so that difficult light paths
// leave a sampleable footprint. Energy handling is unchanged.
func (d *TrowbridgeReitz) Regularize() {
	if d.alphaX < 0.3 {
		d.alphaX = core.Clamp(2*d.alphaX, 0.1, 0.3)
	}
	if d.alphaY < 0.3 {
		d.alphaY = core.Clamp(2*d.alphaY, 0.1, 0.3)
	}
}
