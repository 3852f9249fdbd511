package bxdf

import (
	"math"

	"github.com/df07/go-layered-bsdf/pkg/core"
)

// pdfBlend is the empirically chosen weight of the approximate layered PDF:
// the stochastic path-probability estimate is blended against a uniform-
// sphere density so the result stays strictly positive wherever Sample can
// produce directions.
const pdfBlend = 0.9

// LayeredConfig tunes the layered estimator's random walks
type LayeredConfig struct {
	MaxDepth int  // Walk bounce limit
	NSamples int  // Independent walk samples averaged per Evaluate/PDF call
	TwoSided bool // Mirror the stack when wo arrives on the back side
}

// DefaultLayeredConfig returns the configuration the composite materials use
// unless told otherwise
func DefaultLayeredConfig() LayeredConfig {
	return LayeredConfig{MaxDepth: 10, NSamples: 1, TwoSided: true}
}

// interfaceRef is a non-owning reference to exactly one of the two interfaces
// of a layered stack. After assignment it holds either the top or the bottom,
// never both; its lifetime is bounded to a single estimator call.
type interfaceRef struct {
	top, bottom BxDF
}

func refTop(b BxDF) interfaceRef    { return interfaceRef{top: b} }
func refBottom(b BxDF) interfaceRef { return interfaceRef{bottom: b} }

func (r interfaceRef) get() BxDF {
	if r.top != nil {
		return r.top
	}
	return r.bottom
}

func (r interfaceRef) Evaluate(wo, wi core.Vec3, mode TransportMode) core.Spectrum {
	return r.get().Evaluate(wo, wi, mode)
}

func (r interfaceRef) Sample(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode, sampleFlags ReflTransFlags) (BSDFSample, bool) {
	return r.get().Sample(wo, uc, u, mode, sampleFlags)
}

func (r interfaceRef) PDF(wo, wi core.Vec3, mode TransportMode, sampleFlags ReflTransFlags) float64 {
	return r.get().PDF(wo, wi, mode, sampleFlags)
}

func (r interfaceRef) Flags() BxDFFlags {
	return r.get().Flags()
}

func (r interfaceRef) DiffuseReflectance() core.Spectrum {
	return r.get().DiffuseReflectance()
}

// IsNonSpecular reports whether the referenced interface has a finite
// sampling density. Next-event estimation and MIS only apply at such
// interfaces; a specular interface's density is a Dirac mass.
func (r interfaceRef) IsNonSpecular() bool {
	return r.Flags().IsNonSpecular()
}

// LayeredBxDF composes a thin top interface over a bottom substrate,
// separated by a slab of the given thickness that may hold a homogeneous
// isotropic-ish scattering medium (single-scattering albedo, Henyey-
// Greenstein asymmetry g). The compound value, importance sample, and PDF are
// estimated with an unbiased random walk between the two interfaces, using
// MIS toward a pre-sampled exit direction and Russian roulette termination.
type LayeredBxDF struct {
	top, bottom BxDF
	thickness   float64
	g           float64
	albedo      core.Spectrum
	config      LayeredConfig
}

// NewLayered composes top over bottom. At least one of the two interfaces
// must be transmissive: a stack light can never cross is a material
// misconfiguration, and construction panics rather than silently returning
// wrong radiance.
func NewLayered(top, bottom BxDF, thickness float64, albedo core.Spectrum, g float64, config LayeredConfig) *LayeredBxDF {
	if !top.Flags().IsTransmissive() && !bottom.Flags().IsTransmissive() {
		panic("bxdf: layered stack needs at least one transmissive interface")
	}
	return &LayeredBxDF{
		top:       top,
		bottom:    bottom,
		thickness: math.Max(thickness, math.SmallestNonzeroFloat64),
		g:         g,
		albedo:    albedo,
		config:    config,
	}
}

func (l *LayeredBxDF) bxdf() {}

// tr is the slab transmittance for travelling dz in depth along direction w,
// saturating to 1 when the distance is numerically negligible
func tr(dz float64, w core.Vec3) float64 {
	if math.Abs(dz) <= math.SmallestNonzeroFloat64 {
		return 1
	}
	return math.Exp(-math.Abs(dz / w.Z))
}

// Flags reports the physically justified union of the two interfaces'
// capabilities
func (l *LayeredBxDF) Flags() BxDFFlags {
	topFlags, bottomFlags := l.top.Flags(), l.bottom.Flags()

	flags := FlagReflection
	if topFlags.IsSpecular() {
		flags |= FlagSpecular
	}
	if topFlags.IsDiffuse() || bottomFlags.IsDiffuse() || !l.albedo.IsBlack() {
		flags |= FlagDiffuse
	} else if topFlags.IsGlossy() || bottomFlags.IsGlossy() {
		flags |= FlagGlossy
	}
	if topFlags.IsTransmissive() && bottomFlags.IsTransmissive() {
		flags |= FlagTransmission
	}
	return flags
}

// Regularize regularizes both interfaces
func (l *LayeredBxDF) Regularize() {
	l.top.Regularize()
	l.bottom.Regularize()
}

// DiffuseReflectance sums the two interfaces' estimates
func (l *LayeredBxDF) DiffuseReflectance() core.Spectrum {
	return l.top.DiffuseReflectance().Add(l.bottom.DiffuseReflectance())
}

// Evaluate estimates the compound scattering value for (wo, wi) by averaging
// NSamples independent random walks through the stack. The walk's random
// stream is keyed by a hash of WalkSeed and the direction pair, so repeated
// evaluation of the same pair is bit-identical.
func (l *LayeredBxDF) Evaluate(wo, wi core.Vec3, mode TransportMode) core.Spectrum {
	var f core.Spectrum

	if l.config.TwoSided && wo.Z < 0 {
		wo = wo.Negate()
		wi = wi.Negate()
	}

	// Entry interface is whichever side wo arrives on
	enteredTop := wo.Z > 0
	var enterInterface interfaceRef
	if enteredTop {
		enterInterface = refTop(l.top)
	} else {
		enterInterface = refBottom(l.bottom)
	}

	// Exit face depends on whether the pair reflects or transmits overall
	var exitInterface, nonExitInterface interfaceRef
	var exitZ float64
	if core.SameHemisphere(wo, wi) != enteredTop {
		exitInterface = refBottom(l.bottom)
		nonExitInterface = refTop(l.top)
		exitZ = 0
	} else {
		exitInterface = refTop(l.top)
		nonExitInterface = refBottom(l.bottom)
		exitZ = l.thickness
	}

	// The single-bounce reflection term is deterministic; scaling by
	// NSamples cancels the averaging below
	if core.SameHemisphere(wo, wi) {
		f = enterInterface.Evaluate(wo, wi, mode).Scale(float64(l.config.NSamples))
	}

	rng := core.NewSeededSampler(
		core.Hash(WalkSeed, wo.X, wo.Y, wo.Z),
		core.Hash(0, wi.X, wi.Y, wi.Z),
	)
	phase := NewHGPhaseFunction(l.g)

	for s := 0; s < l.config.NSamples; s++ {
		// Enter the stack through the entry interface's transmission lobe
		wos, ok := enterInterface.Sample(wo, rng.Get1D(), rng.Get2D(), mode, ReflTransTransmission)
		if !validSample(wos, ok) {
			continue
		}

		// Pre-sample the exit interface's transmission lobe from wi's side;
		// this is the NEE target for the whole walk
		wis, ok := exitInterface.Sample(wi, rng.Get1D(), rng.Get2D(), mode.Other(), ReflTransTransmission)
		if !validSample(wis, ok) {
			continue
		}

		beta := wos.F.Scale(core.AbsCosTheta(wos.Wi) / wos.PDF)
		w := wos.Wi
		z := 0.0
		if enteredTop {
			z = l.thickness
		}

		for depth := 0; depth < l.config.MaxDepth; depth++ {
			// Russian roulette once the weight has decayed
			if depth > 3 && beta.MaxComponent() < 0.25 {
				q := math.Max(0, 1-beta.MaxComponent())
				if rng.Get1D() < q {
					break
				}
				beta = beta.Scale(1 / (1 - q))
			}

			if l.albedo.IsBlack() {
				// Non-scattering medium: jump to the opposite face
				if z == l.thickness {
					z = 0
				} else {
					z = l.thickness
				}
				beta = beta.Scale(tr(l.thickness, w))
			} else {
				// Sample a free-flight distance through the medium
				sigmaT := 1.0
				dz := core.SampleExponential(rng.Get1D(), sigmaT/math.Abs(w.Z))
				zp := z - dz
				if w.Z > 0 {
					zp = z + dz
				}
				if zp == z {
					continue
				}
				if 0 < zp && zp < l.thickness {
					// Medium scattering event: NEE toward the pre-sampled
					// exit direction, MIS against the phase function
					wt := 1.0
					if exitInterface.IsNonSpecular() {
						wt = core.PowerHeuristic(1, wis.PDF, 1, phase.PDF(w.Negate(), wis.Wi.Negate()))
					}
					f = f.Add(beta.Mul(l.albedo).Mul(wis.F).
						Scale(phase.P(w.Negate(), wis.Wi.Negate()) * wt *
							tr(zp-exitZ, wis.Wi) / wis.PDF))

					// Continue the walk with a phase-function sample
					ps, ok := phase.SampleP(w.Negate(), rng.Get2D())
					if !ok || ps.PDF == 0 || ps.Wi.Z == 0 {
						continue
					}
					beta = beta.Mul(l.albedo).Scale(ps.P / ps.PDF)
					w = ps.Wi
					z = zp

					if exitInterface.IsNonSpecular() {
						// Walk-sampled contribution through the exit
						// interface, MIS against its density
						fExit := exitInterface.Evaluate(w.Negate(), wi, mode)
						if !fExit.IsBlack() {
							exitPDF := exitInterface.PDF(w.Negate(), wi, mode, ReflTransTransmission)
							weight := core.PowerHeuristic(1, ps.PDF, 1, exitPDF)
							f = f.Add(beta.Mul(fExit).Scale(tr(zp-exitZ, ps.Wi) * weight))
						}
					}
					continue
				}
				z = core.Clamp(zp, 0, l.thickness)
			}

			if z == exitZ {
				// The walk reached the face it will eventually exit through;
				// bounce back inside off that same interface
				bs, ok := exitInterface.Sample(w.Negate(), rng.Get1D(), rng.Get2D(), mode, ReflTransReflection)
				if !validSample(bs, ok) {
					break
				}
				beta = beta.Mul(bs.F).Scale(core.AbsCosTheta(bs.Wi) / bs.PDF)
				w = bs.Wi
			} else {
				if nonExitInterface.IsNonSpecular() {
					// NEE toward the pre-sampled exit direction
					wt := 1.0
					if exitInterface.IsNonSpecular() {
						wt = core.PowerHeuristic(1, wis.PDF, 1,
							nonExitInterface.PDF(w.Negate(), wis.Wi.Negate(), mode, ReflTransAll))
					}
					f = f.Add(beta.Mul(nonExitInterface.Evaluate(w.Negate(), wis.Wi.Negate(), mode)).
						Mul(wis.F).
						Scale(core.AbsCosTheta(wis.Wi) * wt * tr(l.thickness, wis.Wi) / wis.PDF))
				}

				// Continue the walk by reflecting off the non-exit interface
				bs, ok := nonExitInterface.Sample(w.Negate(), rng.Get1D(), rng.Get2D(), mode, ReflTransReflection)
				if !validSample(bs, ok) {
					break
				}
				beta = beta.Mul(bs.F).Scale(core.AbsCosTheta(bs.Wi) / bs.PDF)
				w = bs.Wi

				if exitInterface.IsNonSpecular() {
					// Walk-sampled contribution through the exit interface
					fExit := exitInterface.Evaluate(w.Negate(), wi, mode)
					if !fExit.IsBlack() {
						wt := 1.0
						if nonExitInterface.IsNonSpecular() {
							exitPDF := exitInterface.PDF(w.Negate(), wi, mode, ReflTransTransmission)
							wt = core.PowerHeuristic(1, bs.PDF, 1, exitPDF)
						}
						f = f.Add(beta.Mul(fExit).Scale(tr(l.thickness, bs.Wi) * wt))
					}
				}
			}
		}
	}

	return f.Scale(1 / float64(l.config.NSamples))
}

// Sample draws one full path through the stack from wo, accumulating value
// and density multiplicatively, and returns the first direction that
// transmits out through a face. The reported PDF is only proportional to the
// true compound density.
func (l *LayeredBxDF) Sample(wo core.Vec3, uc float64, u core.Vec2, mode TransportMode, sampleFlags ReflTransFlags) (BSDFSample, bool) {
	if sampleFlags != ReflTransAll {
		// Partial-lobe sampling of a layered composite is unsupported
		return BSDFSample{}, false
	}

	flipWi := false
	if l.config.TwoSided && wo.Z < 0 {
		wo = wo.Negate()
		flipWi = true
	}

	// Sample the entry interface for the initial direction
	enteredTop := wo.Z > 0
	var bs BSDFSample
	var ok bool
	if enteredTop {
		bs, ok = l.top.Sample(wo, uc, u, mode, ReflTransAll)
	} else {
		bs, ok = l.bottom.Sample(wo, uc, u, mode, ReflTransAll)
	}
	if !validSample(bs, ok) {
		return BSDFSample{}, false
	}
	if bs.IsReflection() {
		if flipWi {
			bs.Wi = bs.Wi.Negate()
		}
		return bs, true
	}

	rng := core.NewSeededSampler(
		core.Hash(WalkSeed, wo.X, wo.Y, wo.Z),
		core.Hash(0, uc, u.X, u.Y),
	)
	phase := NewHGPhaseFunction(l.g)

	f := bs.F.Scale(core.AbsCosTheta(bs.Wi))
	pdf := bs.PDF
	w := bs.Wi
	z := 0.0
	if enteredTop {
		z = l.thickness
	}

	for depth := 0; depth < l.config.MaxDepth; depth++ {
		// Roulette on the accumulated importance ratio
		rrBeta := f.MaxComponent() / pdf
		if depth > 3 && rrBeta < 0.25 {
			q := math.Max(0, 1-rrBeta)
			if rng.Get1D() < q {
				return BSDFSample{}, false
			}
			pdf *= 1 - q
		}
		if w.Z == 0 {
			return BSDFSample{}, false
		}

		if !l.albedo.IsBlack() {
			// Free-flight sample through the medium
			sigmaT := 1.0
			dz := core.SampleExponential(rng.Get1D(), sigmaT/core.AbsCosTheta(w))
			zp := z - dz
			if w.Z > 0 {
				zp = z + dz
			}
			if zp == z {
				return BSDFSample{}, false
			}
			if 0 < zp && zp < l.thickness {
				ps, ok := phase.SampleP(w.Negate(), rng.Get2D())
				if !ok || ps.PDF == 0 || ps.Wi.Z == 0 {
					return BSDFSample{}, false
				}
				f = f.Mul(l.albedo).Scale(ps.P)
				pdf *= ps.PDF
				w = ps.Wi
				z = zp
				continue
			}
			z = core.Clamp(zp, 0, l.thickness)
		} else {
			// Jump to the opposite face through the clear slab
			if z == l.thickness {
				z = 0
			} else {
				z = l.thickness
			}
			f = f.Scale(tr(l.thickness, w))
		}

		var face interfaceRef
		if z == 0 {
			face = refBottom(l.bottom)
		} else {
			face = refTop(l.top)
		}

		bs, ok := face.Sample(w.Negate(), rng.Get1D(), rng.Get2D(), mode, ReflTransAll)
		if !validSample(bs, ok) {
			return BSDFSample{}, false
		}
		f = f.Mul(bs.F)
		pdf *= bs.PDF
		w = bs.Wi

		if bs.IsTransmission() {
			// The path has left the stack
			flags := FlagGlossyTransmission
			if core.SameHemisphere(wo, w) {
				flags = FlagGlossyReflection
			}
			if flipWi {
				w = w.Negate()
			}
			return BSDFSample{F: f, Wi: w, PDF: pdf, Flags: flags, PDFIsProportional: true}, true
		}

		f = f.Scale(core.AbsCosTheta(bs.Wi))
	}
	return BSDFSample{}, false
}

// PDF returns an approximate sampling density: a stochastic estimate of the
// two- and three-bounce path probabilities blended against a uniform-sphere
// fallback. It is a heuristic denominator, positive wherever Sample can
// produce directions, not an exact density.
func (l *LayeredBxDF) PDF(wo, wi core.Vec3, mode TransportMode, sampleFlags ReflTransFlags) float64 {
	if sampleFlags != ReflTransAll {
		return 0
	}

	if l.config.TwoSided && wo.Z < 0 {
		wo = wo.Negate()
		wi = wi.Negate()
	}

	rng := core.NewSeededSampler(
		core.Hash(WalkSeed, wo.X, wo.Y, wo.Z),
		core.Hash(0, wi.X, wi.Y, wi.Z),
	)

	// Reflection straight off the entry interface
	enteredTop := wo.Z > 0
	pdfSum := 0.0
	if core.SameHemisphere(wo, wi) {
		if enteredTop {
			pdfSum += float64(l.config.NSamples) * l.top.PDF(wo, wi, mode, ReflTransReflection)
		} else {
			pdfSum += float64(l.config.NSamples) * l.bottom.PDF(wo, wi, mode, ReflTransReflection)
		}
	}

	for s := 0; s < l.config.NSamples; s++ {
		if core.SameHemisphere(wo, wi) {
			// TRT term: transmit in, reflect off the far interface,
			// transmit back out
			var rInterface, tInterface interfaceRef
			if enteredTop {
				rInterface = refBottom(l.bottom)
				tInterface = refTop(l.top)
			} else {
				rInterface = refTop(l.top)
				tInterface = refBottom(l.bottom)
			}

			wos, okO := tInterface.Sample(wo, rng.Get1D(), rng.Get2D(), mode, ReflTransTransmission)
			wis, okI := tInterface.Sample(wi, rng.Get1D(), rng.Get2D(), mode.Other(), ReflTransTransmission)
			if !validSample(wos, okO) || !validSample(wis, okI) {
				continue
			}

			if !tInterface.IsNonSpecular() {
				pdfSum += rInterface.PDF(wos.Wi.Negate(), wis.Wi.Negate(), mode, ReflTransAll)
			} else {
				rs, ok := rInterface.Sample(wos.Wi.Negate(), rng.Get1D(), rng.Get2D(), mode, ReflTransAll)
				if !validSample(rs, ok) {
					continue
				}
				if !rInterface.IsNonSpecular() {
					pdfSum += tInterface.PDF(rs.Wi.Negate(), wi, mode, ReflTransAll)
				} else {
					// Both strategies have finite densities: combine them
					tPDF := tInterface.PDF(rs.Wi.Negate(), wi, mode, ReflTransAll)
					wt := core.PowerHeuristic(1, rs.PDF, 1, tPDF)
					pdfSum += wt * tPDF

					rPDF := rInterface.PDF(wos.Wi.Negate(), wis.Wi.Negate(), mode, ReflTransAll)
					wt = core.PowerHeuristic(1, wis.PDF, 1, rPDF)
					pdfSum += wt * rPDF
				}
			}
		} else {
			// TT term: transmit through both interfaces
			var toInterface, tiInterface interfaceRef
			if enteredTop {
				toInterface = refTop(l.top)
				tiInterface = refBottom(l.bottom)
			} else {
				toInterface = refBottom(l.bottom)
				tiInterface = refTop(l.top)
			}

			wos, ok := toInterface.Sample(wo, rng.Get1D(), rng.Get2D(), mode, ReflTransAll)
			if !validSample(wos, ok) || wos.IsReflection() {
				continue
			}
			wis, ok := tiInterface.Sample(wi, rng.Get1D(), rng.Get2D(), mode.Other(), ReflTransAll)
			if !validSample(wis, ok) || wis.IsReflection() {
				continue
			}

			if toInterface.Flags().IsSpecular() {
				pdfSum += tiInterface.PDF(wos.Wi.Negate(), wi, mode, ReflTransAll)
			} else if tiInterface.Flags().IsSpecular() {
				pdfSum += toInterface.PDF(wo, wis.Wi.Negate(), mode, ReflTransAll)
			} else {
				pdfSum += (toInterface.PDF(wo, wis.Wi.Negate(), mode, ReflTransAll) +
					tiInterface.PDF(wos.Wi.Negate(), wi, mode, ReflTransAll)) / 2
			}
		}
	}

	// Blend against the uniform-sphere density so the result stays positive
	return core.Lerp(pdfBlend, core.UniformSpherePDF(), pdfSum/float64(l.config.NSamples))
}
