package bxdf

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-layered-bsdf/pkg/core"
)

func smoothCoat(eta float64) *DielectricInterfaceBxDF {
	return NewDielectricInterface(eta, NewTrowbridgeReitz(0, 0),
		core.NewSpectrum(1, 1, 1), core.NewSpectrum(1, 1, 1))
}

func TestLayered_FlagsUnion(t *testing.T) {
	diffuse := NewIdealDiffuse(core.NewSpectrum(0.5, 0.5, 0.5))

	// Specular coat over an opaque diffuse substrate: reflection only
	coated := NewLayered(smoothCoat(1.5), diffuse, 0.01, core.Spectrum{}, 0, DefaultLayeredConfig())
	flags := coated.Flags()
	if !flags.IsReflective() || !flags.IsSpecular() || !flags.IsDiffuse() {
		t.Errorf("Coat-over-diffuse flags: got %v", flags)
	}
	if flags.IsTransmissive() {
		t.Error("Opaque substrate should block the transmission flag")
	}

	// Two transmissive interfaces let light all the way through
	window := NewLayered(smoothCoat(1.5), smoothCoat(1.3), 0.01, core.Spectrum{}, 0, DefaultLayeredConfig())
	if !window.Flags().IsTransmissive() {
		t.Errorf("Double dielectric should be transmissive, got %v", window.Flags())
	}

	// A scattering medium forces the diffuse flag
	hazy := NewLayered(smoothCoat(1.5), NewConductor(NewTrowbridgeReitz(0, 0), goldEta, goldK),
		0.1, core.NewUniformSpectrum(0.5), 0, DefaultLayeredConfig())
	if !hazy.Flags().IsDiffuse() {
		t.Errorf("Medium albedo should set the diffuse flag, got %v", hazy.Flags())
	}
}

func TestLayered_RejectsOpaqueStack(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected a panic for a stack with no transmissive interface")
		}
	}()
	NewLayered(
		NewIdealDiffuse(core.NewSpectrum(0.5, 0.5, 0.5)),
		NewConductor(NewTrowbridgeReitz(0.1, 0.1), goldEta, goldK),
		0.01, core.Spectrum{}, 0, DefaultLayeredConfig())
}

func TestLayered_EvaluateReproducible(t *testing.T) {
	old := WalkSeed
	WalkSeed = 7
	defer func() { WalkSeed = old }()

	cfg := DefaultLayeredConfig()
	cfg.NSamples = 4
	b := NewLayered(smoothCoat(1.5), NewIdealDiffuse(core.NewSpectrum(0.6, 0.3, 0.2)),
		0.05, core.NewUniformSpectrum(0.2), 0.3, cfg)

	wo := core.NewVec3(0.3, -0.1, 0.949).Normalize()
	wi := core.NewVec3(-0.2, 0.4, 0.894).Normalize()

	f1 := b.Evaluate(wo, wi, Radiance)
	f2 := b.Evaluate(wo, wi, Radiance)
	if f1 != f2 {
		t.Errorf("Evaluate should be bit-identical for equal inputs: %v vs %v", f1, f2)
	}

	p1 := b.PDF(wo, wi, Radiance, ReflTransAll)
	p2 := b.PDF(wo, wi, Radiance, ReflTransAll)
	if p1 != p2 {
		t.Errorf("PDF should be bit-identical for equal inputs: %v vs %v", p1, p2)
	}

	s1, ok1 := b.Sample(wo, 0.7, core.NewVec2(0.3, 0.4), Radiance, ReflTransAll)
	s2, ok2 := b.Sample(wo, 0.7, core.NewVec2(0.3, 0.4), Radiance, ReflTransAll)
	if ok1 != ok2 || s1 != s2 {
		t.Errorf("Sample should be bit-identical for equal inputs")
	}

	// A different walk seed keys a different stream
	WalkSeed = 8
	f3 := b.Evaluate(wo, wi, Radiance)
	if f1 == f3 {
		t.Error("Changing the walk seed should change the stochastic estimate")
	}
}

func TestLayered_ThinClearCoatConvergesToSubstrate(t *testing.T) {
	// With a thin non-scattering slab and an index-matched smooth coat, the
	// composite converges to the bare substrate
	old := WalkSeed
	WalkSeed = 1
	defer func() { WalkSeed = old }()

	r := core.NewSpectrum(0.5, 0.5, 0.5)
	cfg := DefaultLayeredConfig()
	cfg.NSamples = 64
	b := NewCoatedDiffuse(smoothCoat(1.0), NewIdealDiffuse(r), 1e-9, core.Spectrum{}, 0, cfg)

	wo := core.NewVec3(0.2, 0.1, 0.975).Normalize()
	wi := core.NewVec3(-0.3, 0.2, 0.933).Normalize()

	got := b.Evaluate(wo, wi, Radiance)
	expected := 0.5 / math.Pi
	if relErr(got.R, expected) > 0.03 {
		t.Errorf("Thin index-matched coat: got %f, expected ~%f", got.R, expected)
	}
}

func TestLayered_SampleRequiresFullMask(t *testing.T) {
	b := NewLayered(smoothCoat(1.5), NewIdealDiffuse(core.NewSpectrum(0.5, 0.5, 0.5)),
		0.01, core.Spectrum{}, 0, DefaultLayeredConfig())
	wo := core.NewVec3(0.1, 0.2, 0.975).Normalize()

	if _, ok := b.Sample(wo, 0.5, core.NewVec2(0.5, 0.5), Radiance, ReflTransReflection); ok {
		t.Error("Partial-lobe sampling should be rejected")
	}
	if pdf := b.PDF(wo, wo, Radiance, ReflTransTransmission); pdf != 0 {
		t.Errorf("Partial-lobe PDF should be zero, got %f", pdf)
	}
}

func TestLayered_SampleWalks(t *testing.T) {
	old := WalkSeed
	WalkSeed = 3
	defer func() { WalkSeed = old }()

	b := NewCoatedDiffuse(smoothCoat(1.5), NewIdealDiffuse(core.NewSpectrum(0.8, 0.8, 0.8)),
		0.01, core.Spectrum{}, 0, DefaultLayeredConfig())
	random := rand.New(rand.NewSource(42))
	wo := core.NewVec3(0.3, 0.2, 0.933).Normalize()

	sawEntryReflection := false
	sawWalkExit := false
	for i := 0; i < 500; i++ {
		s, ok := b.Sample(wo, random.Float64(), core.NewVec2(random.Float64(), random.Float64()), Radiance, ReflTransAll)
		if !ok {
			continue
		}
		if s.PDF <= 0 || s.F.IsBlack() {
			t.Fatalf("Valid sample with degenerate value/density: %+v", s)
		}
		if s.Flags == FlagSpecularReflection {
			// Bounced straight off the coat
			sawEntryReflection = true
			if s.PDFIsProportional {
				t.Error("Entry reflection reports an exact density")
			}
		} else {
			// Walked through the stack and back out
			sawWalkExit = true
			if !s.PDFIsProportional {
				t.Error("Walk exits report only a proportional density")
			}
			if !core.SameHemisphere(wo, s.Wi) {
				t.Errorf("Opaque substrate cannot transmit, got %v", s.Wi)
			}
		}
	}
	if !sawEntryReflection || !sawWalkExit {
		t.Errorf("Expected both path families: entry reflection %v, walk exit %v",
			sawEntryReflection, sawWalkExit)
	}
}

func TestLayered_PDFStaysPositive(t *testing.T) {
	old := WalkSeed
	WalkSeed = 5
	defer func() { WalkSeed = old }()

	b := NewCoatedDiffuse(smoothCoat(1.5), NewIdealDiffuse(core.NewSpectrum(0.5, 0.5, 0.5)),
		0.01, core.Spectrum{}, 0, DefaultLayeredConfig())
	random := rand.New(rand.NewSource(42))

	floor := (1 - pdfBlend) * core.UniformSpherePDF()
	for i := 0; i < 100; i++ {
		wo := core.SampleUniformSphere(core.NewVec2(random.Float64(), random.Float64()))
		wi := core.SampleUniformSphere(core.NewVec2(random.Float64(), random.Float64()))
		if wo.Z == 0 || wi.Z == 0 {
			continue
		}
		pdf := b.PDF(wo, wi, Radiance, ReflTransAll)
		if pdf < floor-1e-12 {
			t.Fatalf("PDF below the uniform floor: %g for wo=%v wi=%v", pdf, wo, wi)
		}
	}
}

func TestLayered_TwoSidedSymmetry(t *testing.T) {
	old := WalkSeed
	WalkSeed = 11
	defer func() { WalkSeed = old }()

	b := NewCoatedDiffuse(smoothCoat(1.5), NewIdealDiffuse(core.NewSpectrum(0.4, 0.5, 0.6)),
		0.02, core.Spectrum{}, 0, DefaultLayeredConfig())
	wo := core.NewVec3(0.2, -0.3, 0.933).Normalize()
	wi := core.NewVec3(-0.1, 0.2, 0.975).Normalize()

	// A two-sided stack mirrors back-side queries onto the front
	front := b.Evaluate(wo, wi, Radiance)
	back := b.Evaluate(wo.Negate(), wi.Negate(), Radiance)
	if front != back {
		t.Errorf("Two-sided evaluation should mirror exactly: %v vs %v", front, back)
	}

	s, ok := b.Sample(wo.Negate(), 0.9, core.NewVec2(0.4, 0.6), Radiance, ReflTransAll)
	if ok && s.Wi.Z >= 0 {
		t.Errorf("Back-side reflection should stay on the back side, got %v", s.Wi)
	}
}

func TestCoatedDiffuse_EnergyBounded(t *testing.T) {
	old := WalkSeed
	WalkSeed = 2
	defer func() { WalkSeed = old }()

	b := NewCoatedDiffuse(smoothCoat(1.5), NewIdealDiffuse(core.NewSpectrum(1, 1, 1)),
		0.01, core.Spectrum{}, 0, DefaultLayeredConfig())
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	wo := core.NewVec3(0.2, 0.3, 0.933).Normalize()

	rho := Rho(b, wo, sampler, 20000)
	if rho.MaxComponent() > 1.03 {
		t.Errorf("Coated unit-albedo diffuse reflectance exceeds 1: %v", rho)
	}
	if rho.Average() < 0.7 {
		t.Errorf("Clear coat should pass most energy to the substrate: %v", rho)
	}
}

func TestCoatedDiffuse_DiffuseReflectance(t *testing.T) {
	r := core.NewSpectrum(0.6, 0.4, 0.2)
	b := NewCoatedDiffuse(smoothCoat(1.5), NewIdealDiffuse(r), 0.01, core.Spectrum{}, 0, DefaultLayeredConfig())

	expected := r.Scale(1 - FrDiffuseReflectance(1.5))
	got := b.DiffuseReflectance()
	if math.Abs(got.R-expected.R) > 1e-12 || math.Abs(got.B-expected.B) > 1e-12 {
		t.Errorf("DiffuseReflectance: got %v, expected %v", got, expected)
	}
}

func TestCoatedConductor_Roundtrip(t *testing.T) {
	old := WalkSeed
	WalkSeed = 4
	defer func() { WalkSeed = old }()

	b := NewCoatedConductor(smoothCoat(1.5),
		NewConductor(NewTrowbridgeReitz(0.2, 0.2), goldEta, goldK),
		0.01, core.Spectrum{}, 0, DefaultLayeredConfig())
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	wo := core.NewVec3(0.1, 0.4, 0.911).Normalize()

	rho := Rho(b, wo, sampler, 20000)
	if rho.MaxComponent() > 1.03 {
		t.Errorf("Coated conductor reflectance exceeds 1: %v", rho)
	}
	if rho.IsBlack() {
		t.Error("Coated gold should reflect")
	}
}

func TestSlabTransmittance(t *testing.T) {
	w := core.NewVec3(0, 0, 1)
	if got := tr(0, w); got != 1 {
		t.Errorf("Zero-depth transmittance: got %f, expected 1", got)
	}
	if got := tr(1, w); math.Abs(got-math.Exp(-1)) > 1e-12 {
		t.Errorf("Unit-depth transmittance: got %f, expected %f", got, math.Exp(-1))
	}

	// Oblique travel attenuates more over the same depth difference
	oblique := core.NewVec3(0.8, 0, 0.6)
	if tr(1, oblique) >= tr(1, w) {
		t.Error("Oblique paths should attenuate more than normal paths")
	}
}
