package bxdf

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-layered-bsdf/pkg/core"
)

func TestHGPhase_Normalization(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	wo := core.NewVec3(0.2, -0.5, 0.843).Normalize()

	for _, g := range []float64{-0.5, 0, 0.3, 0.8} {
		phase := NewHGPhaseFunction(g)
		numSamples := 100000
		sum := 0.0
		for i := 0; i < numSamples; i++ {
			wi := core.SampleUniformSphere(core.NewVec2(random.Float64(), random.Float64()))
			sum += phase.P(wo, wi) / core.UniformSpherePDF()
		}
		integral := sum / float64(numSamples)
		if math.Abs(integral-1) > 0.02 {
			t.Errorf("g=%.1f: phase integral %f, expected 1", g, integral)
		}
	}
}

func TestHGPhase_SamplePDFConsistency(t *testing.T) {
	phase := NewHGPhaseFunction(0.6)
	random := rand.New(rand.NewSource(42))
	wo := core.NewVec3(0.1, 0.3, 0.949).Normalize()

	for i := 0; i < 500; i++ {
		ps, ok := phase.SampleP(wo, core.NewVec2(random.Float64(), random.Float64()))
		if !ok {
			t.Fatal("SampleP should always succeed")
		}
		if math.Abs(ps.Wi.Length()-1) > 1e-9 {
			t.Fatalf("Sampled direction not normalized: length %f", ps.Wi.Length())
		}
		if ps.PDF != ps.P {
			t.Fatalf("Henyey-Greenstein samples exactly: P=%g, PDF=%g", ps.P, ps.PDF)
		}
		pdf := phase.PDF(wo, ps.Wi)
		if relErr(pdf, ps.PDF) > 1e-6 {
			t.Fatalf("PDF mismatch: SampleP reported %g, PDF returned %g", ps.PDF, pdf)
		}
	}
}

func TestHGPhase_ForwardScattering(t *testing.T) {
	phase := NewHGPhaseFunction(0.7)
	wo := core.NewVec3(0, 0, 1)

	// Both arguments point away from the scattering point, so continuing
	// forward means wi = -wo
	forward := phase.P(wo, core.NewVec3(0, 0, -1))
	backward := phase.P(wo, core.NewVec3(0, 0, 1))
	if forward <= backward {
		t.Errorf("Positive g should favor forward scattering: forward %f, backward %f", forward, backward)
	}

	iso := NewHGPhaseFunction(0)
	expected := 1 / (4 * math.Pi)
	if math.Abs(iso.P(wo, core.NewVec3(0.5, 0.5, 0.707))-expected) > 1e-9 {
		t.Errorf("g=0 should be isotropic at %f", expected)
	}
}
