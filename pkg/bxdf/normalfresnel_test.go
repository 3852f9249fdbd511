package bxdf

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-layered-bsdf/pkg/core"
)

func TestNormalizedFresnel_Value(t *testing.T) {
	b := NewNormalizedFresnel(1.5)
	wo := core.NewVec3(0, 0, 1)
	wi := core.NewVec3(0, 0, 1)

	c := 1 - 2*FresnelMoment1(1/1.5)
	expected := (1 - FrDielectric(1, 1.5)) / (c * math.Pi) * 1.5 * 1.5
	f := b.Evaluate(wo, wi, Radiance)
	if math.Abs(f.R-expected) > 1e-12 {
		t.Errorf("Evaluate at normal incidence: got %f, expected %f", f.R, expected)
	}

	// Importance transport omits the eta^2 radiance compression
	imp := b.Evaluate(wo, wi, Importance)
	if math.Abs(f.R/imp.R-1.5*1.5) > 1e-9 {
		t.Errorf("Radiance/importance ratio: got %f, expected %f", f.R/imp.R, 1.5*1.5)
	}
}

func TestNormalizedFresnel_GrazingFalloff(t *testing.T) {
	b := NewNormalizedFresnel(1.5)
	wo := core.NewVec3(0, 0, 1)

	normal := b.Evaluate(wo, core.NewVec3(0, 0, 1), Radiance).R
	grazing := b.Evaluate(wo, core.NewVec3(0.995, 0, 0.0999).Normalize(), Radiance).R
	if grazing >= normal {
		t.Errorf("Fresnel weighting should darken grazing exits: normal %f, grazing %f", normal, grazing)
	}
}

func TestNormalizedFresnel_SamplePDFConsistency(t *testing.T) {
	b := NewNormalizedFresnel(1.4)
	random := rand.New(rand.NewSource(42))
	wo := core.NewVec3(0.3, -0.3, 0.906).Normalize()

	for i := 0; i < 200; i++ {
		s, ok := b.Sample(wo, random.Float64(), core.NewVec2(random.Float64(), random.Float64()), Radiance, ReflTransAll)
		if !ok {
			continue
		}
		pdf := b.PDF(wo, s.Wi, Radiance, ReflTransAll)
		if math.Abs(pdf-s.PDF) > 1e-12 {
			t.Fatalf("PDF mismatch: Sample reported %f, PDF returned %f", s.PDF, pdf)
		}
		if !core.SameHemisphere(wo, s.Wi) {
			t.Fatalf("Sampled direction in the wrong hemisphere: %v", s.Wi)
		}
	}

	if _, ok := b.Sample(wo, 0.5, core.NewVec2(0.5, 0.5), Radiance, ReflTransTransmission); ok {
		t.Error("Transmission-only mask should fail")
	}
}
