package bxdf

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-layered-bsdf/pkg/core"
)

// constantTable is a stand-in measurement: a Lambertian lobe stored as a
// constant, recording the coordinates it is asked for
type constantTable struct {
	value   core.Spectrum
	lookups []core.Vec2
}

func (c *constantTable) Lookup(uWo, uWi core.Vec2) core.Spectrum {
	c.lookups = append(c.lookups, uWo, uWi)
	return c.value
}

func TestMeasured_LookupRemap(t *testing.T) {
	table := &constantTable{value: core.NewUniformSpectrum(0.5 / math.Pi)}
	b := NewMeasured(table)
	random := rand.New(rand.NewSource(42))

	for i := 0; i < 100; i++ {
		wo := core.SampleUniformSphere(core.NewVec2(random.Float64(), random.Float64()))
		wi := core.SampleUniformSphere(core.NewVec2(random.Float64(), random.Float64()))
		if !core.SameHemisphere(wo, wi) || wo.Z == 0 || wi.Z == 0 {
			continue
		}
		f := b.Evaluate(wo, wi, Radiance)
		if f != table.value {
			t.Fatalf("Evaluate should pass the table value through: got %v", f)
		}
	}

	// Every remapped coordinate lands in the unit square
	for _, u := range table.lookups {
		if u.X < 0 || u.X > 1 || u.Y < 0 || u.Y > 1 {
			t.Fatalf("Remapped coordinate out of [0,1]^2: %v", u)
		}
	}
	if len(table.lookups) == 0 {
		t.Fatal("Expected at least one table lookup")
	}
}

func TestMeasured_HemisphereMasking(t *testing.T) {
	table := &constantTable{value: core.NewUniformSpectrum(0.3)}
	b := NewMeasured(table)
	wo := core.NewVec3(0.2, 0.4, 0.894).Normalize()
	wi := core.NewVec3(0.1, -0.2, -0.975).Normalize()

	if f := b.Evaluate(wo, wi, Radiance); !f.IsBlack() {
		t.Errorf("Cross-hemisphere Evaluate should be black, got %v", f)
	}
	if pdf := b.PDF(wo, wi, Radiance, ReflTransAll); pdf != 0 {
		t.Errorf("Cross-hemisphere PDF should be zero, got %f", pdf)
	}
}

func TestMeasured_BackSideFlip(t *testing.T) {
	// Measurements live on the upper hemisphere; a lower-side query flips
	table := &constantTable{value: core.NewUniformSpectrum(0.25)}
	b := NewMeasured(table)
	wo := core.NewVec3(0.3, 0.1, -0.95).Normalize()
	wi := core.NewVec3(-0.2, 0.2, -0.96).Normalize()

	f := b.Evaluate(wo, wi, Radiance)
	if f != table.value {
		t.Errorf("Back-side pair should still evaluate, got %v", f)
	}
}

func TestMeasured_SamplePDFConsistency(t *testing.T) {
	table := &constantTable{value: core.NewUniformSpectrum(0.5 / math.Pi)}
	b := NewMeasured(table)
	random := rand.New(rand.NewSource(42))
	wo := core.NewVec3(0.4, 0.2, 0.894).Normalize()

	for i := 0; i < 200; i++ {
		s, ok := b.Sample(wo, random.Float64(), core.NewVec2(random.Float64(), random.Float64()), Radiance, ReflTransAll)
		if !ok {
			continue
		}
		if !core.SameHemisphere(wo, s.Wi) {
			t.Fatalf("Sampled direction in the wrong hemisphere: %v", s.Wi)
		}
		pdf := b.PDF(wo, s.Wi, Radiance, ReflTransAll)
		if math.Abs(pdf-s.PDF) > 1e-12 {
			t.Fatalf("PDF mismatch: Sample reported %f, PDF returned %f", s.PDF, pdf)
		}
	}
}
