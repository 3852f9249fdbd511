package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestSampleCosineHemisphere_Distribution(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	numSamples := 20000

	sumCos := 0.0
	for i := 0; i < numSamples; i++ {
		w := SampleCosineHemisphere(NewVec2(random.Float64(), random.Float64()))
		if w.Z < 0 {
			t.Fatalf("Cosine hemisphere sample below the horizon: %v", w)
		}
		if math.Abs(w.Length()-1) > 1e-9 {
			t.Fatalf("Cosine hemisphere sample not normalized: length %f", w.Length())
		}
		sumCos += w.Z
	}

	// E[cos(theta)] = 2/3 under the cosine-weighted distribution
	avgCos := sumCos / float64(numSamples)
	if math.Abs(avgCos-2.0/3.0) > 0.01 {
		t.Errorf("Cosine hemisphere mean cosine: got %f, expected %f", avgCos, 2.0/3.0)
	}
}

func TestCosineHemispherePDF(t *testing.T) {
	cosTheta := 0.7
	expected := cosTheta / math.Pi
	if got := CosineHemispherePDF(cosTheta); math.Abs(got-expected) > 1e-12 {
		t.Errorf("CosineHemispherePDF: got %f, expected %f", got, expected)
	}
}

func TestSampleUniformSphere_Coverage(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	numSamples := 20000

	sum := Vec3{}
	for i := 0; i < numSamples; i++ {
		w := SampleUniformSphere(NewVec2(random.Float64(), random.Float64()))
		if math.Abs(w.Length()-1) > 1e-9 {
			t.Fatalf("Uniform sphere sample not normalized: length %f", w.Length())
		}
		sum = sum.Add(w)
	}

	// Mean direction of a uniform sphere distribution is zero
	mean := sum.Multiply(1 / float64(numSamples))
	if mean.Length() > 0.02 {
		t.Errorf("Uniform sphere samples are biased: mean %v", mean)
	}

	expected := 1 / (4 * math.Pi)
	if math.Abs(UniformSpherePDF()-expected) > 1e-12 {
		t.Errorf("UniformSpherePDF: got %f, expected %f", UniformSpherePDF(), expected)
	}
}

func TestPowerHeuristic(t *testing.T) {
	// Equal PDFs split the weight evenly
	if w := PowerHeuristic(1, 0.5, 1, 0.5); math.Abs(w-0.5) > 1e-12 {
		t.Errorf("PowerHeuristic equal case: got %f, expected 0.5", w)
	}

	// Dominant primary PDF takes nearly all the weight
	if w := PowerHeuristic(1, 10, 1, 0.1); w < 0.99 {
		t.Errorf("PowerHeuristic dominant case: got %f, expected near 1", w)
	}

	// Degenerate other PDF yields weight 1
	if w := PowerHeuristic(1, 1, 1, 0); w != 1 {
		t.Errorf("PowerHeuristic degenerate case: got %f, expected 1", w)
	}
}

func TestSampleExponential(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	a := 2.0
	numSamples := 50000

	sum := 0.0
	for i := 0; i < numSamples; i++ {
		x := SampleExponential(random.Float64(), a)
		if x < 0 {
			t.Fatalf("Exponential sample negative: %f", x)
		}
		sum += x
	}

	// Mean of Exp(a) is 1/a
	mean := sum / float64(numSamples)
	if math.Abs(mean-1/a) > 0.01 {
		t.Errorf("Exponential mean: got %f, expected %f", mean, 1/a)
	}
}

func TestTrimmedLogistic_SampleInversion(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	s := 0.25
	a, b := -math.Pi, math.Pi

	// Sampled values stay inside [a, b] and the density integrates to ~1
	numSamples := 200
	for i := 0; i < numSamples; i++ {
		x := SampleTrimmedLogistic(random.Float64(), s, a, b)
		if x < a || x > b {
			t.Fatalf("Trimmed logistic sample out of range: %f", x)
		}
	}

	integral := 0.0
	steps := 10000
	dx := (b - a) / float64(steps)
	for i := 0; i < steps; i++ {
		x := a + (float64(i)+0.5)*dx
		integral += TrimmedLogistic(x, s, a, b) * dx
	}
	if math.Abs(integral-1) > 1e-3 {
		t.Errorf("Trimmed logistic density integral: got %f, expected 1", integral)
	}
}
