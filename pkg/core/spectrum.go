package core

import "math"

// Spectrum is an RGB spectral weight. It supports the handful of operations
// scattering models need: componentwise arithmetic, scalar scaling, and a
// max-component reduction for Russian roulette and sampling probabilities.
type Spectrum struct {
	R, G, B float64
}

// NewSpectrum creates a spectrum from RGB components
func NewSpectrum(r, g, b float64) Spectrum {
	return Spectrum{R: r, G: g, B: b}
}

// NewUniformSpectrum creates a spectrum with the same value in every channel
func NewUniformSpectrum(v float64) Spectrum {
	return Spectrum{R: v, G: v, B: v}
}

// Add returns the componentwise sum of two spectra
func (s Spectrum) Add(other Spectrum) Spectrum {
	return Spectrum{s.R + other.R, s.G + other.G, s.B + other.B}
}

// Subtract returns the componentwise difference of two spectra
func (s Spectrum) Subtract(other Spectrum) Spectrum {
	return Spectrum{s.R - other.R, s.G - other.G, s.B - other.B}
}

// Scale returns the spectrum scaled by a scalar
func (s Spectrum) Scale(v float64) Spectrum {
	return Spectrum{s.R * v, s.G * v, s.B * v}
}

// Mul returns the componentwise product of two spectra
func (s Spectrum) Mul(other Spectrum) Spectrum {
	return Spectrum{s.R * other.R, s.G * other.G, s.B * other.B}
}

// Div returns the componentwise quotient of two spectra. Channels with a zero
// denominator yield zero rather than infinity.
func (s Spectrum) Div(other Spectrum) Spectrum {
	div := func(a, b float64) float64 {
		if b == 0 {
			return 0
		}
		return a / b
	}
	return Spectrum{div(s.R, other.R), div(s.G, other.G), div(s.B, other.B)}
}

// MaxComponent returns the largest channel value
func (s Spectrum) MaxComponent() float64 {
	return math.Max(s.R, math.Max(s.G, s.B))
}

// Average returns the mean of the channel values
func (s Spectrum) Average() float64 {
	return (s.R + s.G + s.B) / 3
}

// IsBlack reports whether every channel is zero
func (s Spectrum) IsBlack() bool {
	return s.R == 0 && s.G == 0 && s.B == 0
}

// Exp returns the componentwise exponential of the spectrum
func (s Spectrum) Exp() Spectrum {
	return Spectrum{math.Exp(s.R), math.Exp(s.G), math.Exp(s.B)}
}

// Clamp restricts every channel to [lo, hi]
func (s Spectrum) Clamp(lo, hi float64) Spectrum {
	return Spectrum{Clamp(s.R, lo, hi), Clamp(s.G, lo, hi), Clamp(s.B, lo, hi)}
}

// LerpSpectrum interpolates componentwise between a and b by t
func LerpSpectrum(t float64, a, b Spectrum) Spectrum {
	return a.Scale(1 - t).Add(b.Scale(t))
}
